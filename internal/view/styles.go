package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color modes accepted by NewStyles.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Severity selects the style a message is rendered with.
type Severity int

const (
	SevPlain Severity = iota
	SevSuccess
	SevInfo
	SevWarn
	SevError
)

var severityColors = map[Severity]lipgloss.AdaptiveColor{
	SevSuccess: {Light: "2", Dark: "10"}, // green
	SevInfo:    {Light: "4", Dark: "12"}, // blue
	SevWarn:    {Light: "3", Dark: "11"}, // yellow
	SevError:   {Light: "1", Dark: "9"},  // red
}

// Styles renders text for one output stream.
type Styles struct {
	r    *lipgloss.Renderer
	sev  map[Severity]lipgloss.Style
	bold lipgloss.Style
}

// NewStyles builds styles bound to w. Mode "never" strips all escape codes,
// "always" forces 256 colours, and "auto" detects from w.
func NewStyles(w io.Writer, mode string) (*Styles, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case "", ColorAuto:
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("view: unknown color mode %q", mode)
	}

	s := &Styles{
		r:    r,
		sev:  make(map[Severity]lipgloss.Style, len(severityColors)),
		bold: r.NewStyle().Bold(true),
	}
	for sev, c := range severityColors {
		s.sev[sev] = r.NewStyle().Foreground(c)
	}
	return s, nil
}

// Paint renders text with the style for sev.
func (s *Styles) Paint(sev Severity, text string) string {
	st, ok := s.sev[sev]
	if !ok {
		return text
	}
	return st.Render(text)
}

// Bold renders text in bold.
func (s *Styles) Bold(text string) string {
	return s.bold.Render(text)
}
