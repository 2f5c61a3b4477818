package view

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/contact"
)

// Listing orders for the "all" command.
const (
	OrderInsertion = "insertion"
	OrderAlpha     = "alpha"
)

// Options configures a Renderer.
type Options struct {
	Output io.Writer       // Stream the text is written to (default: os.Stdout).
	Color  string          // auto, always or never.
	Order  string          // insertion or alpha.
	Pick   func(n int) int // Greeting picker returning [0,n) (default: math/rand).
}

// Renderer produces the text shown for replies and errors.
// It is not safe for concurrent use.
type Renderer struct {
	cat    *Catalog
	styles *Styles
	order  string
	pick   func(n int) int
	col    *collate.Collator
}

// NewRenderer creates a Renderer for cat.
func NewRenderer(cat *Catalog, opts Options) (*Renderer, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Pick == nil {
		opts.Pick = rand.Intn
	}
	switch opts.Order {
	case "":
		opts.Order = OrderInsertion
	case OrderInsertion, OrderAlpha:
	default:
		return nil, fmt.Errorf("view: unknown order %q", opts.Order)
	}

	styles, err := NewStyles(opts.Output, opts.Color)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		cat:    cat,
		styles: styles,
		order:  opts.Order,
		pick:   opts.Pick,
		col:    collate.New(cat.Tag),
	}, nil
}

// Prompt returns the input prompt.
func (r *Renderer) Prompt() string {
	return r.cat.Label(LabelPrompt, Data{})
}

// Greeting returns one of the catalog's greetings.
func (r *Renderer) Greeting() string {
	return r.cat.Greetings[r.pick(len(r.cat.Greetings))]
}

// Reply renders a successful command. Clear renders as the empty string.
func (r *Renderer) Reply(rep command.Reply) string {
	switch rep.Outcome {
	case command.OutcomeGreeting:
		return r.Greeting()
	case command.OutcomeClear:
		return ""
	case command.OutcomeHelp:
		return r.Help()
	case command.OutcomeContact:
		if len(rep.Records) == 0 {
			return ""
		}
		return r.card(rep.Records[0])
	case command.OutcomeContacts:
		return r.list(rep.Records)
	}

	d := Data{Name: rep.Name, Phone: rep.Phone, Email: rep.Email, Index: rep.Index}
	return r.styles.Paint(SevSuccess, r.cat.Message(string(rep.Outcome), d))
}

// Error renders err for the user.
func (r *Renderer) Error(err error) string {
	var (
		ce  *contact.Error
		ue  *command.UsageError
		uce *command.UnknownCommandError
		se  *command.SelectorError
	)
	switch {
	case errors.As(err, &ce):
		d := Data{
			Name:  ce.Name,
			Phone: ce.Phone,
			Email: ce.Email,
			Index: ce.Index,
			Field: string(ce.Field),
			Path:  ce.Path,
			Op:    ce.Op,
		}
		if ce.Err != nil {
			d.Err = ce.Err.Error()
		}
		return r.styles.Paint(kindSeverity(ce.Kind), r.cat.Message(string(ce.Kind), d))
	case errors.As(err, &ue):
		d := Data{Command: ue.Command, Usage: r.cat.Usage(ue.Command)}
		return r.styles.Paint(SevError, r.cat.Message(MsgUsage, d))
	case errors.As(err, &uce):
		return r.styles.Paint(SevWarn, r.cat.Message(MsgUnknownCommand, Data{Command: uce.Name}))
	case errors.As(err, &se):
		return r.styles.Paint(SevError, r.cat.Message(MsgBadSelector, Data{Token: se.Token}))
	}
	return r.styles.Paint(SevError, r.cat.Message(MsgInternal, Data{Err: err.Error()}))
}

// Help renders the command reference.
func (r *Renderer) Help() string {
	width := 0
	for _, h := range r.cat.Help {
		width = max(width, len([]rune(h.Usage)))
	}
	var b strings.Builder
	b.WriteString(r.styles.Bold(r.cat.Label(LabelHelpHeader, Data{})))
	for _, h := range r.cat.Help {
		pad := strings.Repeat(" ", width-len([]rune(h.Usage)))
		fmt.Fprintf(&b, "\n  %s%s - %s", h.Usage, pad, h.Text)
	}
	return b.String()
}

func (r *Renderer) card(rec *contact.Record) string {
	var b strings.Builder
	b.WriteString(r.styles.Bold(r.cat.Label(LabelContactHeader, Data{Name: rec.Name().String()})))
	if phones := rec.Phones(); len(phones) > 0 {
		fmt.Fprintf(&b, "\n %s: %s", r.cat.Label(LabelPhones, Data{}), indexed(phones))
	}
	if emails := rec.Emails(); len(emails) > 0 {
		fmt.Fprintf(&b, "\n %s: %s", r.cat.Label(LabelEmails, Data{}), indexed(emails))
	}
	return b.String()
}

func (r *Renderer) list(recs []*contact.Record) string {
	if r.order == OrderAlpha {
		recs = slices.Clone(recs)
		slices.SortStableFunc(recs, func(a, b *contact.Record) int {
			return r.col.CompareString(a.Name().String(), b.Name().String())
		})
	}

	var b strings.Builder
	b.WriteString(r.cat.Label(LabelAllHeader, Data{}))
	for _, rec := range recs {
		b.WriteString("\n")
		if rec.IsEmpty() {
			b.WriteString(r.Error(&contact.Error{Kind: contact.KindEmptyContactFields, Name: rec.Name().String()}))
			continue
		}
		b.WriteString(r.card(rec))
	}
	b.WriteString("\n")
	b.WriteString(r.cat.Label(LabelAllCount, Data{Count: len(recs)}))
	return b.String()
}

func indexed[T fmt.Stringer](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("[%d] %s", i, it)
	}
	return strings.Join(parts, "; ")
}

func kindSeverity(k contact.Kind) Severity {
	switch k {
	case contact.KindEmptyContacts, contact.KindEmptyContactFields:
		return SevInfo
	case contact.KindContactExists, contact.KindContactNotFound,
		contact.KindDuplicatePhone, contact.KindDuplicateEmail,
		contact.KindPhoneNotFound, contact.KindEmailNotFound:
		return SevWarn
	}
	return SevError
}
