// Package view turns command replies and errors into localized, styled text.
package view

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/contact"
)

// DefaultLanguage is the catalog used when none is configured.
const DefaultLanguage = "uk"

// ErrNoGreetings indicates a catalog without any greeting lines.
var ErrNoGreetings = errors.New("view: catalog has no greetings")

// Label keys every catalog must define.
const (
	LabelPrompt        = "prompt"
	LabelContactHeader = "contact_header"
	LabelPhones        = "phones"
	LabelEmails        = "emails"
	LabelAllHeader     = "all_header"
	LabelAllCount      = "all_count"
	LabelHelpHeader    = "help_header"
)

// Message keys for errors raised outside the contact package.
const (
	MsgUsage          = "usage"
	MsgUnknownCommand = "unknown_command"
	MsgBadSelector    = "bad_selector"
	MsgInternal       = "internal"
)

// HelpEntry is one line of the command reference.
type HelpEntry struct {
	Command string `yaml:"command"`
	Usage   string `yaml:"usage"`
	Text    string `yaml:"text"`
}

// Data is the value every message template is executed against.
type Data struct {
	Name    string
	Phone   string
	Email   string
	Index   int
	Field   string
	Path    string
	Op      string
	Command string
	Usage   string
	Token   string
	Count   int
	Err     string
}

// Catalog holds the parsed templates for one language.
type Catalog struct {
	Tag       language.Tag
	Greetings []string
	Help      []HelpEntry

	labels   map[string]*template.Template
	messages map[string]*template.Template
}

type rawCatalog struct {
	Language  string            `yaml:"language"`
	Labels    map[string]string `yaml:"labels"`
	Messages  map[string]string `yaml:"messages"`
	Greetings []string          `yaml:"greetings"`
	Help      []HelpEntry       `yaml:"help"`
}

// RequiredLabels lists the label keys a catalog must define.
func RequiredLabels() []string {
	return []string{
		LabelPrompt, LabelContactHeader, LabelPhones, LabelEmails,
		LabelAllHeader, LabelAllCount, LabelHelpHeader,
	}
}

// RequiredMessages lists the message keys a catalog must define: one per
// error kind, one per text outcome and the dispatch errors.
func RequiredMessages() []string {
	keys := make([]string, 0, len(contact.Kinds)+16)
	for _, k := range contact.Kinds {
		keys = append(keys, string(k))
	}
	for _, o := range textOutcomes {
		keys = append(keys, string(o))
	}
	return append(keys, MsgUsage, MsgUnknownCommand, MsgBadSelector, MsgInternal)
}

// textOutcomes are the outcomes rendered from a single message template.
var textOutcomes = []command.Outcome{
	command.OutcomeContactAdded,
	command.OutcomePhoneAdded,
	command.OutcomeEmailAdded,
	command.OutcomePhoneChanged,
	command.OutcomeEmailChanged,
	command.OutcomePhoneDeleted,
	command.OutcomeEmailDeleted,
	command.OutcomeContactDeleted,
	command.OutcomeGoodbye,
}

// LoadCatalog reads <lang>.yaml from fsys and parses every template in it.
// Unknown YAML fields, missing keys and broken templates are errors.
func LoadCatalog(fsys fs.FS, lang string) (*Catalog, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	if strings.ContainsAny(lang, `/\.`) {
		return nil, fmt.Errorf("view: invalid language %q", lang)
	}

	data, err := fs.ReadFile(fsys, lang+".yaml")
	if err != nil {
		return nil, fmt.Errorf("view: loading catalog %s: %w", lang, err)
	}

	var raw rawCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("view: parsing catalog %s: %w", lang, err)
	}
	if len(raw.Greetings) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoGreetings, lang)
	}

	tagName := raw.Language
	if tagName == "" {
		tagName = lang
	}
	tag, err := language.Parse(tagName)
	if err != nil {
		return nil, fmt.Errorf("view: catalog %s: %w", lang, err)
	}

	c := &Catalog{Tag: tag, Greetings: raw.Greetings, Help: raw.Help}
	if c.labels, err = compile(lang, "labels", raw.Labels, RequiredLabels()); err != nil {
		return nil, err
	}
	if c.messages, err = compile(lang, "messages", raw.Messages, RequiredMessages()); err != nil {
		return nil, err
	}
	return c, nil
}

func compile(lang, section string, src map[string]string, required []string) (map[string]*template.Template, error) {
	for _, key := range required {
		if _, ok := src[key]; !ok {
			return nil, fmt.Errorf("view: catalog %s: %s.%s is missing", lang, section, key)
		}
	}
	out := make(map[string]*template.Template, len(src))
	for key, text := range src {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("view: catalog %s: parsing %s.%s: %w", lang, section, key, err)
		}
		// Execute once against zero data so references to unknown fields
		// fail at load time rather than mid-session.
		if err := tmpl.Execute(&bytes.Buffer{}, Data{}); err != nil {
			return nil, fmt.Errorf("view: catalog %s: %s.%s: %w", lang, section, key, err)
		}
		out[key] = tmpl
	}
	return out, nil
}

// Label renders the label template key.
func (c *Catalog) Label(key string, d Data) string {
	return execute(c.labels, key, d)
}

// Message renders the message template key.
func (c *Catalog) Message(key string, d Data) string {
	return execute(c.messages, key, d)
}

// Usage returns the usage lines for cmd joined by " | ", or cmd itself.
func (c *Catalog) Usage(cmd string) string {
	var lines []string
	for _, h := range c.Help {
		if h.Command == cmd {
			lines = append(lines, h.Usage)
		}
	}
	if len(lines) == 0 {
		return cmd
	}
	return strings.Join(lines, " | ")
}

func execute(set map[string]*template.Template, key string, d Data) string {
	tmpl, ok := set[key]
	if !ok {
		return key
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return key
	}
	return buf.String()
}
