package command

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/smileynet/addrbook/internal/contact"
)

// normalizeName folds a typed contact name to Unicode NFC, so a name entered
// with combining marks reaches the book in its precomposed spelling.
func normalizeName(s string) string {
	return norm.NFC.String(s)
}

// Parse splits a line into a lower-cased command name and its arguments.
// A blank line yields an empty name.
func Parse(line string) (string, []string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}
	return strings.ToLower(parts[0]), parts[1:]
}

// ParseSelector decodes a field selector token: "p.<index>" for a phone,
// "e.<index>" for an email.
func ParseSelector(token string) (contact.FieldKind, int, error) {
	prefix, num, ok := strings.Cut(token, ".")
	if !ok {
		return "", 0, &SelectorError{Token: token}
	}

	var kind contact.FieldKind
	switch strings.ToLower(prefix) {
	case "p":
		kind = contact.PhoneField
	case "e":
		kind = contact.EmailField
	default:
		return "", 0, &SelectorError{Token: token}
	}

	idx, err := strconv.Atoi(num)
	if err != nil {
		return "", 0, &SelectorError{Token: token}
	}
	return kind, idx, nil
}

// SelectorError reports a token that is not a valid field selector.
type SelectorError struct {
	Token string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("command: invalid field selector %q (want p.<index> or e.<index>)", e.Token)
}

// UsageError reports a command called with the wrong number of arguments.
type UsageError struct {
	Command string
	Got     int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("command: %s: wrong number of arguments (%d)", e.Command, e.Got)
}

// UnknownCommandError indicates a command name is not registered.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command: unknown command %q", e.Name)
}
