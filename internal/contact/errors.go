package contact

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every failure the address book core can report.
type Kind string

const (
	KindInvalidName        Kind = "invalid_name"
	KindInvalidPhone       Kind = "invalid_phone"
	KindInvalidEmail       Kind = "invalid_email"
	KindContactExists      Kind = "contact_exists"
	KindContactNotFound    Kind = "contact_not_found"
	KindDuplicatePhone     Kind = "duplicate_phone"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindPhoneNotFound      Kind = "phone_not_found"
	KindEmailNotFound      Kind = "email_not_found"
	KindInvalidIndex       Kind = "invalid_index"
	KindEmptyContacts      Kind = "empty_contacts"
	KindEmptyContactFields Kind = "empty_contact_fields"
	KindPersistence        Kind = "persistence"
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{
	KindInvalidName,
	KindInvalidPhone,
	KindInvalidEmail,
	KindContactExists,
	KindContactNotFound,
	KindDuplicatePhone,
	KindDuplicateEmail,
	KindPhoneNotFound,
	KindEmailNotFound,
	KindInvalidIndex,
	KindEmptyContacts,
	KindEmptyContactFields,
	KindPersistence,
}

// Sentinels for errors.Is matching. Only the Kind is compared.
var (
	ErrInvalidName        = &Error{Kind: KindInvalidName}
	ErrInvalidPhone       = &Error{Kind: KindInvalidPhone}
	ErrInvalidEmail       = &Error{Kind: KindInvalidEmail}
	ErrContactExists      = &Error{Kind: KindContactExists}
	ErrContactNotFound    = &Error{Kind: KindContactNotFound}
	ErrDuplicatePhone     = &Error{Kind: KindDuplicatePhone}
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail}
	ErrPhoneNotFound      = &Error{Kind: KindPhoneNotFound}
	ErrEmailNotFound      = &Error{Kind: KindEmailNotFound}
	ErrInvalidIndex       = &Error{Kind: KindInvalidIndex}
	ErrEmptyContacts      = &Error{Kind: KindEmptyContacts}
	ErrEmptyContactFields = &Error{Kind: KindEmptyContactFields}
	ErrPersistence        = &Error{Kind: KindPersistence}
)

// Error is the single error type of the core. It carries the payload a
// presentation layer needs to describe the failure; it holds no user text.
type Error struct {
	Kind  Kind
	Name  string    // contact name, when known
	Phone string    // offending phone value
	Email string    // offending email value
	Index int       // offending index for KindInvalidIndex
	Field FieldKind // collection the index or value refers to
	Path  string    // file path for KindPersistence
	Op    string    // "load" or "save" for KindPersistence
	Err   error     // underlying cause for KindPersistence
}

func (e *Error) Error() string {
	if e == nil {
		return "contact: <nil>"
	}

	var b strings.Builder
	b.WriteString("contact: ")
	b.WriteString(string(e.Kind))

	var attrs []string
	if e.Name != "" {
		attrs = append(attrs, fmt.Sprintf("name=%q", e.Name))
	}
	if e.Phone != "" {
		attrs = append(attrs, fmt.Sprintf("phone=%q", e.Phone))
	}
	if e.Email != "" {
		attrs = append(attrs, fmt.Sprintf("email=%q", e.Email))
	}
	if e.Kind == KindInvalidIndex {
		attrs = append(attrs, fmt.Sprintf("%s index=%d", e.Field, e.Index))
	}
	if e.Op != "" {
		attrs = append(attrs, "op="+e.Op)
	}
	if e.Path != "" {
		attrs = append(attrs, "path="+e.Path)
	}
	if len(attrs) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(attrs, " "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
