package contact

import (
	"fmt"
	"slices"
)

// Record is one contact: an immutable name plus dense, zero-based phone and
// email collections. Every mutation validates before it changes state, and no
// collection ever holds two equal values.
type Record struct {
	name   Name
	phones []Phone
	emails []Email
}

// NewRecord creates an empty record for name.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the record's name.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phones in index order.
func (r *Record) Phones() []Phone { return slices.Clone(r.phones) }

// Emails returns a copy of the emails in index order.
func (r *Record) Emails() []Email { return slices.Clone(r.emails) }

// IsEmpty reports whether the record has neither phones nor emails.
func (r *Record) IsEmpty() bool { return len(r.phones) == 0 && len(r.emails) == 0 }

// AddPhone appends value at the next index.
func (r *Record) AddPhone(value string) error {
	p, err := NewPhone(value)
	if err != nil {
		return r.annotate(err)
	}
	if indexOf(r.phones, value) >= 0 {
		return &Error{Kind: KindDuplicatePhone, Name: r.name.value, Phone: value, Field: PhoneField}
	}
	r.phones = append(r.phones, p)
	return nil
}

// EditPhone replaces the phone at index. Setting an entry to the value of a
// different entry fails with KindDuplicatePhone.
func (r *Record) EditPhone(index int, value string) error {
	if err := r.checkIndex(PhoneField, index, len(r.phones)); err != nil {
		return err
	}
	p, err := NewPhone(value)
	if err != nil {
		return r.annotate(err)
	}
	if i := indexOf(r.phones, value); i >= 0 && i != index {
		return &Error{Kind: KindDuplicatePhone, Name: r.name.value, Phone: value, Field: PhoneField}
	}
	r.phones[index] = p
	return nil
}

// RemovePhone deletes the phone at index; later phones shift down by one.
func (r *Record) RemovePhone(index int) error {
	if err := r.checkIndex(PhoneField, index, len(r.phones)); err != nil {
		return err
	}
	r.phones = slices.Delete(r.phones, index, index+1)
	return nil
}

// IndexOfPhone returns the index of value, or KindPhoneNotFound.
func (r *Record) IndexOfPhone(value string) (int, error) {
	i := indexOf(r.phones, value)
	if i < 0 {
		return -1, &Error{Kind: KindPhoneNotFound, Name: r.name.value, Phone: value, Field: PhoneField}
	}
	return i, nil
}

// AddEmail appends value at the next index.
func (r *Record) AddEmail(value string) error {
	e, err := NewEmail(value)
	if err != nil {
		return r.annotate(err)
	}
	if indexOf(r.emails, value) >= 0 {
		return &Error{Kind: KindDuplicateEmail, Name: r.name.value, Email: value, Field: EmailField}
	}
	r.emails = append(r.emails, e)
	return nil
}

// EditEmail replaces the email at index. Setting an entry to the value of a
// different entry fails with KindDuplicateEmail.
func (r *Record) EditEmail(index int, value string) error {
	if err := r.checkIndex(EmailField, index, len(r.emails)); err != nil {
		return err
	}
	e, err := NewEmail(value)
	if err != nil {
		return r.annotate(err)
	}
	if i := indexOf(r.emails, value); i >= 0 && i != index {
		return &Error{Kind: KindDuplicateEmail, Name: r.name.value, Email: value, Field: EmailField}
	}
	r.emails[index] = e
	return nil
}

// RemoveEmail deletes the email at index; later emails shift down by one.
func (r *Record) RemoveEmail(index int) error {
	if err := r.checkIndex(EmailField, index, len(r.emails)); err != nil {
		return err
	}
	r.emails = slices.Delete(r.emails, index, index+1)
	return nil
}

// IndexOfEmail returns the index of value, or KindEmailNotFound.
func (r *Record) IndexOfEmail(value string) (int, error) {
	i := indexOf(r.emails, value)
	if i < 0 {
		return -1, &Error{Kind: KindEmailNotFound, Name: r.name.value, Email: value, Field: EmailField}
	}
	return i, nil
}

// Add appends value to the collection selected by kind.
func (r *Record) Add(kind FieldKind, value string) error {
	switch kind {
	case PhoneField:
		return r.AddPhone(value)
	case EmailField:
		return r.AddEmail(value)
	}
	return r.unknownField(kind, -1)
}

// Edit replaces the entry at index in the collection selected by kind.
func (r *Record) Edit(kind FieldKind, index int, value string) error {
	switch kind {
	case PhoneField:
		return r.EditPhone(index, value)
	case EmailField:
		return r.EditEmail(index, value)
	}
	return r.unknownField(kind, index)
}

// Remove deletes the entry at index in the collection selected by kind.
func (r *Record) Remove(kind FieldKind, index int) error {
	switch kind {
	case PhoneField:
		return r.RemovePhone(index)
	case EmailField:
		return r.RemoveEmail(index)
	}
	return r.unknownField(kind, index)
}

// Value returns the string at index in the collection selected by kind.
func (r *Record) Value(kind FieldKind, index int) (string, error) {
	switch kind {
	case PhoneField:
		if err := r.checkIndex(kind, index, len(r.phones)); err != nil {
			return "", err
		}
		return r.phones[index].value, nil
	case EmailField:
		if err := r.checkIndex(kind, index, len(r.emails)); err != nil {
			return "", err
		}
		return r.emails[index].value, nil
	}
	return "", r.unknownField(kind, index)
}

func (r *Record) checkIndex(kind FieldKind, index, n int) error {
	if index < 0 || index >= n {
		return &Error{Kind: KindInvalidIndex, Name: r.name.value, Index: index, Field: kind}
	}
	return nil
}

// unknownField reports a kind that selects no collection. No index is valid
// for it.
func (r *Record) unknownField(kind FieldKind, index int) error {
	return &Error{Kind: KindInvalidIndex, Name: r.name.value, Index: index, Field: kind}
}

// annotate attaches the record name to a field validation error.
func (r *Record) annotate(err error) error {
	if ce, ok := err.(*Error); ok {
		ce.Name = r.name.value
	}
	return err
}

func indexOf[T fmt.Stringer](items []T, value string) int {
	return slices.IndexFunc(items, func(item T) bool { return item.String() == value })
}
