// Package book implements the address book: a name-keyed collection of
// contact records that enforces name uniqueness.
package book

import (
	"slices"

	"github.com/smileynet/addrbook/internal/contact"
)

// Book owns its records exclusively. Enumeration follows insertion order.
// It is not safe for concurrent use; callers that share a Book must serialize
// each mutate-and-save sequence themselves.
type Book struct {
	records map[string]*contact.Record
	order   []string
}

// New returns an empty Book.
func New() *Book {
	return &Book{records: make(map[string]*contact.Record)}
}

// Add inserts r. It fails with KindContactExists if the name is taken.
func (b *Book) Add(r *contact.Record) error {
	name := r.Name().String()
	if _, ok := b.records[name]; ok {
		return &contact.Error{Kind: contact.KindContactExists, Name: name}
	}
	b.records[name] = r
	b.order = append(b.order, name)
	return nil
}

// Put stores r under its name. A record already stored under that name is
// replaced in its original position; otherwise r is appended. Put reports
// whether it replaced a record.
func (b *Book) Put(r *contact.Record) bool {
	name := r.Name().String()
	_, replaced := b.records[name]
	if !replaced {
		b.order = append(b.order, name)
	}
	b.records[name] = r
	return replaced
}

// Find returns the record for name. The record may be mutated in place.
func (b *Book) Find(name string) (*contact.Record, error) {
	r, ok := b.records[name]
	if !ok {
		return nil, &contact.Error{Kind: contact.KindContactNotFound, Name: name}
	}
	return r, nil
}

// Delete removes the record for name.
func (b *Book) Delete(name string) error {
	if _, ok := b.records[name]; !ok {
		return &contact.Error{Kind: contact.KindContactNotFound, Name: name}
	}
	delete(b.records, name)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == name })
	return nil
}

// IsEmpty reports whether the book has no records.
func (b *Book) IsEmpty() bool { return len(b.order) == 0 }

// Len returns the number of records.
func (b *Book) Len() int { return len(b.order) }

// Records returns the records in insertion order.
func (b *Book) Records() []*contact.Record {
	out := make([]*contact.Record, len(b.order))
	for i, name := range b.order {
		out[i] = b.records[name]
	}
	return out
}
