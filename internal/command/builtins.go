package command

import (
	"github.com/smileynet/addrbook/internal/contact"
)

func builtins() []Command {
	return []Command{
		{Name: "hello", Aliases: []string{"hi", "привіт"}, Run: reply(OutcomeGreeting)},
		{Name: "add", Mutates: true, Run: addContact},
		{Name: "add-phone", Mutates: true, Run: addField(contact.PhoneField)},
		{Name: "add-email", Mutates: true, Run: addField(contact.EmailField)},
		{Name: "change", Mutates: true, Run: changeField},
		{Name: "del", Mutates: true, Run: deleteField},
		{Name: "remove", Mutates: true, Run: removeContact},
		{Name: "phone", Aliases: []string{"show"}, Run: showContact},
		{Name: "all", Run: showAll},
		{Name: "clrscr", Aliases: []string{"clear"}, Run: reply(OutcomeClear)},
		{Name: "help", Aliases: []string{"?"}, Run: reply(OutcomeHelp)},
		{Name: "exit", Aliases: []string{"quit", "close"}, Run: reply(OutcomeGoodbye)},
	}
}

func arity(cmd string, args []string, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return &UsageError{Command: cmd, Got: len(args)}
	}
	return nil
}

func reply(o Outcome) Handler {
	return func(*Session, []string) (Reply, error) {
		return Reply{Outcome: o}, nil
	}
}

// addContact handles "add <name> <phone> [email]".
func addContact(s *Session, args []string) (Reply, error) {
	if err := arity("add", args, 2, 3); err != nil {
		return Reply{}, err
	}
	r, err := contact.NewRecord(normalizeName(args[0]))
	if err != nil {
		return Reply{}, err
	}
	if err := r.AddPhone(args[1]); err != nil {
		return Reply{}, err
	}
	out := Reply{Outcome: OutcomeContactAdded, Name: r.Name().String(), Phone: args[1]}
	if len(args) == 3 {
		if err := r.AddEmail(args[2]); err != nil {
			return Reply{}, err
		}
		out.Email = args[2]
	}
	if err := s.book.Add(r); err != nil {
		return Reply{}, err
	}
	return out, nil
}

// addField handles "add-phone <name> <phone>" and "add-email <name> <email>".
func addField(kind contact.FieldKind) Handler {
	name, outcome := "add-phone", OutcomePhoneAdded
	if kind == contact.EmailField {
		name, outcome = "add-email", OutcomeEmailAdded
	}
	return func(s *Session, args []string) (Reply, error) {
		if err := arity(name, args, 2, 2); err != nil {
			return Reply{}, err
		}
		r, err := s.book.Find(normalizeName(args[0]))
		if err != nil {
			return Reply{}, err
		}
		if err := r.Add(kind, args[1]); err != nil {
			return Reply{}, err
		}
		return fieldReply(outcome, r, kind, lastIndex(r, kind), args[1]), nil
	}
}

// changeField handles "change <name> p.<i>|e.<i> <value>".
func changeField(s *Session, args []string) (Reply, error) {
	if err := arity("change", args, 3, 3); err != nil {
		return Reply{}, err
	}
	r, err := s.book.Find(normalizeName(args[0]))
	if err != nil {
		return Reply{}, err
	}
	kind, idx, err := ParseSelector(args[1])
	if err != nil {
		return Reply{}, err
	}
	if err := r.Edit(kind, idx, args[2]); err != nil {
		return Reply{}, err
	}
	outcome := OutcomePhoneChanged
	if kind == contact.EmailField {
		outcome = OutcomeEmailChanged
	}
	return fieldReply(outcome, r, kind, idx, args[2]), nil
}

// deleteField handles "del <name> p.<i>|e.<i>|<phone>|<email>".
func deleteField(s *Session, args []string) (Reply, error) {
	if err := arity("del", args, 2, 2); err != nil {
		return Reply{}, err
	}
	r, err := s.book.Find(normalizeName(args[0]))
	if err != nil {
		return Reply{}, err
	}

	kind, idx, err := resolveTarget(r, args[1])
	if err != nil {
		return Reply{}, err
	}
	value, err := r.Value(kind, idx)
	if err != nil {
		return Reply{}, err
	}
	if err := r.Remove(kind, idx); err != nil {
		return Reply{}, err
	}
	outcome := OutcomePhoneDeleted
	if kind == contact.EmailField {
		outcome = OutcomeEmailDeleted
	}
	return fieldReply(outcome, r, kind, idx, value), nil
}

// resolveTarget accepts either a selector token or a literal phone or email
// value present in r.
func resolveTarget(r *contact.Record, token string) (contact.FieldKind, int, error) {
	kind, idx, err := ParseSelector(token)
	if err == nil {
		return kind, idx, nil
	}
	switch {
	case contact.ValidPhone(token):
		i, err := r.IndexOfPhone(token)
		return contact.PhoneField, i, err
	case contact.ValidEmail(token):
		i, err := r.IndexOfEmail(token)
		return contact.EmailField, i, err
	}
	return "", 0, &SelectorError{Token: token}
}

// removeContact handles "remove <name>".
func removeContact(s *Session, args []string) (Reply, error) {
	if err := arity("remove", args, 1, 1); err != nil {
		return Reply{}, err
	}
	name := normalizeName(args[0])
	if err := s.book.Delete(name); err != nil {
		return Reply{}, err
	}
	return Reply{Outcome: OutcomeContactDeleted, Name: name}, nil
}

// showContact handles "phone <name>".
func showContact(s *Session, args []string) (Reply, error) {
	if err := arity("phone", args, 1, 1); err != nil {
		return Reply{}, err
	}
	r, err := s.book.Find(normalizeName(args[0]))
	if err != nil {
		return Reply{}, err
	}
	if r.IsEmpty() {
		return Reply{}, &contact.Error{Kind: contact.KindEmptyContactFields, Name: r.Name().String()}
	}
	return Reply{Outcome: OutcomeContact, Name: r.Name().String(), Records: []*contact.Record{r}}, nil
}

// showAll handles "all".
func showAll(s *Session, args []string) (Reply, error) {
	if err := arity("all", args, 0, 0); err != nil {
		return Reply{}, err
	}
	if s.book.IsEmpty() {
		return Reply{}, &contact.Error{Kind: contact.KindEmptyContacts}
	}
	return Reply{Outcome: OutcomeContacts, Records: s.book.Records()}, nil
}

func lastIndex(r *contact.Record, kind contact.FieldKind) int {
	if kind == contact.EmailField {
		return len(r.Emails()) - 1
	}
	return len(r.Phones()) - 1
}

func fieldReply(o Outcome, r *contact.Record, kind contact.FieldKind, idx int, value string) Reply {
	out := Reply{Outcome: o, Name: r.Name().String(), Index: idx}
	if kind == contact.EmailField {
		out.Email = value
	} else {
		out.Phone = value
	}
	return out
}
