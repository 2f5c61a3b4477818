package command

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/contact"
)

type countingSaver struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (c *countingSaver) Save(*book.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	return c.err
}

func (c *countingSaver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

func newSession(t *testing.T) (*Session, *countingSaver) {
	t.Helper()
	saver := &countingSaver{}
	return NewSession(book.New(), saver), saver
}

func mustExec(t *testing.T, s *Session, line string) Reply {
	t.Helper()
	rep, err := s.Execute(line)
	if err != nil {
		t.Fatalf("Execute(%q) error = %v", line, err)
	}
	return rep
}

func phonesOf(t *testing.T, s *Session, name string) []string {
	t.Helper()
	r, err := s.Book().Find(name)
	if err != nil {
		t.Fatalf("Find(%q) error = %v", name, err)
	}
	var out []string
	for _, p := range r.Phones() {
		out = append(out, p.String())
	}
	return out
}

func TestSession_AddContact(t *testing.T) {
	// Given: an empty book
	s, saver := newSession(t)

	// When: a contact is added with phone and email
	rep := mustExec(t, s, "add Олена 0501112233 olena@example.com")

	// Then: the reply describes the new contact and the book is saved once
	if rep.Outcome != OutcomeContactAdded {
		t.Errorf("Outcome = %q, want %q", rep.Outcome, OutcomeContactAdded)
	}
	if rep.Name != "Олена" || rep.Phone != "0501112233" || rep.Email != "olena@example.com" {
		t.Errorf("reply = %+v", rep)
	}
	if saver.count() != 1 {
		t.Errorf("saves = %d, want 1", saver.count())
	}
	r, err := s.Book().Find("Олена")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(r.Phones()) != 1 || len(r.Emails()) != 1 {
		t.Errorf("phones=%d emails=%d, want 1 and 1", len(r.Phones()), len(r.Emails()))
	}
}

func TestSession_AddContactFailuresLeaveBookUntouched(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind contact.Kind
	}{
		{"invalid name", "add Olena1 0501112233", contact.KindInvalidName},
		{"invalid phone", "add Olena 12345", contact.KindInvalidPhone},
		{"invalid email", "add Olena 0501112233 not-an-email", contact.KindInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, saver := newSession(t)
			_, err := s.Execute(tt.line)
			if got := contact.KindOf(err); got != tt.kind {
				t.Fatalf("KindOf(err) = %q, want %q (err=%v)", got, tt.kind, err)
			}
			if !s.Book().IsEmpty() {
				t.Error("book should stay empty")
			}
			if saver.count() != 0 {
				t.Errorf("saves = %d, want 0", saver.count())
			}
		})
	}
}

func TestSession_ContactExists(t *testing.T) {
	s, saver := newSession(t)
	mustExec(t, s, "add Olena 0501112233")

	_, err := s.Execute("add Olena 0991234567")
	if !errors.Is(err, contact.ErrContactExists) {
		t.Fatalf("error = %v, want ContactExists", err)
	}
	if got := phonesOf(t, s, "Olena"); len(got) != 1 || got[0] != "0501112233" {
		t.Errorf("phones = %v, want [0501112233]", got)
	}
	if saver.count() != 1 {
		t.Errorf("saves = %d, want 1", saver.count())
	}
}

func TestSession_DuplicatePhone(t *testing.T) {
	// Given: a contact with one phone
	s, _ := newSession(t)
	mustExec(t, s, "add Олена 0991234567")

	// When: the same phone is added again
	_, err := s.Execute("add-phone Олена 0991234567")

	// Then: DuplicatePhone and the record still has exactly one phone
	if !errors.Is(err, contact.ErrDuplicatePhone) {
		t.Fatalf("error = %v, want DuplicatePhone", err)
	}
	if got := phonesOf(t, s, "Олена"); len(got) != 1 {
		t.Errorf("phones = %v, want exactly one", got)
	}
}

func TestSession_AddFieldReportsIndex(t *testing.T) {
	s, _ := newSession(t)
	mustExec(t, s, "add Olena 0501112233")

	rep := mustExec(t, s, "add-phone Olena 0991234567")
	if rep.Outcome != OutcomePhoneAdded || rep.Index != 1 || rep.Phone != "0991234567" {
		t.Errorf("reply = %+v, want phone_added at index 1", rep)
	}

	rep = mustExec(t, s, "add-email Olena olena@example.com")
	if rep.Outcome != OutcomeEmailAdded || rep.Index != 0 || rep.Email != "olena@example.com" {
		t.Errorf("reply = %+v, want email_added at index 0", rep)
	}
}

func TestSession_Change(t *testing.T) {
	t.Run("replaces phone by index", func(t *testing.T) {
		s, saver := newSession(t)
		mustExec(t, s, "add Olena 0501112233")
		mustExec(t, s, "add-phone Olena 0671112233")

		rep := mustExec(t, s, "change Olena p.1 0991234567")
		if rep.Outcome != OutcomePhoneChanged || rep.Index != 1 {
			t.Errorf("reply = %+v", rep)
		}
		got := phonesOf(t, s, "Olena")
		if len(got) != 2 || got[1] != "0991234567" {
			t.Errorf("phones = %v", got)
		}
		if saver.count() != 3 {
			t.Errorf("saves = %d, want 3", saver.count())
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		// Given: a record with 2 phones
		s, saver := newSession(t)
		mustExec(t, s, "add Olena 0501112233")
		mustExec(t, s, "add-phone Olena 0671112233")

		// When: phone 5 is changed
		_, err := s.Execute("change Olena p.5 0991234567")

		// Then: InvalidIndex carrying the index, and no extra save
		if !errors.Is(err, contact.ErrInvalidIndex) {
			t.Fatalf("error = %v, want InvalidIndex", err)
		}
		var ce *contact.Error
		if errors.As(err, &ce) && ce.Index != 5 {
			t.Errorf("Index = %d, want 5", ce.Index)
		}
		if saver.count() != 2 {
			t.Errorf("saves = %d, want 2", saver.count())
		}
	})

	t.Run("email selector", func(t *testing.T) {
		s, _ := newSession(t)
		mustExec(t, s, "add Olena 0501112233 old@example.com")

		rep := mustExec(t, s, "change Olena e.0 new@example.com")
		if rep.Outcome != OutcomeEmailChanged || rep.Email != "new@example.com" {
			t.Errorf("reply = %+v", rep)
		}
	})

	t.Run("bad selector", func(t *testing.T) {
		s, _ := newSession(t)
		mustExec(t, s, "add Olena 0501112233")

		_, err := s.Execute("change Olena 1 0991234567")
		var se *SelectorError
		if !errors.As(err, &se) {
			t.Fatalf("error = %v, want *SelectorError", err)
		}
	})

	t.Run("missing contact wins over bad selector", func(t *testing.T) {
		s, _ := newSession(t)
		_, err := s.Execute("change Nobody x 0991234567")
		if !errors.Is(err, contact.ErrContactNotFound) {
			t.Fatalf("error = %v, want ContactNotFound", err)
		}
	})
}

func TestSession_Delete(t *testing.T) {
	setup := func(t *testing.T) *Session {
		t.Helper()
		s, _ := newSession(t)
		mustExec(t, s, "add Olena 0501112233 a@example.com")
		mustExec(t, s, "add-phone Olena 0671112233")
		mustExec(t, s, "add-phone Olena 0991234567")
		return s
	}

	t.Run("by selector compacts indices", func(t *testing.T) {
		s := setup(t)
		rep := mustExec(t, s, "del Olena p.0")
		if rep.Outcome != OutcomePhoneDeleted || rep.Phone != "0501112233" || rep.Index != 0 {
			t.Errorf("reply = %+v", rep)
		}
		got := phonesOf(t, s, "Olena")
		if len(got) != 2 || got[0] != "0671112233" || got[1] != "0991234567" {
			t.Errorf("phones = %v", got)
		}
	})

	t.Run("by phone value", func(t *testing.T) {
		s := setup(t)
		rep := mustExec(t, s, "del Olena 0671112233")
		if rep.Index != 1 {
			t.Errorf("Index = %d, want 1", rep.Index)
		}
	})

	t.Run("by email value", func(t *testing.T) {
		s := setup(t)
		rep := mustExec(t, s, "del Olena a@example.com")
		if rep.Outcome != OutcomeEmailDeleted {
			t.Errorf("Outcome = %q", rep.Outcome)
		}
	})

	t.Run("unknown phone value", func(t *testing.T) {
		s := setup(t)
		_, err := s.Execute("del Olena 0000000000")
		if !errors.Is(err, contact.ErrPhoneNotFound) {
			t.Fatalf("error = %v, want PhoneNotFound", err)
		}
	})

	t.Run("unknown email value", func(t *testing.T) {
		s := setup(t)
		_, err := s.Execute("del Olena b@example.com")
		if !errors.Is(err, contact.ErrEmailNotFound) {
			t.Fatalf("error = %v, want EmailNotFound", err)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		s := setup(t)
		_, err := s.Execute("del Olena e.3")
		if !errors.Is(err, contact.ErrInvalidIndex) {
			t.Fatalf("error = %v, want InvalidIndex", err)
		}
	})

	t.Run("neither selector nor value", func(t *testing.T) {
		s := setup(t)
		_, err := s.Execute("del Olena something")
		var se *SelectorError
		if !errors.As(err, &se) {
			t.Fatalf("error = %v, want *SelectorError", err)
		}
	})
}

func TestSession_RemoveAndShow(t *testing.T) {
	s, _ := newSession(t)
	mustExec(t, s, "add Olena 0501112233")
	mustExec(t, s, "add Taras 0671112233")

	rep := mustExec(t, s, "phone Olena")
	if rep.Outcome != OutcomeContact || len(rep.Records) != 1 {
		t.Errorf("reply = %+v", rep)
	}

	rep = mustExec(t, s, "all")
	if rep.Outcome != OutcomeContacts || len(rep.Records) != 2 {
		t.Fatalf("reply = %+v", rep)
	}
	if rep.Records[0].Name().String() != "Olena" {
		t.Errorf("first = %q, want insertion order", rep.Records[0].Name())
	}

	rep = mustExec(t, s, "remove Olena")
	if rep.Outcome != OutcomeContactDeleted || rep.Name != "Olena" {
		t.Errorf("reply = %+v", rep)
	}
	if _, err := s.Execute("phone Olena"); !errors.Is(err, contact.ErrContactNotFound) {
		t.Errorf("error = %v, want ContactNotFound", err)
	}
	if _, err := s.Execute("remove Olena"); !errors.Is(err, contact.ErrContactNotFound) {
		t.Errorf("error = %v, want ContactNotFound", err)
	}
}

func TestSession_FoldsTypedNamesToNFC(t *testing.T) {
	// Given: a contact added with a name typed using combining marks
	s, _ := newSession(t)
	rep := mustExec(t, s, "add \u0418\u0306\u043eсип 0501112233")

	// Then: the book stores the precomposed spelling
	if rep.Name != "\u0419\u043eсип" {
		t.Errorf("Name = %q, want precomposed %q", rep.Name, "\u0419\u043eсип")
	}
	if got := phonesOf(t, s, "\u0419\u043eсип"); len(got) != 1 {
		t.Errorf("phones = %v, want one", got)
	}

	// When: later commands use either spelling
	mustExec(t, s, "add-phone \u0419\u043eсип 0672223344")
	rep = mustExec(t, s, "phone \u0418\u0306\u043eсип")

	// Then: both resolve to the same contact
	if rep.Outcome != OutcomeContact || len(rep.Records[0].Phones()) != 2 {
		t.Errorf("reply = %+v", rep)
	}
	rep = mustExec(t, s, "remove \u0418\u0306\u043eсип")
	if rep.Name != "\u0419\u043eсип" || !s.Book().IsEmpty() {
		t.Errorf("remove reply = %+v, empty = %v", rep, s.Book().IsEmpty())
	}
}

func TestSession_EmptyStates(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Execute("all"); !errors.Is(err, contact.ErrEmptyContacts) {
		t.Errorf("all on empty book: error = %v, want EmptyContacts", err)
	}

	mustExec(t, s, "add Olena 0501112233")
	mustExec(t, s, "del Olena p.0")
	_, err := s.Execute("phone Olena")
	if !errors.Is(err, contact.ErrEmptyContactFields) {
		t.Errorf("error = %v, want EmptyContactFields", err)
	}
}

func TestSession_UsageErrors(t *testing.T) {
	lines := []string{
		"add Olena",
		"add Olena 0501112233 a@example.com extra",
		"add-phone Olena",
		"change Olena p.0",
		"del Olena",
		"remove",
		"phone",
		"all now",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			s, saver := newSession(t)
			_, err := s.Execute(line)
			var ue *UsageError
			if !errors.As(err, &ue) {
				t.Fatalf("error = %v, want *UsageError", err)
			}
			if saver.count() != 0 {
				t.Errorf("saves = %d, want 0", saver.count())
			}
		})
	}
}

func TestSession_UnknownCommand(t *testing.T) {
	s, _ := newSession(t)
	for _, line := range []string{"", "launch rockets"} {
		_, err := s.Execute(line)
		var uce *UnknownCommandError
		if !errors.As(err, &uce) {
			t.Errorf("Execute(%q) error = %v, want *UnknownCommandError", line, err)
		}
	}
}

func TestSession_NonMutatingCommandsDoNotSave(t *testing.T) {
	s, saver := newSession(t)
	for _, line := range []string{"hello", "привіт", "help", "?", "clear", "all"} {
		_, _ = s.Execute(line)
	}
	if saver.count() != 0 {
		t.Errorf("saves = %d, want 0", saver.count())
	}

	rep := mustExec(t, s, "quit")
	if !rep.Quit() {
		t.Error("quit should end the session")
	}
}

func TestSession_SaveFailure(t *testing.T) {
	// Given: a saver that always fails
	saveErr := &contact.Error{Kind: contact.KindPersistence, Path: "/nope/contacts.json", Err: errors.New("read-only")}
	saver := &countingSaver{err: saveErr}
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewSession(book.New(), saver, WithLogger(zap.New(core)))

	// When: a mutating command runs
	_, err := s.Execute("add Olena 0501112233")

	// Then: the persistence error surfaces and is logged
	if !errors.Is(err, contact.ErrPersistence) {
		t.Fatalf("error = %v, want Persistence", err)
	}
	if logs.FilterMessage("command.save_failed").Len() != 1 {
		t.Errorf("expected one command.save_failed entry, got %v", logs.All())
	}
	// The mutation itself stands; the next successful save persists it.
	if s.Book().Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Book().Len())
	}
}

func TestSession_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSession(book.New(), &countingSaver{}, WithLogger(zap.New(core)))

	_, _ = s.Execute("phone Nobody")
	mustExec(t, s, "add Olena 0501112233")

	failed := logs.FilterMessage("command.failed").All()
	if len(failed) != 1 {
		t.Fatalf("command.failed entries = %d, want 1", len(failed))
	}
	if got := failed[0].ContextMap()["kind"]; got != string(contact.KindContactNotFound) {
		t.Errorf("kind = %v, want %q", got, contact.KindContactNotFound)
	}
	if logs.FilterMessage("command.done").Len() != 1 {
		t.Errorf("expected one command.done entry")
	}
}

func TestSession_ConcurrentMutations(t *testing.T) {
	s, saver := newSession(t)
	mustExec(t, s, "add Olena 0501112233")

	phones := []string{"0670000001", "0670000002", "0670000003", "0670000004", "0670000005"}
	var wg sync.WaitGroup
	for _, p := range phones {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if _, err := s.Execute("add-phone Olena " + p); err != nil {
				t.Errorf("add-phone %s: %v", p, err)
			}
		}(p)
	}
	wg.Wait()

	if got := phonesOf(t, s, "Olena"); len(got) != 1+len(phones) {
		t.Errorf("phones = %d, want %d", len(got), 1+len(phones))
	}
	if saver.count() != 1+len(phones) {
		t.Errorf("saves = %d, want %d", saver.count(), 1+len(phones))
	}
}

func TestSession_Commands(t *testing.T) {
	s, _ := newSession(t)

	got := s.Commands()

	for _, want := range []string{"add", "add-phone", "remove", "привіт", "quit"} {
		found := false
		for _, name := range got {
			found = found || name == want
		}
		if !found {
			t.Errorf("Commands() = %v, missing %q", got, want)
		}
	}
}
