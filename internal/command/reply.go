package command

import "github.com/smileynet/addrbook/internal/contact"

// Outcome identifies what a successful command did.
type Outcome string

const (
	OutcomeGreeting       Outcome = "greeting"
	OutcomeContactAdded   Outcome = "contact_added"
	OutcomePhoneAdded     Outcome = "phone_added"
	OutcomeEmailAdded     Outcome = "email_added"
	OutcomePhoneChanged   Outcome = "phone_changed"
	OutcomeEmailChanged   Outcome = "email_changed"
	OutcomePhoneDeleted   Outcome = "phone_deleted"
	OutcomeEmailDeleted   Outcome = "email_deleted"
	OutcomeContactDeleted Outcome = "contact_deleted"
	OutcomeContact        Outcome = "contact"
	OutcomeContacts       Outcome = "contacts"
	OutcomeHelp           Outcome = "help"
	OutcomeClear          Outcome = "clear"
	OutcomeGoodbye        Outcome = "goodbye"
)

// Reply is the result of a successful command. It carries data only; the
// view package turns it into text.
type Reply struct {
	Outcome Outcome
	Name    string
	Phone   string
	Email   string
	Index   int
	Records []*contact.Record
}

// Quit reports whether the interactive loop should stop after this reply.
func (r Reply) Quit() bool { return r.Outcome == OutcomeGoodbye }
