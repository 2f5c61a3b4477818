package contact

// FieldKind selects one of a record's indexed collections.
type FieldKind string

const (
	PhoneField FieldKind = "phone"
	EmailField FieldKind = "email"
)

// Name is a validated contact name.
type Name struct {
	value string
}

// NewName validates s as a contact name. The value is kept as given.
func NewName(s string) (Name, error) {
	if !ValidName(s) {
		return Name{}, &Error{Kind: KindInvalidName, Name: s}
	}
	return Name{value: s}, nil
}

func (n Name) String() string { return n.value }

// Phone is a validated ten-digit phone number.
type Phone struct {
	value string
}

// NewPhone validates s as a phone number.
func NewPhone(s string) (Phone, error) {
	if !ValidPhone(s) {
		return Phone{}, &Error{Kind: KindInvalidPhone, Phone: s, Field: PhoneField}
	}
	return Phone{value: s}, nil
}

func (p Phone) String() string { return p.value }

// Email is a validated email address.
type Email struct {
	value string
}

// NewEmail validates s as an email address.
func NewEmail(s string) (Email, error) {
	if !ValidEmail(s) {
		return Email{}, &Error{Kind: KindInvalidEmail, Email: s, Field: EmailField}
	}
	return Email{value: s}, nil
}

func (e Email) String() string { return e.value }
