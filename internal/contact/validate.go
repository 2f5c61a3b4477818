// Package contact implements the contact data model: validated name, phone
// and email fields, the Record that owns them, and the error taxonomy shared
// by the address book core.
package contact

import "regexp"

var (
	nameRe  = regexp.MustCompile(`^[A-Za-zА-Яа-яІіЇїЄєҐґ'-]{1,50}$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe = regexp.MustCompile(`(?i)^[^@\s\p{Z}]+@[^@\s\p{Z}]+\.[a-z]{2,}$`)
)

// ValidName reports whether s is 1 to 50 Latin or Cyrillic letters,
// apostrophes or hyphens.
func ValidName(s string) bool {
	return nameRe.MatchString(s)
}

// ValidPhone reports whether s is exactly ten ASCII digits.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// ValidEmail reports whether s has the local@domain.tld shape with a
// top-level domain of at least two letters.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
