package contact

import (
	"errors"
	"strings"

	"github.com/smileynet/phonebook/internal/normalize"
)

var (
	// ErrNameRequired indicates an interactive entry with a blank name.
	ErrNameRequired = errors.New("contact: name is required")
	// ErrPhoneRequired indicates an interactive entry with a blank phone.
	ErrPhoneRequired = errors.New("contact: phone number is required")
)

// Warning reports a non-fatal problem: the operation went ahead without
// the offending piece of data.
type Warning string

const (
	WarnInvalidEmail Warning = "Invalid email format"
	WarnInvalidDate  Warning = "Invalid date format"
)

// Input is raw, user-entered text for a new contact.
type Input struct {
	Name     string
	Phone    string
	Email    string
	Birthday string
}

// NewRecord validates interactive entry and builds the record to store.
// A missing name or phone rejects the entry. An invalid email or birthday
// is dropped from the record and reported as a warning.
func NewRecord(in Input) (string, Record, []Warning, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", Record{}, nil, ErrNameRequired
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return "", Record{}, nil, ErrPhoneRequired
	}

	rec := Record{Phone: normalize.FormatPhone(phone)}
	var warnings []Warning

	if email := strings.TrimSpace(in.Email); email != "" {
		if normalize.IsValidEmail(email) {
			rec.Email = email
		} else {
			warnings = append(warnings, WarnInvalidEmail)
		}
	}

	if bday := strings.TrimSpace(in.Birthday); bday != "" {
		if normalize.IsValidDate(bday) {
			rec.Birthday = bday
		} else {
			warnings = append(warnings, WarnInvalidDate)
		}
	}

	return name, rec, warnings, nil
}
