// Package contact holds the contact record model and the name-keyed store
// that owns every record for the lifetime of the process.
package contact

import (
	"fmt"
	"strings"
)

// separatorWidth is the dash count closing every rendered contact.
const separatorWidth = 30

// Record is the set of optional attributes stored for one contact name.
// An empty field means the attribute is unset.
type Record struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Birthday string `json:"birthday,omitempty"`
}

// Entry pairs a contact name with its record.
type Entry struct {
	Name   string
	Record Record
}

// FormatContact renders a contact for display: a Name line, the set fields
// in phone/email/birthday order, and a closing dash separator.
func FormatContact(name string, r Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", name)
	if r.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", r.Phone)
	}
	if r.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", r.Email)
	}
	if r.Birthday != "" {
		fmt.Fprintf(&b, "Birthday: %s\n", r.Birthday)
	}
	b.WriteString(strings.Repeat("-", separatorWidth))
	return b.String()
}
