package dashboard

import (
	"fmt"
	"strings"

	"github.com/smileynet/phonebook/internal/book"
)

// confirmKind selects what a yes answer does.
type confirmKind int

const (
	confirmOverwrite confirmKind = iota
	confirmDelete
)

// confirmState holds the data needed for the confirmation screen.
type confirmState struct {
	kind  confirmKind
	name  string
	draft *book.Draft // Set for confirmOverwrite.
}

// View renders the confirmation question.
func (cs confirmState) View() string {
	var b strings.Builder

	switch cs.kind {
	case confirmOverwrite:
		b.WriteString(titleStyle.Render("Contact Exists"))
		fmt.Fprintf(&b, "\n\n  Overwrite %s?", cs.name)
		if cs.draft != nil {
			b.WriteString("\n\n  New details:")
			b.WriteString(indent(recordLines(cs.draft), "    "))
		}
		b.WriteString("\n\n  [y/Enter] Yes   [n/Esc] No")
	case confirmDelete:
		b.WriteString(titleStyle.Render("Confirm Delete"))
		fmt.Fprintf(&b, "\n\n  Delete %s?", cs.name)
		b.WriteString("\n\n  [y/Enter] Delete   [n/Esc] Cancel")
	}

	return b.String()
}

// recordLines lists the set fields of a draft record.
func recordLines(d *book.Draft) string {
	var b strings.Builder
	if d.Record.Phone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", d.Record.Phone)
	}
	if d.Record.Email != "" {
		fmt.Fprintf(&b, "\nEmail: %s", d.Record.Email)
	}
	if d.Record.Birthday != "" {
		fmt.Fprintf(&b, "\nBirthday: %s", d.Record.Birthday)
	}
	return b.String()
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
