package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/phonebook/internal/contact"
)

// formLabels are the add-contact field titles in entry order.
var formLabels = [...]string{
	"Name",
	"Phone Number",
	"Email (optional)",
	"Birthday (YYYY-MM-DD, optional)",
}

// formState holds the add-contact text fields and which one has focus.
type formState struct {
	inputs [len(formLabels)]textinput.Model
	focus  int
}

// newFormState returns an empty form with the name field focused.
func newFormState() (formState, tea.Cmd) {
	var fs formState
	for i := range fs.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		fs.inputs[i] = ti
	}
	fs.inputs[2].Placeholder = "name@example.com"
	fs.inputs[3].Placeholder = "1990-01-15"
	return fs, fs.inputs[0].Focus()
}

// formSubmitMsg carries the completed form back to the model.
type formSubmitMsg struct {
	Input contact.Input
}

// Update moves focus between fields and forwards typing to the focused one.
// Enter on the last field submits.
func (fs formState) Update(msg tea.Msg) (formState, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if fs.focus == len(fs.inputs)-1 {
				in := fs.input()
				return fs, func() tea.Msg { return formSubmitMsg{Input: in} }
			}
			return fs.moveFocus(1)
		case "tab", "down":
			return fs.moveFocus(1)
		case "shift+tab", "up":
			return fs.moveFocus(-1)
		}
	}

	var cmd tea.Cmd
	fs.inputs[fs.focus], cmd = fs.inputs[fs.focus].Update(msg)
	return fs, cmd
}

func (fs formState) moveFocus(delta int) (formState, tea.Cmd) {
	fs.inputs[fs.focus].Blur()
	fs.focus = (fs.focus + delta + len(fs.inputs)) % len(fs.inputs)
	return fs, fs.inputs[fs.focus].Focus()
}

// input collects the raw field values.
func (fs formState) input() contact.Input {
	return contact.Input{
		Name:     fs.inputs[0].Value(),
		Phone:    fs.inputs[1].Value(),
		Email:    fs.inputs[2].Value(),
		Birthday: fs.inputs[3].Value(),
	}
}

// View renders the labelled fields, marking the focused one.
func (fs formState) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add Contact"))
	b.WriteString("\n")
	for i, label := range formLabels {
		b.WriteString("\n")
		if i == fs.focus {
			b.WriteString(cursorStyle.Render(CursorMarker + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n    ")
		b.WriteString(fs.inputs[i].View())
	}
	return b.String()
}
