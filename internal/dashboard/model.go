package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/phonebook/internal/book"
	"github.com/smileynet/phonebook/internal/contact"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// headerHeight covers the title line and the blank line under it.
const headerHeight = 2

// pickerStatusHeight is the position line under a windowed picker.
const pickerStatusHeight = 1

// noticeHeight reserves room for the notice lines under the frame.
const noticeHeight = 2

// Model is the root Bubble Tea model for the phone book menu.
// Every store operation runs synchronously inside Update.
type Model struct {
	book *book.Book

	mode   Mode
	width  int
	height int

	menu    listCursor
	form    formState
	prompt  textinput.Model // Search term or import path.
	picker  listCursor
	names   []string // Delete picker rows.
	confirm confirmState

	results      viewport.Model
	resultsTitle string

	notices  []book.Notice
	help     help.Model
	quitting bool
}

// NewModel creates a Model in menu mode. Startup notices, such as a
// warning about an unreadable contacts file, are shown under the menu.
func NewModel(b *book.Book, notices ...book.Notice) Model {
	return Model{
		book:    b,
		mode:    ModeMenu,
		results: viewport.New(0, 0),
		help:    help.New(),
		notices: notices,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mode returns the current view mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Notices returns the notices currently on screen.
func (m Model) Notices() []book.Notice {
	return m.notices
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.results.Width = max(msg.Width-frameChromeCols, 0)
		m.results.Height = max(m.contentHeight()-headerHeight, 1)
		return m, nil

	case formSubmitMsg:
		return m.submitForm(msg.Input)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	// Cursor blink and similar messages go to whichever input is live.
	switch m.mode {
	case ModeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case ModeSearch, ModeImport:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes a key press to the active mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		if msg.String() == "esc" {
			return m.toMenu(), nil
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case ModeSearch, ModeImport:
		return m.handlePromptKey(msg)

	case ModeResults:
		switch msg.String() {
		case "esc", "q", "enter":
			return m.toMenu(), nil
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case ModePicker:
		return m.handlePickerKey(msg)

	case ModeConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			return m.answerConfirm(true)
		case "n", "N", "esc":
			return m.answerConfirm(false)
		}
		return m, nil

	default:
		return m.handleMenuKey(msg)
	}
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.selectMenu(menuIndex("6"))
	case "up", "k":
		m.menu = m.menu.up(len(MenuItems))
	case "down", "j":
		m.menu = m.menu.down(len(MenuItems))
	case "enter":
		return m.selectMenu(m.menu.pos)
	default:
		if i := menuIndex(msg.String()); i >= 0 {
			m.menu.pos = i
			return m.selectMenu(i)
		}
		if msg.Type == tea.KeyRunes {
			m.notices = []book.Notice{book.NoticeInvalidChoice}
		}
	}
	return m, nil
}

// selectMenu starts the action for the menu item at index i.
func (m Model) selectMenu(i int) (tea.Model, tea.Cmd) {
	m.notices = nil

	switch MenuItems[i].Key {
	case "1":
		var cmd tea.Cmd
		m.form, cmd = newFormState()
		m.mode = ModeForm
		return m, cmd

	case "2":
		if _, n := m.book.All(); n != nil {
			m.notices = []book.Notice{*n}
			return m, nil
		}
		return m.openPrompt(ModeSearch, "Enter name to search (or part of name): ", "")

	case "3":
		names, n := m.book.Deletable()
		if n != nil {
			m.notices = []book.Notice{*n}
			return m, nil
		}
		m.names = names
		m.picker = listCursor{}
		m.mode = ModePicker
		return m, nil

	case "4":
		entries, n := m.book.All()
		if n != nil {
			m.notices = []book.Notice{*n}
			return m, nil
		}
		return m.showResults("=== Phone Book Contacts ===", entries), nil

	case "5":
		return m.openPrompt(ModeImport, "Path to .vcf file: ", "contacts.vcf")

	default:
		m.notices = []book.Notice{book.NoticeGoodbye}
		m.quitting = true
		return m, tea.Quit
	}
}

// openPrompt switches to a single-field entry mode.
func (m Model) openPrompt(mode Mode, label, placeholder string) (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = label
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	ti.Width = max(m.width-len(label)-frameChromeCols, 20)
	m.prompt = ti
	m.mode = mode
	return m, m.prompt.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		mode := m.mode
		m = m.toMenu()
		if mode == ModeImport {
			m.notices = []book.Notice{book.NoticeImportCancel}
		} else {
			m.notices = []book.Notice{book.NoticeSearchCancel}
		}
		return m, nil

	case "enter":
		value := m.prompt.Value()
		if m.mode == ModeImport {
			n := m.book.Import(value)
			m = m.toMenu()
			m.notices = []book.Notice{n}
			return m, nil
		}
		found, n := m.book.Lookup(value)
		if n != nil {
			m = m.toMenu()
			m.notices = []book.Notice{*n}
			return m, nil
		}
		return m.showResults("=== Found Contacts ===", found), nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.picker = m.picker.up(len(m.names))
	case "down", "j":
		m.picker = m.picker.down(len(m.names))
	case "esc", "q":
		return m.toMenu(), nil
	case "enter":
		if m.picker.pos < len(m.names) {
			m.confirm = confirmState{kind: confirmDelete, name: m.names[m.picker.pos]}
			m.mode = ModeConfirm
		}
	}
	return m, nil
}

// submitForm validates the add form and either saves, asks to overwrite,
// or returns to the menu with the rejection.
func (m Model) submitForm(in contact.Input) (tea.Model, tea.Cmd) {
	draft, notices := m.book.Prepare(in)
	if draft == nil {
		m = m.toMenu()
		m.notices = notices
		return m, nil
	}

	if draft.Exists {
		m.confirm = confirmState{kind: confirmOverwrite, name: draft.Name, draft: draft}
		m.mode = ModeConfirm
		return m, nil
	}

	m = m.toMenu()
	m.notices = append(notices, m.book.Save(draft))
	return m, nil
}

func (m Model) answerConfirm(yes bool) (tea.Model, tea.Cmd) {
	cs := m.confirm
	m = m.toMenu()

	switch cs.kind {
	case confirmOverwrite:
		// Declining an overwrite drops the entry silently.
		if yes && cs.draft != nil {
			m.notices = append(append([]book.Notice(nil), cs.draft.Warnings...), m.book.Save(cs.draft))
		}
	case confirmDelete:
		m.notices = []book.Notice{m.book.Delete(cs.name, yes)}
	}
	return m, nil
}

// showResults fills the viewport with formatted contacts.
func (m Model) showResults(title string, entries []contact.Entry) Model {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(contact.FormatContact(e.Name, e.Record))
	}
	m.resultsTitle = title
	m.results.SetContent(b.String())
	m.results.GotoTop()
	m.mode = ModeResults
	return m
}

// toMenu returns to the main menu, clearing transient state.
func (m Model) toMenu() Model {
	m.mode = ModeMenu
	m.confirm = confirmState{}
	m.names = nil
	m.notices = nil
	return m
}

// contentHeight returns the usable height for the framed body.
func (m Model) contentHeight() int {
	h := m.height - headerHeight - frameChromeLines - noticeHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the title, the framed body for the current mode, any
// notices, and the help bar.
func (m Model) View() string {
	if m.quitting {
		return m.viewNotices() + "\n"
	}

	frame := FrameStyle()
	if m.width > 0 {
		frame = frame.Width(m.width - 2)
	}

	sections := []string{
		titleStyle.Render("Phone Book"),
		"",
		frame.Render(m.viewBody()),
	}
	if len(m.notices) > 0 {
		sections = append(sections, m.viewNotices())
	}
	sections = append(sections, m.help.View(HelpBindings(m.mode)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewBody() string {
	switch m.mode {
	case ModeForm:
		return m.form.View()
	case ModeSearch:
		return titleStyle.Render("Search Contacts") + "\n\n" + m.prompt.View()
	case ModeImport:
		return titleStyle.Render("Import VCF File") + "\n\n" + m.prompt.View()
	case ModeResults:
		return titleStyle.Render(m.resultsTitle) + "\n\n" + m.results.View()
	case ModePicker:
		return titleStyle.Render("Select Contact to Delete") + "\n\n" + m.viewPicker()
	case ModeConfirm:
		return m.confirm.View()
	default:
		return titleStyle.Render("Phone Book Menu:") + "\n\n" + renderRows(menuRows(), m.menu.pos) +
			"\n\n" + dimStyle.Render(contactCount(m.book.Store().Len()))
	}
}

// viewPicker renders the slice of names that fits the frame, with a
// position line once the list is longer than the window.
func (m Model) viewPicker() string {
	if m.height == 0 {
		return renderRows(m.names, m.picker.pos)
	}
	rows := m.contentHeight() - headerHeight - pickerStatusHeight
	start, end := visibleWindow(len(m.names), m.picker.pos, rows)
	body := renderRows(m.names[start:end], m.picker.pos-start)
	if end-start < len(m.names) {
		body += "\n" + dimStyle.Render(fmt.Sprintf("%d/%d", m.picker.pos+1, len(m.names)))
	}
	return body
}

func (m Model) viewNotices() string {
	lines := make([]string, len(m.notices))
	for i, n := range m.notices {
		lines[i] = NoticeBadge(n)
	}
	return strings.Join(lines, "\n")
}

func contactCount(n int) string {
	if n == 1 {
		return "1 contact"
	}
	return fmt.Sprintf("%d contacts", n)
}
