// Package console implements the phone book menu as a line-based prompt
// loop, for pipes, dumb terminals, and --plain.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/smileynet/phonebook/internal/book"
	"github.com/smileynet/phonebook/internal/contact"
)

// errQuit ends the loop when input runs out.
var errQuit = errors.New("console: input closed")

// Menu drives a Book from line input.
type Menu struct {
	book  *book.Book
	in    *bufio.Reader
	out   io.Writer
	lines chan inputLine // Fed by readLines once the first prompt is shown.
}

// inputLine is one read from the input, with its terminator.
type inputLine struct {
	text string
	err  error
}

// New creates a Menu reading from r and writing to w.
func New(b *book.Book, r io.Reader, w io.Writer) *Menu {
	return &Menu{book: b, in: bufio.NewReader(r), out: w}
}

// Run shows the menu until the user exits or input ends. Cancelling ctx
// interrupts a pending prompt and Run returns ctx.Err().
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printMenu()
		choice, err := m.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return m.finish(err)
		}

		choice = strings.TrimSpace(choice)
		if choice == "6" {
			m.Notify(book.NoticeGoodbye)
			return nil
		}

		if err := m.dispatch(ctx, choice); err != nil {
			return m.finish(err)
		}

		if _, err := m.prompt(ctx, "\nPress Enter to continue..."); err != nil {
			return m.finish(err)
		}
	}
}

// finish maps end of input to a clean exit.
func (m *Menu) finish(err error) error {
	if errors.Is(err, errQuit) {
		m.printf("\n")
		return nil
	}
	return err
}

func (m *Menu) printMenu() {
	m.printf("\nPhone Book Menu:\n")
	m.printf("1. Add New Contact\n")
	m.printf("2. Look Up Contact\n")
	m.printf("3. Delete Contact\n")
	m.printf("4. Show All Contacts\n")
	m.printf("5. Import VCF File\n")
	m.printf("6. Exit\n")
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.add(ctx)
	case "2":
		return m.lookup(ctx)
	case "3":
		return m.remove(ctx)
	case "4":
		m.showAll()
		return nil
	case "5":
		return m.importVCF(ctx)
	default:
		m.Notify(book.NoticeInvalidChoice)
		return nil
	}
}

func (m *Menu) add(ctx context.Context) error {
	var in contact.Input
	fields := []struct {
		label string
		dst   *string
	}{
		{"Name: ", &in.Name},
		{"Phone Number: ", &in.Phone},
		{"Email (optional): ", &in.Email},
		{"Birthday (YYYY-MM-DD, optional): ", &in.Birthday},
	}
	for _, f := range fields {
		v, err := m.prompt(ctx, f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	draft, notices := m.book.Prepare(in)
	for _, n := range notices {
		m.Notify(n)
	}
	if draft == nil {
		return nil
	}

	if draft.Exists {
		ok, err := m.confirm(ctx, fmt.Sprintf("Contact Exists. Overwrite %s?", draft.Name))
		if err != nil || !ok {
			return err
		}
	}

	m.Notify(m.book.Save(draft))
	return nil
}

func (m *Menu) lookup(ctx context.Context) error {
	if _, n := m.book.All(); n != nil {
		m.Notify(*n)
		return nil
	}

	m.printf("\nSearch Contacts\n")
	term, err := m.prompt(ctx, "Enter name to search (or part of name): ")
	if err != nil {
		return err
	}

	found, n := m.book.Lookup(term)
	if n != nil {
		m.Notify(*n)
		return nil
	}
	m.printEntries("=== Found Contacts ===", found)
	return nil
}

func (m *Menu) remove(ctx context.Context) error {
	names, n := m.book.Deletable()
	if n != nil {
		m.Notify(*n)
		return nil
	}

	m.printf("\nSelect Contact to Delete\n")
	for i, name := range names {
		m.printf("%d. %s\n", i+1, name)
	}
	pick, err := m.prompt(ctx, "Number or name (blank to cancel): ")
	if err != nil {
		return err
	}
	selected, ok := resolvePick(strings.TrimSpace(pick), names)
	if !ok {
		return nil
	}

	confirmed, err := m.confirm(ctx, fmt.Sprintf("Confirm Delete. Delete %s?", selected))
	if err != nil {
		return err
	}
	m.Notify(m.book.Delete(selected, confirmed))
	return nil
}

// resolvePick accepts a 1-based index or an exact name.
func resolvePick(pick string, names []string) (string, bool) {
	if pick == "" {
		return "", false
	}
	if i, err := strconv.Atoi(pick); err == nil && i >= 1 && i <= len(names) {
		return names[i-1], true
	}
	for _, name := range names {
		if name == pick {
			return name, true
		}
	}
	return "", false
}

func (m *Menu) showAll() {
	entries, n := m.book.All()
	if n != nil {
		m.Notify(*n)
		return
	}
	m.printEntries("=== Phone Book Contacts ===", entries)
}

func (m *Menu) importVCF(ctx context.Context) error {
	path, err := m.prompt(ctx, "Path to .vcf file: ")
	if err != nil {
		return err
	}
	m.Notify(m.book.Import(path))
	return nil
}

func (m *Menu) printEntries(title string, entries []contact.Entry) {
	m.printf("\n%s\n", title)
	for _, e := range entries {
		m.printf("\n%s\n", contact.FormatContact(e.Name, e.Record))
	}
}

// confirm asks a yes/no question; anything but y or yes is no.
func (m *Menu) confirm(ctx context.Context, question string) (bool, error) {
	answer, err := m.prompt(ctx, question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// prompt writes label and reads one line without its terminator.
// A final line without a newline is still returned. The read runs on its
// own goroutine so that cancelling ctx unblocks the prompt.
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	m.printf("%s", label)
	if m.lines == nil {
		m.lines = make(chan inputLine, 1)
		go m.readLines()
	}

	var in inputLine
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-m.lines:
		if !ok {
			return "", errQuit
		}
		in = l
	}

	if in.err != nil {
		if errors.Is(in.err, io.EOF) {
			if in.text != "" {
				return strings.TrimRight(in.text, "\r\n"), nil
			}
			return "", errQuit
		}
		return "", fmt.Errorf("console: reading input: %w", in.err)
	}
	return strings.TrimRight(in.text, "\r\n"), nil
}

// readLines forwards input lines until the first read error, then closes
// the channel.
func (m *Menu) readLines() {
	defer close(m.lines)
	for {
		text, err := m.in.ReadString('\n')
		m.lines <- inputLine{text: text, err: err}
		if err != nil {
			return
		}
	}
}

// Notify prints a single notice line.
func (m *Menu) Notify(n book.Notice) {
	m.printf("%s\n", n)
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}
