// Package vcard parses contact cards from vCard (.vcf) text.
//
// Parsing is deliberately permissive: unknown properties, stray lines,
// unmatched BEGIN/END markers, and unparseable birthdays are skipped
// rather than reported. The only error is a failure to read the input.
package vcard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/normalize"
)

const (
	beginCard = "BEGIN:VCARD"
	endCard   = "END:VCARD"
)

// Result holds the contacts produced by one parse, keyed by full name.
type Result struct {
	Contacts map[string]contact.Record
}

// Count returns the number of contacts produced.
func (r Result) Count() int {
	return len(r.Contacts)
}

// card is the in-progress record between BEGIN and END.
type card struct {
	name   string
	record contact.Record
}

// Parse reads vCard text from r. Cards without a non-empty FN are dropped.
// A later card with the same FN replaces an earlier one. Lines may be of
// any length; unfolded PHOTO data is read and ignored like any other
// unknown property.
func Parse(r io.Reader) (Result, error) {
	res := Result{Contacts: make(map[string]contact.Record)}
	var cur card

	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Result{}, fmt.Errorf("vcard: reading: %w", err)
		}
		cur.line(strings.TrimSpace(raw), res.Contacts)
		if err != nil {
			return res, nil
		}
	}
}

// line applies one trimmed input line to the in-progress card.
func (c *card) line(line string, out map[string]contact.Record) {
	switch line {
	case "":
		return
	case beginCard:
		*c = card{}
		return
	case endCard:
		if c.name != "" {
			out[c.name] = c.record
		}
		return
	}

	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	// Parameters such as TEL;TYPE=CELL are ignored.
	key, _, _ = strings.Cut(key, ";")
	c.apply(key, value)
}

// apply sets the field for a recognized property key.
func (c *card) apply(key, value string) {
	switch key {
	case "FN":
		c.name = value
	case "TEL":
		c.record.Phone = normalize.FormatPhone(value)
	case "EMAIL":
		// Imported addresses are stored as-is, unlike interactive entry.
		c.record.Email = value
	case "BDAY":
		if d, ok := normalize.ParseCompactDate(value); ok {
			c.record.Birthday = d
		}
	}
}

// ParseFile opens and parses the .vcf file at path.
func ParseFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("vcard: reading %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("vcard: reading %s: %w", path, err)
	}
	return res, nil
}
