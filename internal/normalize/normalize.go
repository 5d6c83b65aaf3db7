// Package normalize converts raw phone, email, and date strings into
// canonical forms or validity flags. Every function is pure and never errors.
package normalize

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical birthday format.
const DateLayout = "2006-01-02"

// compactDateLayout is the vCard BDAY format.
const compactDateLayout = "20060102"

var (
	// RE2 classes are ASCII-only: digits from other scripts are stripped
	// like any other separator.
	nonDigit     = regexp.MustCompile(`\D`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactDate  = regexp.MustCompile(`^\d{8}$`)
)

// FormatPhone formats a US-style number as DDD-DDD-DDDD.
// An 11-digit number with a leading country digit 1 has it dropped.
// Any other digit count returns raw unchanged, not the stripped digits.
func FormatPhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")

	switch {
	case len(digits) == 10:
		return groupDigits(digits)
	case len(digits) == 11 && digits[0] == '1':
		return groupDigits(digits[1:])
	}
	return raw
}

func groupDigits(d string) string {
	var b strings.Builder
	b.Grow(12)
	b.WriteString(d[:3])
	b.WriteByte('-')
	b.WriteString(d[3:6])
	b.WriteByte('-')
	b.WriteString(d[6:])
	return b.String()
}

// IsValidEmail reports whether s is a syntactically plausible address:
// local-part, a single @, a domain, and a TLD of two or more letters.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
// Year 0000 is rejected.
func IsValidDate(s string) bool {
	// time.Parse accepts some shapes the layout doesn't strictly imply, so
	// the digit counts are pinned first.
	if !datePattern.MatchString(s) {
		return false
	}
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Year() >= 1
}

// ParseCompactDate converts a YYYYMMDD date into YYYY-MM-DD.
// The boolean is false when s is not a real calendar date in that form.
func ParseCompactDate(s string) (string, bool) {
	if !compactDate.MatchString(s) {
		return "", false
	}
	t, err := time.Parse(compactDateLayout, s)
	if err != nil || t.Year() < 1 {
		return "", false
	}
	return t.Format(DateLayout), true
}
