package dashboard

import (
	"strings"
)

// CursorMarker is the prefix shown on the selected row.
const CursorMarker = "▸ "

// listCursor tracks a wrapping selection over n rows.
type listCursor struct {
	pos int
}

func (c listCursor) up(n int) listCursor {
	if n == 0 {
		return c
	}
	c.pos--
	if c.pos < 0 {
		c.pos = n - 1
	}
	return c
}

func (c listCursor) down(n int) listCursor {
	if n == 0 {
		return c
	}
	c.pos++
	if c.pos >= n {
		c.pos = 0
	}
	return c
}

// renderRows draws rows with the cursor marker on the selected one.
func renderRows(rows []string, cursor int) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == cursor {
			b.WriteString(cursorStyle.Render(CursorMarker + row))
		} else {
			b.WriteString("  " + row)
		}
	}
	return b.String()
}

// visibleWindow returns the [start, end) range of n rows that fits in
// height lines and keeps cursor in view, roughly centred.
func visibleWindow(n, cursor, height int) (int, int) {
	height = max(height, 1)
	if n <= height {
		return 0, n
	}
	start := min(max(cursor-height/2, 0), n-height)
	return start, start + height
}

// menuRows formats MenuItems as "1. Add New Contact" lines.
func menuRows() []string {
	rows := make([]string, len(MenuItems))
	for i, item := range MenuItems {
		rows[i] = item.Key + ". " + item.Title
	}
	return rows
}

// menuIndex returns the item index for a digit key, or -1.
func menuIndex(key string) int {
	for i, item := range MenuItems {
		if item.Key == key {
			return i
		}
	}
	return -1
}
