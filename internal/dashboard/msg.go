// Package dashboard implements the interactive phone book menu as a
// Bubble Tea program. Separate from internal/console which handles the
// line-based menu for non-terminal output.
package dashboard

// Mode represents the current dashboard view mode.
type Mode int

const (
	ModeMenu    Mode = iota // Main menu with the six actions.
	ModeForm                // Add-contact form.
	ModeSearch              // Search term entry.
	ModeResults             // Scrollable contact listing.
	ModePicker              // Choosing a contact to delete.
	ModeConfirm             // Yes/no question (overwrite or delete).
	ModeImport              // vCard path entry.
)

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Key   string
	Title string
}

// MenuItems lists the main menu in display order.
var MenuItems = []MenuItem{
	{Key: "1", Title: "Add New Contact"},
	{Key: "2", Title: "Look Up Contact"},
	{Key: "3", Title: "Delete Contact"},
	{Key: "4", Title: "Show All Contacts"},
	{Key: "5", Title: "Import VCF File"},
	{Key: "6", Title: "Exit"},
}
