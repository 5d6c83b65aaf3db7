package dashboard

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the help.KeyMap for the given mode,
// providing context-aware help bar content.
func HelpBindings(mode Mode) help.KeyMap {
	switch mode {
	case ModeForm:
		return FormKeyMap()
	case ModeSearch, ModeImport:
		return PromptKeyMap()
	case ModeResults:
		return ResultsKeyMap()
	case ModePicker:
		return PickerKeyMap()
	case ModeConfirm:
		return ConfirmKeyMap()
	default:
		return MenuKeyMap()
	}
}
