package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the global keybindings of the interactive installer. Vim
// keys are accepted alongside arrows except while typing a path.
type KeyMap struct {
	typing bool
}

// NewKeyMap creates the default keymap
func NewKeyMap() *KeyMap {
	return &KeyMap{}
}

// SetTyping switches off single-letter bindings while a text field has focus.
func (k *KeyMap) SetTyping(typing bool) {
	k.typing = typing
}

// IsBack returns true if the key returns to the previous screen
func (k *KeyMap) IsBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return !k.typing && msg.String() == "backspace"
}

// IsQuit returns true if the key leaves without doing anything
func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyCtrlC {
		return true
	}
	return !k.typing && msg.String() == "q"
}

// IsHelp returns true if the key toggles help
func (k *KeyMap) IsHelp(msg tea.KeyMsg) bool {
	return !k.typing && msg.String() == "?"
}

// FullHelp returns complete help text
func (k *KeyMap) FullHelp() string {
	return `Navigation:
  ↑/↓ j/k   Move up/down
  g/G       Go to first/last item

Actions:
  enter     Select/Confirm
  y/n       Answer a question
  esc       Back
  ?         Help
  q         Quit`
}
