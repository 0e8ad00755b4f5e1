package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action names shared by keyboard shortcuts and clickable controls.
const (
	ActionUndo          = "undo"
	ActionRedo          = "redo"
	ActionSave          = "save"
	ActionOpen          = "open"
	ActionCopy          = "copy"
	ActionClear         = "clear"
	ActionPageAdd       = "page-add"
	ActionPageDelete    = "page-delete"
	ActionPagePrev      = "page-prev"
	ActionPageNext      = "page-next"
	ActionToolPen       = "tool-pen"
	ActionToolBrush     = "tool-brush"
	ActionToolHighlight = "tool-highlighter"
	ActionToolEraser    = "tool-eraser"
	ActionSigClear      = "signature-clear"
	ActionSigSave       = "signature-save"
	ActionQuit          = "quit"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

func ctrl(r rune, code key.Code) shortcutList {
	return shortcutList{{Rune: r, Modifiers: key.ModControl}, {Code: code, Modifiers: key.ModControl}}
}

var defaultShortcuts = map[string]KeyboardShortcuts{
	ActionUndo: ctrl('z', key.CodeZ),
	ActionRedo: append(ctrl('y', key.CodeY),
		KeyShortcut{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}),
	ActionSave:          ctrl('s', key.CodeS),
	ActionOpen:          ctrl('o', key.CodeO),
	ActionCopy:          ctrl('c', key.CodeC),
	ActionPageAdd:       ctrl('n', key.CodeN),
	ActionPageDelete:    ctrl('d', key.CodeD),
	ActionPagePrev:      shortcutList{{Code: key.CodePageUp}},
	ActionPageNext:      shortcutList{{Code: key.CodePageDown}},
	ActionToolPen:       shortcutList{{Rune: 'p'}},
	ActionToolBrush:     shortcutList{{Rune: 'b'}},
	ActionToolHighlight: shortcutList{{Rune: 'h'}},
	ActionToolEraser:    shortcutList{{Rune: 'e'}},
	ActionQuit:          shortcutList{{Rune: 'q'}},
}

// shortcutTable maps key combinations to action names.
type shortcutTable map[KeyShortcut]string

func newShortcutTable(bindings map[string]KeyboardShortcuts) shortcutTable {
	t := shortcutTable{}
	for action, keys := range bindings {
		for _, sc := range keys.KeyboardShortcuts() {
			t[sc] = action
		}
	}
	return t
}

// lookup resolves a key press. Codes are tried before runes so control
// combinations work whatever rune the driver reports; plain letter shortcuts
// also match with shift held.
func (t shortcutTable) lookup(e key.Event) (string, bool) {
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	if e.Code != key.CodeUnknown {
		if a, ok := t[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
			return a, true
		}
	}
	if e.Rune <= 0 {
		return "", false
	}
	r := unicode.ToLower(e.Rune)
	if a, ok := t[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
		return a, true
	}
	if mods == key.ModShift {
		if a, ok := t[KeyShortcut{Rune: r}]; ok {
			return a, true
		}
	}
	return "", false
}
