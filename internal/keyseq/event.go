package keyseq

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyEvent is one keystroke as seen by the dispatcher.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool
	// Editable is set when focus is inside a text input.
	Editable bool
}

// Canonical returns the key string used for binding lookup.
func (e KeyEvent) Canonical() string {
	var mods []string
	if e.Alt {
		mods = append(mods, ModAlt)
	}
	if e.Ctrl {
		mods = append(mods, ModCtrl)
	}
	if e.Meta {
		mods = append(mods, ModMeta)
	}
	if e.Shift {
		mods = append(mods, ModShift)
	}
	return chord(mods, e.Key)
}

func (e KeyEvent) IsEscape() bool { return keyName(e.Key) == "Escape" }

// plain reports a single unmodified character, the only kind of key that
// can extend a sequence.
func (e KeyEvent) plain() bool {
	if e.Ctrl || e.Alt || e.Meta {
		return false
	}
	return utf8.RuneCountInString(e.Canonical()) == 1
}

// FromKeyMsg converts a bubbletea key message.
func FromKeyMsg(msg tea.KeyMsg) KeyEvent {
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		return KeyEvent{Key: string(r), Alt: msg.Alt, Shift: unicode.IsUpper(r)}
	}
	s := msg.String()
	if s == "" {
		return KeyEvent{}
	}
	parts := strings.Split(s, "+")
	key := parts[len(parts)-1]
	if key == "" {
		key = "+"
		parts = parts[:len(parts)-1]
	}
	ev := KeyEvent{Key: keyName(key)}
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl":
			ev.Ctrl = true
		case "alt":
			ev.Alt = true
		case "shift":
			ev.Shift = true
		}
	}
	return ev
}
