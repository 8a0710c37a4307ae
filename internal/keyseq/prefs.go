package keyseq

import (
	"encoding/json"
)

// PreferencesKey is the store key holding the JSON preferences.
const PreferencesKey = "keyboard-shortcuts-preferences"

// Preferences are the user's shortcut settings.
type Preferences struct {
	Enabled   bool `json:"keyboardShortcutsEnabled"`
	ShowHints bool `json:"showShortcutHints"`
}

func DefaultPreferences() Preferences {
	return Preferences{Enabled: true, ShowHints: true}
}

// Store is the key-value persistence capability.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// LoadPreferences reads preferences from s. Missing or corrupt data yields
// the defaults.
func LoadPreferences(s Store) Preferences {
	return LoadPreferencesOr(s, DefaultPreferences())
}

// LoadPreferencesOr is LoadPreferences with a caller-supplied fallback.
func LoadPreferencesOr(s Store, fallback Preferences) Preferences {
	if s == nil {
		return fallback
	}
	raw, ok := s.Get(PreferencesKey)
	if !ok || raw == "" {
		return fallback
	}
	p := fallback
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return fallback
	}
	return p
}

// SavePreferences writes p to s.
func SavePreferences(s Store, p Preferences) {
	if s == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	s.Set(PreferencesKey, string(data))
}

// Apply enables or disables d according to p.
func (p Preferences) Apply(d *Dispatcher) {
	d.SetEnabled(p.Enabled)
}
