package keyseq

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Modifier names in canonical order.
const (
	ModAlt   = "Alt"
	ModCtrl  = "Ctrl"
	ModMeta  = "Meta"
	ModShift = "Shift"
)

var modifierAliases = map[string]string{
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"ctl":     ModCtrl,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
	"shift":   ModShift,
}

var namedKeys = map[string]string{
	"esc":        "Escape",
	"escape":     "Escape",
	"enter":      "Enter",
	"return":     "Enter",
	"tab":        "Tab",
	"space":      "Space",
	"backspace":  "Backspace",
	"delete":     "Delete",
	"del":        "Delete",
	"up":         "ArrowUp",
	"arrowup":    "ArrowUp",
	"down":       "ArrowDown",
	"arrowdown":  "ArrowDown",
	"left":       "ArrowLeft",
	"arrowleft":  "ArrowLeft",
	"right":      "ArrowRight",
	"arrowright": "ArrowRight",
	"home":       "Home",
	"end":        "End",
	"pgup":       "PageUp",
	"pageup":     "PageUp",
	"pgdown":     "PageDown",
	"pagedown":   "PageDown",
}

// keyName normalizes the non-modifier part of a combo.
func keyName(k string) string {
	if k == " " {
		return "Space"
	}
	if n, ok := namedKeys[strings.ToLower(k)]; ok {
		return n
	}
	if len(k) > 1 && (k[0] == 'f' || k[0] == 'F') && strings.Trim(k[1:], "0123456789") == "" {
		return "F" + k[1:]
	}
	return k
}

func isNamed(k string) bool {
	return utf8.RuneCountInString(k) > 1
}

func isLetter(k string) bool {
	r, size := utf8.DecodeRuneInString(k)
	return size == len(k) && unicode.IsLetter(r)
}

// chord builds the canonical form of a key with modifiers. Shift alone on a
// printable symbol is dropped since it is already part of the symbol ("?").
func chord(mods []string, key string) string {
	key = keyName(key)
	mods = slices.Clone(mods)
	slices.Sort(mods)
	mods = slices.Compact(mods)
	if len(mods) == 1 && mods[0] == ModShift && !isNamed(key) && !isLetter(key) {
		mods = nil
	}
	if len(mods) > 0 && isLetter(key) {
		key = strings.ToUpper(key)
	}
	if len(mods) == 0 {
		return key
	}
	return strings.Join(mods, "+") + "+" + key
}

// Canonical normalizes a user-written combo. Chords get sorted, capitalized
// modifiers ("shift+ctrl+d" becomes "Ctrl+Shift+D"). Sequences get lowercase
// legs joined by "+" ("G+A" becomes "g+a").
func Canonical(combo string, sequence bool) string {
	parts := splitCombo(combo)
	if len(parts) == 0 {
		return ""
	}
	if sequence {
		legs := make([]string, 0, len(parts))
		for _, p := range parts {
			legs = append(legs, strings.ToLower(p))
		}
		return strings.Join(legs, "+")
	}
	var mods []string
	key := ""
	for _, p := range parts {
		if m, ok := modifierAliases[strings.ToLower(p)]; ok {
			mods = append(mods, m)
			continue
		}
		key = p
	}
	if key == "" {
		return strings.Join(mods, "+")
	}
	return chord(mods, key)
}

// splitCombo splits on "+" while keeping a literal "+" key ("Ctrl++").
func splitCombo(combo string) []string {
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return nil
	}
	if combo == "+" {
		return []string{"+"}
	}
	raw := strings.Split(combo, "+")
	out := make([]string, 0, len(raw))
	for i, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			if i == len(raw)-1 {
				out = append(out, "+")
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
