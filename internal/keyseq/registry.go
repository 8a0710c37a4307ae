// Package keyseq resolves keyboard chords and multi-key sequences to
// registered actions.
package keyseq

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sahilm/fuzzy"

	"github.com/jask/omnibar/internal/candidate"
)

// Binding categories used by the help overlay.
const (
	CategoryNavigation = "navigation"
	CategoryActions    = "actions"
	CategoryLists      = "lists"
)

var categoryOrder = []string{CategoryNavigation, CategoryActions, CategoryLists}

// Binding maps a canonical key string to an action.
type Binding struct {
	Key         string           `json:"key"`
	Sequence    bool             `json:"sequence"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Action      candidate.Action `json:"-"`
}

// Registry holds the session's bindings. Registering a key twice replaces
// the earlier binding.
type Registry struct {
	mu        sync.RWMutex
	chords    map[string]Binding
	sequences map[string]Binding
	order     []string
	log       *slog.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		chords:    make(map[string]Binding),
		sequences: make(map[string]Binding),
		log:       slog.Default().With("component", "keyseq"),
	}
}

func orderKey(seq bool, k string) string {
	if seq {
		return "seq:" + k
	}
	return "chord:" + k
}

// Register canonicalizes b.Key and stores b. Empty keys are ignored.
func (r *Registry) Register(b Binding) {
	b.Key = Canonical(b.Key, b.Sequence)
	if b.Key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.chords
	if b.Sequence {
		m = r.sequences
	}
	if prev, dup := m[b.Key]; dup {
		r.log.Warn("shortcut overwritten", "key", b.Key, "previous", prev.Description, "description", b.Description)
	} else {
		r.order = append(r.order, orderKey(b.Sequence, b.Key))
	}
	m[b.Key] = b
}

// Lookup finds a binding by canonical key.
func (r *Registry) Lookup(canonical string, sequence bool) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sequence {
		b, ok := r.sequences[canonical]
		return b, ok
	}
	b, ok := r.chords[canonical]
	return b, ok
}

// All returns bindings in registration order.
func (r *Registry) All() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.order))
	for _, k := range r.order {
		kind, name, _ := strings.Cut(k, ":")
		if kind == "seq" {
			out = append(out, r.sequences[name])
		} else {
			out = append(out, r.chords[name])
		}
	}
	return out
}

// CategoryGroup is the bindings of one help section.
type CategoryGroup struct {
	Category string    `json:"category"`
	Bindings []Binding `json:"bindings"`
}

// ByCategory groups bindings for the help overlay. Known categories come
// first in fixed order, then any others alphabetically.
func (r *Registry) ByCategory() []CategoryGroup {
	byCat := map[string][]Binding{}
	for _, b := range r.All() {
		byCat[b.Category] = append(byCat[b.Category], b)
	}
	var out []CategoryGroup
	for _, c := range categoryOrder {
		if bs := byCat[c]; len(bs) > 0 {
			out = append(out, CategoryGroup{Category: c, Bindings: bs})
			delete(byCat, c)
		}
	}
	rest := make([]string, 0, len(byCat))
	for c := range byCat {
		rest = append(rest, c)
	}
	slices.Sort(rest)
	for _, c := range rest {
		out = append(out, CategoryGroup{Category: c, Bindings: byCat[c]})
	}
	return out
}

// Find fuzzy-filters bindings on key and description. An empty filter
// returns everything.
func (r *Registry) Find(filter string) []Binding {
	all := r.All()
	filter = strings.TrimSpace(strings.ToLower(filter))
	if filter == "" {
		return all
	}
	targets := make([]string, len(all))
	for i, b := range all {
		targets[i] = strings.ToLower(DisplayKey(b) + " " + b.Description)
	}
	matches := fuzzy.Find(filter, targets)
	out := make([]Binding, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}

// HelpBindings adapts the registry for a bubbles help view.
func (r *Registry) HelpBindings() []key.Binding {
	all := r.All()
	out := make([]key.Binding, 0, len(all))
	for _, b := range all {
		out = append(out, key.NewBinding(
			key.WithKeys(b.Key),
			key.WithHelp(DisplayKey(b), b.Description),
		))
	}
	return out
}

// DisplayKey renders a binding for hints: sequences read "g a".
func DisplayKey(b Binding) string {
	if b.Sequence {
		return strings.ReplaceAll(b.Key, "+", " ")
	}
	return b.Key
}
