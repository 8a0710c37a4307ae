// Package palette is the command palette's list state: visibility, query,
// cursor and selection.
package palette

import (
	"sync"
	"unicode/utf8"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/ranker"
)

type Action int

const (
	ActionNone Action = iota
	ActionMoved
	ActionSelected
	ActionCancelled
)

type Result struct {
	Action Action
	Item   ranker.Scored
}

// Palette holds the open/closed state and the ranked items on display.
// Item lists come from outside through SetItems; the palette never ranks.
type Palette struct {
	// OnQuery receives every query change so the owner can re-rank.
	OnQuery func(q string)
	// Execute runs a selected item with the query it was picked for. Nil
	// runs command actions only.
	Execute func(c candidate.Candidate, query string)
	OnClose func()

	mu     sync.Mutex
	open   bool
	query  string
	cursor int
	items  []ranker.Scored
}

func New() *Palette { return &Palette{} }

func (p *Palette) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *Palette) Open() {
	p.mu.Lock()
	p.open = true
	p.cursor = 0
	p.mu.Unlock()
}

// Close hides the palette and clears its query.
func (p *Palette) Close() {
	p.mu.Lock()
	was := p.open
	p.open = false
	p.cursor = 0
	changed := p.query != ""
	p.query = ""
	p.mu.Unlock()
	if changed && p.OnQuery != nil {
		p.OnQuery("")
	}
	if was && p.OnClose != nil {
		p.OnClose()
	}
}

func (p *Palette) Toggle() {
	if p.IsOpen() {
		p.Close()
		return
	}
	p.Open()
}

func (p *Palette) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// SetQuery replaces the query and moves the cursor back to the top.
func (p *Palette) SetQuery(q string) {
	p.mu.Lock()
	p.query = q
	p.cursor = 0
	p.mu.Unlock()
	if p.OnQuery != nil {
		p.OnQuery(q)
	}
}

// SetItems replaces the displayed items, keeping the cursor in range.
func (p *Palette) SetItems(items []ranker.Scored) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append([]ranker.Scored(nil), items...)
	p.cursor = min(p.cursor, max(len(p.items)-1, 0))
}

func (p *Palette) Items() []ranker.Scored {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ranker.Scored(nil), p.items...)
}

func (p *Palette) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

func (p *Palette) Current() (ranker.Scored, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

func (p *Palette) currentLocked() (ranker.Scored, bool) {
	if len(p.items) == 0 {
		return ranker.Scored{}, false
	}
	return p.items[min(p.cursor, len(p.items)-1)], true
}

func (p *Palette) CursorUp() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor > 0 {
		p.cursor--
		return true
	}
	return false
}

func (p *Palette) CursorDown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor < len(p.items)-1 {
		p.cursor++
		return true
	}
	return false
}

// Select executes the current item and closes the palette.
func (p *Palette) Select() Result {
	p.mu.Lock()
	item, ok := p.currentLocked()
	exec, query := p.Execute, p.query
	p.mu.Unlock()
	if !ok {
		return Result{Action: ActionNone}
	}
	p.Close()
	if exec != nil {
		exec(item.Candidate, query)
	} else if c, isCmd := item.Candidate.(candidate.Command); isCmd {
		candidate.Run(c.Action)
	}
	return Result{Action: ActionSelected, Item: item}
}

// HandleKey applies a key named the way bubbletea names keys. Letters type
// into the query; j and k are not navigation here.
func (p *Palette) HandleKey(name string) Result {
	if !p.IsOpen() {
		return Result{Action: ActionNone}
	}
	switch name {
	case "up", "ctrl+p", "shift+tab":
		if p.CursorUp() {
			return Result{Action: ActionMoved}
		}
	case "down", "ctrl+n", "tab":
		if p.CursorDown() {
			return Result{Action: ActionMoved}
		}
	case "enter":
		return p.Select()
	case "esc":
		p.Close()
		return Result{Action: ActionCancelled}
	case "backspace":
		q := p.Query()
		if q != "" {
			_, size := utf8.DecodeLastRuneInString(q)
			p.SetQuery(q[:len(q)-size])
		}
	case "space":
		p.SetQuery(p.Query() + " ")
	default:
		if utf8.RuneCountInString(name) == 1 {
			p.SetQuery(p.Query() + name)
		}
	}
	return Result{Action: ActionNone}
}
