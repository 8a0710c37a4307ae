package engine

import (
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/catalog"
	"github.com/jask/omnibar/internal/history"
	"github.com/jask/omnibar/internal/keyseq"
	"github.com/jask/omnibar/internal/ranker"
	"github.com/jask/omnibar/internal/search"
)

// routeNav tracks the current route before forwarding to the host.
type routeNav struct{ e *Engine }

func (n routeNav) Navigate(path string, params url.Values) {
	n.e.SetRoute(path)
	if n.e.deps.Navigator != nil {
		n.e.deps.Navigator.Navigate(path, params)
	}
}

// Close stops background work and waits for running assistant requests.
func (e *Engine) Close() {
	e.cancel()
	if e.search != nil {
		e.search.Close()
	}
	e.wg.Wait()
}

// Wait blocks until running assistant requests finish.
func (e *Engine) Wait() { e.wg.Wait() }

func (e *Engine) Route() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.route
}

// SetRoute records a navigation change and swaps in the route's contextual
// commands.
func (e *Engine) SetRoute(route string) {
	cmds := catalog.Contextual(route, e.hooks)
	e.mu.Lock()
	e.route = route
	e.contextual = cmds
	e.mu.Unlock()
	e.List.Reset()
	e.refresh()
}

// SetQuery is the palette text-change input.
func (e *Engine) SetQuery(q string) { e.Palette.SetQuery(q) }

func (e *Engine) onQuery(q string) {
	if e.search != nil {
		e.search.SetQuery(q)
	}
	e.refresh()
}

// Results ranks every source against the palette query. Remote hits are
// those of the newest settled search.
func (e *Engine) Results() ranker.Result {
	q := e.Palette.Query()
	e.mu.Lock()
	contextual, commands := e.contextual, e.commands
	e.mu.Unlock()

	sources := []ranker.Source{
		{Role: ranker.RoleContextual, Items: catalog.AsCandidates(contextual)},
		{Role: ranker.RoleRecent, Items: e.Recents.Candidates(e.ctx)},
		{Role: ranker.RoleGlobal, Items: catalog.AsCandidates(commands)},
	}
	if e.search != nil && strings.TrimSpace(q) != "" {
		hits := e.search.State().Response.Results
		items := make([]candidate.Candidate, len(hits))
		for i, h := range hits {
			items[i] = h
		}
		sources = append(sources, ranker.Source{Role: ranker.RoleRemote, Items: items})
	}
	return e.Ranker.Rank(q, sources...)
}

// Groups returns the current results grouped for display.
func (e *Engine) Groups() []ranker.Group {
	return e.Ranker.Group(e.Palette.Items())
}

// SearchState reports the remote search indicator state.
func (e *Engine) SearchState() search.State {
	if e.search == nil {
		return search.State{}
	}
	return e.search.State()
}

func (e *Engine) refresh() {
	e.Palette.SetItems(ranker.Flatten(e.Ranker.Group(e.Results().Items)))
	e.changed()
}

func (e *Engine) changed() {
	if e.deps.OnChange != nil {
		e.deps.OnChange()
	}
}

// Execute runs c as if it had been picked in the palette for query.
func (e *Engine) Execute(c candidate.Candidate, query string) { e.execute(c, query) }

func (e *Engine) execute(c candidate.Candidate, query string) {
	nav := routeNav{e}
	switch v := c.(type) {
	case candidate.Command:
		if v.ID == ranker.AssistantID {
			e.Searches.Add(query)
		}
		candidate.Run(v.Action)
	case candidate.RemoteHit:
		e.Searches.Add(query)
		if err := e.Recents.VisitHit(e.ctx, v); err != nil {
			e.log.Warn("record visit failed", "id", v.ID, "err", err)
		}
		if route := candidate.HitRoute(v); route != "" {
			nav.Navigate(route, nil)
		}
	case candidate.RecentItem:
		v.LastVisitedAt = e.Recents.Now()
		if err := e.Recents.Visit(e.ctx, v); err != nil {
			e.log.Warn("record visit failed", "id", v.ID, "err", err)
		}
		if v.Route != "" {
			nav.Navigate(v.Route, nil)
		}
	}
	e.refresh()
}

// RecentItems lists the recent items the j/k list navigates.
func (e *Engine) RecentItems() []candidate.RecentItem {
	return e.Recents.List(e.ctx)
}

// RecentSearches lists remembered queries, newest first.
func (e *Engine) RecentSearches() []history.Search {
	return e.Searches.List()
}

// RemoveRecentSearch forgets one remembered query.
func (e *Engine) RemoveRecentSearch(q string) bool {
	removed := e.Searches.Remove(q)
	if removed {
		e.changed()
	}
	return removed
}

func (e *Engine) ClearRecentSearches() {
	e.Searches.Clear()
	e.changed()
}

// ReuseSearch opens the palette on a remembered query.
func (e *Engine) ReuseSearch(q string) {
	if !e.Palette.IsOpen() {
		e.Palette.Open()
	}
	e.Palette.SetQuery(q)
	e.changed()
}

func (e *Engine) openRecent(index int) {
	items := e.RecentItems()
	if index < 0 || index >= len(items) {
		return
	}
	e.execute(items[index], "")
}

// Ask forwards query to the assistant without blocking the caller.
func (e *Engine) Ask(query string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.Agent.Process(e.ctx, query)
		e.changed()
	}()
}

func (e *Engine) TogglePalette() {
	e.Palette.Toggle()
	e.changed()
}

// HandleKey routes one keystroke. name is the bubbletea key name used for
// text editing inside the palette and the help filter.
func (e *Engine) HandleKey(ev keyseq.KeyEvent, name string) bool {
	switch {
	case ev.IsEscape():
		handled := e.Keys.Handle(ev)
		if !handled {
			// shortcuts disabled: overlays still close
			switch {
			case e.Palette.IsOpen():
				e.Palette.Close()
				handled = true
			case e.help.IsOpen():
				e.help.Close()
				handled = true
			}
		}
		e.changed()
		return handled
	case e.Palette.IsOpen():
		if ev.Ctrl || ev.Alt || ev.Meta {
			chord := ev
			chord.Editable = false
			if _, ok := e.Registry.Lookup(chord.Canonical(), false); ok && e.Keys.Handle(chord) {
				return true
			}
		}
		e.Palette.HandleKey(name)
		e.changed()
		return true
	case e.help.IsOpen() && ev.Key != "?":
		e.help.edit(name)
		e.changed()
		return true
	}
	handled := e.Keys.Handle(ev)
	if handled {
		e.changed()
	}
	return handled
}

// Preferences returns the shortcut preferences in effect.
func (e *Engine) Preferences() keyseq.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs
}

// SetPreferences applies and persists p.
func (e *Engine) SetPreferences(p keyseq.Preferences) {
	e.mu.Lock()
	e.prefs = p
	e.mu.Unlock()
	p.Apply(e.Keys)
	keyseq.SavePreferences(e.deps.Store, p)
	e.changed()
}

// ToggleHelp shows or hides the shortcut help overlay.
func (e *Engine) ToggleHelp() {
	if e.help.IsOpen() {
		e.help.Close()
	} else {
		e.help.open()
	}
	e.changed()
}

func (e *Engine) HelpOpen() bool { return e.help.IsOpen() }

func (e *Engine) HelpFilter() string { return e.help.Filter() }

// Help returns the bindings shown by the help overlay, grouped by category
// and narrowed by the overlay's filter.
func (e *Engine) Help() []keyseq.CategoryGroup {
	return e.Shortcuts(e.help.Filter())
}

// Shortcuts groups the bindings matching filter by category.
func (e *Engine) Shortcuts(filter string) []keyseq.CategoryGroup {
	if strings.TrimSpace(filter) == "" {
		return e.Registry.ByCategory()
	}
	var out []keyseq.CategoryGroup
	index := map[string]int{}
	for _, b := range e.Registry.Find(filter) {
		i, ok := index[b.Category]
		if !ok {
			i = len(out)
			index[b.Category] = i
			out = append(out, keyseq.CategoryGroup{Category: b.Category})
		}
		out[i].Bindings = append(out[i].Bindings, b)
	}
	return out
}

// helpOverlay is the shortcut help panel with its type-to-filter box.
type helpOverlay struct {
	mu     sync.Mutex
	shown  bool
	filter string
}

func (h *helpOverlay) IsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

func (h *helpOverlay) open() {
	h.mu.Lock()
	h.shown = true
	h.mu.Unlock()
}

func (h *helpOverlay) Close() {
	h.mu.Lock()
	h.shown = false
	h.filter = ""
	h.mu.Unlock()
}

func (h *helpOverlay) Filter() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filter
}

func (h *helpOverlay) edit(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case name == "backspace":
		if h.filter != "" {
			_, size := utf8.DecodeLastRuneInString(h.filter)
			h.filter = h.filter[:len(h.filter)-size]
		}
	case utf8.RuneCountInString(name) == 1:
		h.filter += name
	}
}
