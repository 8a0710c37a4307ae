package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/omnibar/internal/engine"
	"github.com/jask/omnibar/internal/store"
)

func newTestApp(t *testing.T) (*App, *Navigator) {
	t.Helper()
	nav := &Navigator{}
	e, err := engine.New(engine.Deps{Store: store.NewMemory(), Navigator: nav}, engine.Settings{})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	t.Cleanup(e.Close)
	a := New(e, nil, nav)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return a, nav
}

func press(a *App, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = a.Update(m)
	}
	return cmd
}

func typeText(a *App, s string) {
	for _, r := range s {
		press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestPaletteOpensAndFilters(t *testing.T) {
	a, _ := newTestApp(t)

	press(a, tea.KeyMsg{Type: tea.KeyCtrlK})
	if !a.engine.Palette.IsOpen() {
		t.Fatalf("palette closed after ctrl+k")
	}
	typeText(a, "doss")
	if got := a.input.Value(); got != "doss" {
		t.Fatalf("input = %q, want doss", got)
	}
	view := a.View()
	if !strings.Contains(view, "Aller aux dossiers") {
		t.Fatalf("view missing dossiers command:\n%s", view)
	}
	if strings.Contains(view, "Aller aux tâches") {
		t.Fatalf("view shows unmatched command:\n%s", view)
	}
}

func TestEnterNavigatesAndCloses(t *testing.T) {
	a, nav := newTestApp(t)

	press(a, tea.KeyMsg{Type: tea.KeyCtrlK})
	typeText(a, "tableau")
	press(a, tea.KeyMsg{Type: tea.KeyEnter})

	if a.engine.Palette.IsOpen() {
		t.Fatalf("palette still open after enter")
	}
	if got := nav.Last(); got != "/dashboard" {
		t.Fatalf("navigated to %q, want /dashboard", got)
	}
	if got := a.input.Value(); got != "" {
		t.Fatalf("input = %q after close, want empty", got)
	}
	if view := a.View(); !strings.Contains(view, "→ /dashboard") {
		t.Fatalf("status missing navigation:\n%s", view)
	}
}

func TestSequenceShortcutNavigates(t *testing.T) {
	a, nav := newTestApp(t)

	typeText(a, "g")
	if view := a.View(); !strings.Contains(view, "g …") {
		t.Fatalf("pending sequence not shown:\n%s", view)
	}
	typeText(a, "d")
	if got := nav.Last(); got != "/dossiers" {
		t.Fatalf("navigated to %q, want /dossiers", got)
	}
}

func TestHelpOverlay(t *testing.T) {
	a, _ := newTestApp(t)

	typeText(a, "?")
	view := a.View()
	if !strings.Contains(view, "Raccourcis clavier") || !strings.Contains(view, "Aller aux annonces") {
		t.Fatalf("help overlay not rendered:\n%s", view)
	}
	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.engine.HelpOpen() {
		t.Fatalf("help still open after esc")
	}
}

func TestQuit(t *testing.T) {
	a, _ := newTestApp(t)

	cmd := press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}

	press(a, tea.KeyMsg{Type: tea.KeyCtrlK})
	if cmd := press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd != nil {
		t.Fatalf("q quit while typing in the palette")
	}
	if got := a.engine.Palette.Query(); got != "q" {
		t.Fatalf("query = %q, want q", got)
	}
}

func TestNotifierCoalesces(t *testing.T) {
	n := NewNotifier()
	n.Notify()
	n.Notify()
	if _, ok := n.wait()().(changeMsg); !ok {
		t.Fatalf("wait did not yield changeMsg")
	}
	select {
	case <-n.ch:
		t.Fatalf("second notification was not coalesced")
	default:
	}
}

func TestPaletteDrawnOverHelp(t *testing.T) {
	a, _ := newTestApp(t)

	a.engine.ToggleHelp()
	a.engine.TogglePalette()
	a.sync()
	if view := a.View(); strings.Contains(view, "Raccourcis clavier") || !strings.Contains(view, "enter ouvrir") {
		t.Fatalf("palette not on top of help:\n%s", view)
	}
	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	if view := a.View(); !strings.Contains(view, "Raccourcis clavier") {
		t.Fatalf("help not shown after closing palette:\n%s", view)
	}
}

func TestHomeShowsRecentSearches(t *testing.T) {
	a, _ := newTestApp(t)

	a.engine.Searches.Add("villa casablanca")
	if view := a.View(); !strings.Contains(view, "Recherches récentes") || !strings.Contains(view, "villa casablanca") {
		t.Fatalf("recent searches missing:\n%s", view)
	}
	a.engine.RemoveRecentSearch("villa casablanca")
	if view := a.View(); strings.Contains(view, "villa casablanca") {
		t.Fatalf("removed search still shown:\n%s", view)
	}
}
