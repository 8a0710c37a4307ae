// Package tui is a terminal host for the palette engine.
package tui

import (
	"net/url"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/omnibar/internal/engine"
	"github.com/jask/omnibar/internal/keyseq"
)

type changeMsg struct{}

// Notifier turns engine change callbacks, which may come from worker
// goroutines, into bubbletea messages. Pass Notify as engine.Deps.OnChange.
type Notifier struct{ ch chan struct{} }

func NewNotifier() *Notifier { return &Notifier{ch: make(chan struct{}, 1)} }

func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		<-n.ch
		return changeMsg{}
	}
}

// Navigator records navigation requests. The terminal has no pages, so the
// last target is shown in the status line.
type Navigator struct {
	mu   sync.Mutex
	last string
}

func (n *Navigator) Navigate(path string, params url.Values) {
	target := path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	n.mu.Lock()
	n.last = target
	n.mu.Unlock()
}

func (n *Navigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// App is the bubbletea model.
type App struct {
	engine *engine.Engine
	notify *Notifier
	nav    *Navigator

	input textinput.Model
	spin  spinner.Model
	help  help.Model
	keys  keyMap

	width  int
	height int
}

// New builds the model. notify and nav may be nil.
func New(e *engine.Engine, notify *Notifier, nav *Navigator) *App {
	ti := textinput.New()
	ti.Placeholder = "Rechercher ou demander à l'assistant…"
	ti.Prompt = "› "
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		engine: e,
		notify: notify,
		nav:    nav,
		input:  ti,
		spin:   sp,
		help:   help.New(),
		keys:   keyMap{bindings: e.Registry.HelpBindings()},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.notify.wait())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case changeMsg:
		a.sync()
		return a, a.notify.wait()
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	name := m.String()
	if name == "ctrl+c" {
		return a, tea.Quit
	}
	ev := keyseq.FromKeyMsg(m)
	ev.Editable = a.engine.Palette.IsOpen()
	handled := a.engine.HandleKey(ev, name)
	if !handled && name == "q" {
		return a, tea.Quit
	}
	a.sync()
	return a, nil
}

// sync mirrors the palette query into the text input.
func (a *App) sync() {
	q := a.engine.Palette.Query()
	if a.input.Value() != q {
		a.input.SetValue(q)
		a.input.CursorEnd()
	}
	if a.engine.Palette.IsOpen() {
		a.input.Focus()
	} else {
		a.input.Blur()
	}
}

func (a *App) View() string {
	st := newStyles(paletteFor(a.engine.Theme.Dark()))
	body := a.renderHeader(st)
	switch {
	case a.engine.Palette.IsOpen():
		body += "\n" + a.renderPalette(st)
	case a.engine.HelpOpen():
		body += "\n" + a.renderShortcuts(st)
	default:
		body += "\n" + a.renderHome(st)
	}
	if conv := a.renderConversation(st); conv != "" {
		body += "\n\n" + conv
	}
	if a.engine.Preferences().ShowHints {
		body += "\n\n" + a.help.View(a.keys)
	}
	return st.app.Render(body)
}

// keyMap adapts the shortcut registry to the help view.
type keyMap struct {
	bindings []key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return k.bindings[:min(len(k.bindings), 6)]
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings}
}
