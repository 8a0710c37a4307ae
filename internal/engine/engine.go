// Package engine wires the ranker, search coordinator, intent agent, history
// and keyboard dispatcher into one palette session.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/catalog"
	"github.com/jask/omnibar/internal/conversation"
	"github.com/jask/omnibar/internal/history"
	"github.com/jask/omnibar/internal/intent"
	"github.com/jask/omnibar/internal/keyseq"
	"github.com/jask/omnibar/internal/palette"
	"github.com/jask/omnibar/internal/ranker"
	"github.com/jask/omnibar/internal/search"
)

// Store is the persistence the engine needs: preferences and recent
// searches as key-value pairs plus the recent-item log.
type Store interface {
	history.KV
	history.Log
}

// Settings tunes the engine. Zero values take package defaults.
type Settings struct {
	Debounce          time.Duration
	MinQueryLength    int
	SearchTimeout     time.Duration
	PoolSize          int
	SequenceTimeout   time.Duration
	RemoteThreshold   float64
	RemoteTimeout     time.Duration
	MaxRecentItems    int
	MaxRecentSearches int
	// Preferences apply until the user stores their own. Nil means
	// keyseq.DefaultPreferences.
	Preferences *keyseq.Preferences
}

// Deps are the host capabilities. Only Store is required.
type Deps struct {
	Store      Store
	Navigator  intent.Navigator
	Searcher   search.Searcher
	Classifier intent.Classifier
	// FocusSearch moves focus to the host's search box.
	FocusSearch func()
	// OnEscape receives Escape when no overlay is open.
	OnEscape func()
	// OnChange is called after any visible state changes, possibly from a
	// worker goroutine.
	OnChange func()

	SearchClock search.Clock
	KeyClock    keyseq.Clock
}

// Engine is one palette session.
type Engine struct {
	Ranker       *ranker.Ranker
	Agent        *intent.Agent
	Conversation *conversation.Log
	Searches     *history.Searches
	Recents      *history.Items
	Registry     *keyseq.Registry
	Keys         *keyseq.Dispatcher
	List         *keyseq.ListNav
	Palette      *palette.Palette
	Theme        *catalog.Theme

	deps     Deps
	settings Settings
	hooks    catalog.Hooks
	search   *search.Coordinator
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu         sync.Mutex
	route      string
	commands   []candidate.Command
	contextual []candidate.Command
	prefs      keyseq.Preferences
	help       helpOverlay
}

func New(deps Deps, s Settings) (*Engine, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("engine: store is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		Ranker:       ranker.New(),
		Conversation: conversation.New(),
		Searches:     history.NewSearches(deps.Store, s.MaxRecentSearches),
		Recents:      history.NewItems(deps.Store, s.MaxRecentItems),
		Registry:     keyseq.NewRegistry(),
		List:         keyseq.NewListNav(),
		Palette:      palette.New(),
		Theme:        &catalog.Theme{},
		deps:         deps,
		settings:     s,
		log:          slog.Default().With("component", "engine"),
		ctx:          ctx,
		cancel:       cancel,
	}
	nav := routeNav{e}
	e.Agent = intent.NewAgent(nav, e.Conversation, deps.Classifier)
	if s.RemoteThreshold > 0 {
		e.Agent.Threshold = s.RemoteThreshold
	}
	if s.RemoteTimeout > 0 {
		e.Agent.Timeout = s.RemoteTimeout
	}
	e.Conversation.OnChange = func([]conversation.Message) { e.changed() }
	e.Ranker.Ask = e.Ask
	e.Theme.OnChange = func(bool) { e.changed() }

	if deps.Searcher != nil {
		opts := []search.Option{search.WithOnUpdate(func(search.State) { e.refresh() })}
		if s.Debounce > 0 {
			opts = append(opts, search.WithDebounce(s.Debounce))
		}
		if s.MinQueryLength > 0 {
			opts = append(opts, search.WithMinQueryLength(s.MinQueryLength))
		}
		if s.SearchTimeout > 0 {
			opts = append(opts, search.WithTimeout(s.SearchTimeout))
		}
		if s.PoolSize > 0 {
			opts = append(opts, search.WithPoolSize(s.PoolSize))
		}
		if deps.SearchClock != nil {
			opts = append(opts, search.WithClock(deps.SearchClock))
		}
		c, err := search.NewCoordinator(deps.Searcher, opts...)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("search coordinator: %w", err)
		}
		e.search = c
	}

	hooks := catalog.Hooks{
		Nav:           nav,
		FocusSearch:   deps.FocusSearch,
		TogglePalette: e.TogglePalette,
		ToggleHelp:    e.ToggleHelp,
		ListDown:      func() { e.List.Down(len(e.Recents.List(e.ctx))); e.changed() },
		ListUp:        func() { e.List.Up(); e.changed() },
		ListOpen:      e.List.Open,
		Dismiss:       deps.OnEscape,
	}
	e.hooks = hooks
	e.commands = catalog.Commands(hooks, e.Theme)
	catalog.Register(e.Registry, hooks)

	e.Keys = keyseq.NewDispatcher(e.Registry)
	if s.SequenceTimeout > 0 {
		e.Keys.Timeout = s.SequenceTimeout
	}
	if deps.KeyClock != nil {
		e.Keys.Clock = deps.KeyClock
	}
	e.Keys.Overlays = []keyseq.Overlay{e.Palette, &e.help}

	e.List.OnOpen = e.openRecent
	e.Palette.OnQuery = e.onQuery
	e.Palette.Execute = e.execute
	e.Palette.OnClose = e.changed

	fallback := keyseq.DefaultPreferences()
	if s.Preferences != nil {
		fallback = *s.Preferences
	}
	e.prefs = keyseq.LoadPreferencesOr(deps.Store, fallback)
	e.prefs.Apply(e.Keys)

	e.refresh()
	return e, nil
}
