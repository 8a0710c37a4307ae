package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMinQueryLength = 2
	DefaultTimeout        = 5 * time.Second
	DefaultPoolSize       = 4
)

// ErrSearcherRequired is returned when no Searcher is given.
var ErrSearcherRequired = errors.New("searcher is required")

const errMessage = "La recherche est momentanément indisponible"

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules the debounce timer.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Coordinator debounces queries and applies only the result of the newest
// issued request. Older responses are dropped whatever order they arrive in.
type Coordinator struct {
	searcher  Searcher
	debounce  time.Duration
	minLength int
	timeout   time.Duration
	clock     Clock
	pool      *ants.Pool
	onUpdate  func(State)
	logger    *slog.Logger

	mu         sync.Mutex
	pending    Timer
	gen        uint64
	lastIssued string
	issued     bool
	state      State
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) error {
		c.debounce = d
		return nil
	}
}

func WithMinQueryLength(n int) Option {
	return func(c *Coordinator) error {
		c.minLength = n
		return nil
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) error {
		c.timeout = d
		return nil
	}
}

func WithClock(clock Clock) Option {
	return func(c *Coordinator) error {
		c.clock = clock
		return nil
	}
}

// WithPoolSize bounds the number of requests in flight.
func WithPoolSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithOnUpdate registers a callback for every state change. It runs
// without the coordinator lock held.
func WithOnUpdate(fn func(State)) Option {
	return func(c *Coordinator) error {
		c.onUpdate = fn
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

func NewCoordinator(searcher Searcher, opts ...Option) (*Coordinator, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	c := &Coordinator{
		searcher:  searcher,
		debounce:  DefaultDebounce,
		minLength: DefaultMinQueryLength,
		timeout:   DefaultTimeout,
		clock:     realClock{},
		logger:    slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			c.Close()
			return nil, err
		}
	}
	if c.pool == nil {
		pool, err := ants.NewPool(DefaultPoolSize)
		if err != nil {
			return nil, err
		}
		c.pool = pool
	}
	return c, nil
}

// Close releases the worker pool. Pending debounce timers are stopped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.mu.Unlock()
	if c.pool != nil {
		c.pool.Release()
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetQuery schedules query to be issued after the debounce window. A newer
// call within the window replaces it. Without a debounce window the query is
// issued before SetQuery returns.
func (c *Coordinator) SetQuery(query string) {
	q := strings.TrimSpace(query)
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.debounce <= 0 {
		c.mu.Unlock()
		c.Issue(q)
		return
	}
	c.pending = c.clock.AfterFunc(c.debounce, func() { c.Issue(q) })
	c.mu.Unlock()
}

// Issue sends query now, bypassing the debounce. Repeating the last issued
// query is a no-op. Queries below the minimum length resolve to an empty
// result without a remote call.
func (c *Coordinator) Issue(query string) {
	q := strings.TrimSpace(query)

	c.mu.Lock()
	if c.issued && q == c.lastIssued {
		c.mu.Unlock()
		return
	}
	c.issued = true
	c.lastIssued = q
	c.gen++
	gen := c.gen

	if utf8.RuneCountInString(q) < c.minLength {
		c.state = State{Query: q, Generation: gen}
		st := c.state
		c.mu.Unlock()
		c.notify(st)
		return
	}
	c.state = State{Query: q, Response: c.state.Response, Searching: true, Generation: gen}
	st := c.state
	c.mu.Unlock()
	c.notify(st)

	err := c.pool.Submit(func() { c.run(gen, q) })
	if err != nil {
		c.settle(gen, q, Response{}, err)
	}
}

func (c *Coordinator) run(gen uint64, q string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	resp, err := c.searcher.Search(ctx, q)
	c.settle(gen, q, resp, err)
}

// settle applies a response if it belongs to the newest request.
func (c *Coordinator) settle(gen uint64, q string, resp Response, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("discarding stale search response", "query", q, "generation", gen)
		return
	}
	st := State{Query: q, Response: resp, Generation: gen}
	if err != nil {
		c.logger.Warn("remote search failed", "query", q, "err", err)
		st.Response = Response{}
		st.Err = errMessage
	}
	c.state = st
	c.mu.Unlock()
	c.notify(st)
}

func (c *Coordinator) notify(st State) {
	if c.onUpdate != nil {
		c.onUpdate(st)
	}
}
