package keyseq

import (
	"strings"
	"sync"
	"time"

	"github.com/jask/omnibar/internal/candidate"
)

const DefaultSequenceTimeout = 1000 * time.Millisecond

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules the inactivity timeout. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Overlay is something Escape can close.
type Overlay interface {
	IsOpen() bool
	Close()
}

// Dispatcher turns a keystroke stream into binding dispatches. It is idle
// while the buffer is empty and collecting otherwise.
type Dispatcher struct {
	Registry *Registry
	Timeout  time.Duration
	Clock    Clock

	// Escape closes the first open overlay in order, or calls OnEscape, or
	// runs the binding registered for Escape.
	Overlays []Overlay
	OnEscape func()

	mu      sync.Mutex
	enabled bool
	buffer  []string
	timer   Timer
	gen     uint64
}

func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{
		Registry: reg,
		Timeout:  DefaultSequenceTimeout,
		Clock:    realClock{},
		enabled:  true,
	}
}

// SetEnabled toggles dispatching without touching registered bindings.
func (d *Dispatcher) SetEnabled(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = on
	if !on {
		d.resetLocked()
	}
}

func (d *Dispatcher) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// Pending returns the buffered sequence, e.g. "g".
func (d *Dispatcher) Pending() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Join(d.buffer, "+")
}

// Handle processes one keystroke and reports whether it was consumed. The
// matched action runs after the dispatcher lock is released.
func (d *Dispatcher) Handle(ev KeyEvent) bool {
	d.mu.Lock()
	if !d.enabled {
		d.mu.Unlock()
		return false
	}
	if ev.IsEscape() {
		d.mu.Unlock()
		d.escape()
		return true
	}
	if ev.Editable {
		d.mu.Unlock()
		return false
	}

	if b, ok := d.Registry.Lookup(ev.Canonical(), false); ok {
		d.resetLocked()
		d.mu.Unlock()
		candidate.Run(b.Action)
		return true
	}
	if !ev.plain() {
		d.mu.Unlock()
		return false
	}

	d.buffer = append(d.buffer, strings.ToLower(ev.Canonical()))
	b, ok := d.Registry.Lookup(strings.Join(d.buffer, "+"), true)
	if ok {
		d.resetLocked()
		d.mu.Unlock()
		candidate.Run(b.Action)
		return true
	}
	d.armLocked()
	d.mu.Unlock()
	return false
}

func (d *Dispatcher) escape() {
	for _, o := range d.Overlays {
		if o != nil && o.IsOpen() {
			o.Close()
			return
		}
	}
	if d.OnEscape != nil {
		d.OnEscape()
		return
	}
	if b, ok := d.Registry.Lookup("Escape", false); ok {
		candidate.Run(b.Action)
	}
}

// armLocked restarts the inactivity timer. The generation check drops a
// timer that fires after it was superseded.
func (d *Dispatcher) armLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultSequenceTimeout
	}
	clock := d.Clock
	if clock == nil {
		clock = realClock{}
	}
	d.timer = clock.AfterFunc(timeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen == gen {
			d.buffer = nil
			d.timer = nil
		}
	})
}

func (d *Dispatcher) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.buffer = nil
}
