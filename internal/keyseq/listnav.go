package keyseq

import "sync"

// ListNav tracks the keyboard-selected row of a list. -1 means none.
type ListNav struct {
	mu     sync.Mutex
	index  int
	OnOpen func(index int)
}

func NewListNav() *ListNav { return &ListNav{index: -1} }

func (l *ListNav) Index() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index
}

// Down moves to the next row, stopping at the last of n rows.
func (l *ListNav) Down(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 {
		return
	}
	l.index = min(l.index+1, n-1)
}

// Up moves to the previous row, stopping at 0. With no selection it does
// nothing.
func (l *ListNav) Up() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index > 0 {
		l.index--
	}
}

func (l *ListNav) Set(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = max(index, -1)
}

// Open reports the selected row to OnOpen when a row is selected.
func (l *ListNav) Open() {
	l.mu.Lock()
	idx, fn := l.index, l.OnOpen
	l.mu.Unlock()
	if idx >= 0 && fn != nil {
		fn(idx)
	}
}

func (l *ListNav) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = -1
}
