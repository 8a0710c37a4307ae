// Package conversation holds the assistant's message log.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/omnibar/internal/intent"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one turn in the conversation. Typing messages are placeholders
// shown while the agent is working.
type Message struct {
	ID        string              `json:"id"`
	Role      Role                `json:"role"`
	Content   string              `json:"content"`
	Timestamp time.Time           `json:"timestamp"`
	Intent    *intent.Intent      `json:"intent,omitempty"`
	Actions   []intent.Suggestion `json:"actions,omitempty"`
	Typing    bool                `json:"isTyping,omitempty"`
}

// Log is an append-only message list. It satisfies intent.Sink.
type Log struct {
	Now func() time.Time
	// OnChange, when set, receives a snapshot after every mutation.
	OnChange func([]Message)

	mu       sync.Mutex
	messages []Message
}

var _ intent.Sink = (*Log)(nil)

func New() *Log {
	return &Log{Now: time.Now}
}

func (l *Log) AddUser(content string) {
	l.append(Message{Role: RoleUser, Content: content})
}

func (l *Log) AddTyping() {
	l.append(Message{Role: RoleAgent, Typing: true})
}

// AddAgent appends an agent reply, replacing any typing indicator.
func (l *Log) AddAgent(content string, related *intent.Intent) {
	l.mu.Lock()
	l.messages = withoutTyping(l.messages)
	msg := l.stampLocked(Message{Role: RoleAgent, Content: content, Intent: related})
	if related != nil {
		msg.Actions = related.Suggestions
	}
	l.messages = append(l.messages, msg)
	snap := l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)
}

func (l *Log) RemoveTyping() {
	l.mu.Lock()
	l.messages = withoutTyping(l.messages)
	snap := l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)
}

func (l *Log) Clear() {
	l.mu.Lock()
	l.messages = nil
	l.mu.Unlock()
	l.notify(nil)
}

// Messages returns a copy of the log, oldest first.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Typing reports whether a typing indicator is showing.
func (l *Log) Typing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m.Typing {
			return true
		}
	}
	return false
}

func (l *Log) append(m Message) {
	l.mu.Lock()
	l.messages = append(l.messages, l.stampLocked(m))
	snap := l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)
}

func (l *Log) stampLocked(m Message) Message {
	m.ID = uuid.NewString()
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	m.Timestamp = now()
	return m
}

func (l *Log) snapshotLocked() []Message {
	return append([]Message(nil), l.messages...)
}

func (l *Log) notify(snap []Message) {
	if l.OnChange != nil {
		l.OnChange(snap)
	}
}

func withoutTyping(in []Message) []Message {
	out := in[:0]
	for _, m := range in {
		if !m.Typing {
			out = append(out, m)
		}
	}
	return out
}
