// Package transcript holds the ordered, role-tagged message list shown by a chat view.
package transcript

import (
	"sync"
	"time"
)

// ID identifies a message within a Transcript. The zero ID is never assigned.
type ID uint64

// Role tags who a message belongs to.
type Role string

const (
	RoleUser     Role = "user"
	RoleBot      Role = "bot"
	RoleThinking Role = "thinking" // transient indicator
)

// Indicator distinguishes the two thinking indicator shapes.
type Indicator string

const (
	IndicatorNone Indicator = ""
	IndicatorDots Indicator = "dots"
	IndicatorWord Indicator = "word"
)

// Message is a single entry in the transcript.
type Message struct {
	ID        ID
	Role      Role
	Text      string
	Error     bool
	Indicator Indicator
	At        time.Time
}

// Transcript is an ordered message list safe for concurrent use.
// Listeners registered with OnChange run after every mutation, outside the lock.
type Transcript struct {
	mu        sync.RWMutex
	seq       ID
	msgs      []Message
	listeners []func()
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// OnChange registers a callback invoked after each mutation.
func (t *Transcript) OnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Append adds a message at the end and returns its assigned ID.
func (t *Transcript) Append(m Message) ID {
	t.mu.Lock()
	t.seq++
	m.ID = t.seq
	if m.At.IsZero() {
		m.At = time.Now()
	}
	t.msgs = append(t.msgs, m)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners)
	return m.ID
}

// AppendUser appends a user message.
func (t *Transcript) AppendUser(text string) ID {
	return t.Append(Message{Role: RoleUser, Text: text})
}

// AppendBot appends a bot reply.
func (t *Transcript) AppendBot(text string) ID {
	return t.Append(Message{Role: RoleBot, Text: text})
}

// AppendError appends a bot-side error notice.
func (t *Transcript) AppendError(text string) ID {
	return t.Append(Message{Role: RoleBot, Text: text, Error: true})
}

// Remove deletes the message with the given ID. It reports whether a message was removed.
func (t *Transcript) Remove(id ID) bool {
	t.mu.Lock()
	idx := -1
	for i := range t.msgs {
		if t.msgs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	t.msgs = append(t.msgs[:idx], t.msgs[idx+1:]...)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners)
	return true
}

// RemoveRole deletes every message with the given role and returns how many were removed.
func (t *Transcript) RemoveRole(role Role) int {
	t.mu.Lock()
	kept := t.msgs[:0]
	removed := 0
	for _, m := range t.msgs {
		if m.Role == role {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	t.msgs = kept
	listeners := t.listeners
	t.mu.Unlock()

	if removed > 0 {
		notify(listeners)
	}
	return removed
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.mu.Lock()
	had := len(t.msgs) > 0
	t.msgs = nil
	listeners := t.listeners
	t.mu.Unlock()

	if had {
		notify(listeners)
	}
}

// Messages returns a copy of the messages in display order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.msgs)
}

// Count returns the number of messages with the given role.
func (t *Transcript) Count(role Role) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, m := range t.msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}

// Last returns the last message with the given role.
func (t *Transcript) Last(role Role) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.msgs) - 1; i >= 0; i-- {
		if t.msgs[i].Role == role {
			return t.msgs[i], true
		}
	}
	return Message{}, false
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
