// Package notify turns realtime events into operator feedback: transient
// toasts, an optional sound cue, and the bounded notification list.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is a toast's severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one transient message.
type Toast struct {
	ID    string    `json:"id"`
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Toaster shows toasts.
type Toaster interface {
	Toast(level Level, text string)
}

// Counter is told about every toast raised.
type Counter interface {
	RecordToast()
}

// Feed is the console's toast sink. It keeps a bounded history and fans
// each toast out to live subscribers (the SSE stream).
type Feed struct {
	limit   int
	counter Counter

	mu      sync.Mutex
	history []Toast
	subs    map[chan Toast]struct{}
}

// NewFeed keeps at most limit toasts of history.
func NewFeed(limit int, counter Counter) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit, counter: counter, subs: make(map[chan Toast]struct{})}
}

// Toast records and broadcasts a toast. Slow subscribers miss toasts rather
// than block the caller.
func (f *Feed) Toast(level Level, text string) {
	t := Toast{ID: uuid.NewString(), Level: level, Text: text, At: time.Now().UTC()}

	f.mu.Lock()
	f.history = append(f.history, t)
	if len(f.history) > f.limit {
		f.history = append([]Toast(nil), f.history[len(f.history)-f.limit:]...)
	}
	for ch := range f.subs {
		select {
		case ch <- t:
		default:
		}
	}
	f.mu.Unlock()

	if f.counter != nil {
		f.counter.RecordToast()
	}
}

// History returns the retained toasts, oldest first.
func (f *Feed) History() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Toast(nil), f.history...)
}

// Subscribe returns a channel of new toasts and the func that ends the
// subscription and closes the channel.
func (f *Feed) Subscribe() (<-chan Toast, func()) {
	ch := make(chan Toast, 16)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}
