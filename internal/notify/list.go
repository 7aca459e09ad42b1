package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/cms-console/internal/events"
)

// DefaultListLimit is how many notifications the list view keeps.
const DefaultListLimit = 15

// Filter selects which notifications Items returns.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
)

// List is the bounded, newest-first notification list. Pushed
// notifications are not deduplicated against fetched ones.
type List struct {
	limit int

	mu    sync.RWMutex
	items []events.Notification
}

// NewList keeps at most limit entries.
func NewList(limit int) *List {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return &List{limit: limit}
}

// Replace swaps in a bulk fetch, sorted newest first and capped.
func (l *List) Replace(items []events.Notification) {
	sorted := append([]events.Notification(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > l.limit {
		sorted = sorted[:l.limit]
	}
	l.mu.Lock()
	l.items = sorted
	l.mu.Unlock()
}

// Prepend adds a pushed notification at the top, dropping the oldest past the cap.
func (l *List) Prepend(n events.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]events.Notification{n}, l.items...)
	if len(l.items) > l.limit {
		l.items = l.items[:l.limit]
	}
}

// MarkRead flags one entry; it reports whether the id was present.
func (l *List) MarkRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].IsRead = true
			found = true
		}
	}
	return found
}

// MarkAllRead flags every entry.
func (l *List) MarkAllRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		l.items[i].IsRead = true
	}
}

// Remove drops every entry with id.
func (l *List) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0]
	for _, n := range l.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	l.items = kept
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Items returns a copy of the entries matching filter.
func (l *List) Items(filter Filter) []events.Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]events.Notification, 0, len(l.items))
	for _, n := range l.items {
		if filter == FilterUnread && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out
}

// UnreadCount is the badge number.
func (l *List) UnreadCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for _, n := range l.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// TimeAgo renders how long ago t was, relative to now.
func TimeAgo(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
