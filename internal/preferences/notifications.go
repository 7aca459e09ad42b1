// Package preferences holds the operator's UI preferences. They live in the
// durable store only and are never synced to the backend.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/spec-kit/cms-console/internal/storage"
)

// Durable store keys.
const (
	KeySoundEnabled         = "notificationSoundEnabled"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeyTheme                = "theme"
	KeyFont                 = "font"
)

// Notifications gates toasts and the sound cue for realtime events.
type Notifications struct {
	store storage.Store

	mu            sync.RWMutex
	soundEnabled  bool
	toastsEnabled bool
}

// NotificationSettings is a snapshot of the notification preferences.
type NotificationSettings struct {
	SoundEnabled         bool `json:"soundEnabled"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
}

// LoadNotifications reads the preferences, defaulting to sound off and
// notifications on.
func LoadNotifications(ctx context.Context, store storage.Store) (*Notifications, error) {
	sound, err := readBool(ctx, store, KeySoundEnabled, false)
	if err != nil {
		return nil, err
	}
	toasts, err := readBool(ctx, store, KeyNotificationsEnabled, true)
	if err != nil {
		return nil, err
	}
	return &Notifications{store: store, soundEnabled: sound, toastsEnabled: toasts}, nil
}

// Settings returns the current values.
func (n *Notifications) Settings() NotificationSettings {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return NotificationSettings{SoundEnabled: n.soundEnabled, NotificationsEnabled: n.toastsEnabled}
}

// SoundEnabled reports whether incoming events play the cue.
func (n *Notifications) SoundEnabled() bool {
	return n.Settings().SoundEnabled
}

// NotificationsEnabled reports whether incoming events raise a toast.
func (n *Notifications) NotificationsEnabled() bool {
	return n.Settings().NotificationsEnabled
}

// ToggleSound flips the sound preference and returns the new value.
func (n *Notifications) ToggleSound(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	next := !n.soundEnabled
	if err := writeBool(ctx, n.store, KeySoundEnabled, next); err != nil {
		return n.soundEnabled, err
	}
	n.soundEnabled = next
	return next, nil
}

// ToggleNotifications flips the toast preference and returns the new value.
func (n *Notifications) ToggleNotifications(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	next := !n.toastsEnabled
	if err := writeBool(ctx, n.store, KeyNotificationsEnabled, next); err != nil {
		return n.toastsEnabled, err
	}
	n.toastsEnabled = next
	return next, nil
}

// read treats a value sealed with another key as unset.
func read(ctx context.Context, store storage.Store, key string) (string, bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrUnseal) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, ok, nil
}

func readBool(ctx context.Context, store storage.Store, key string, fallback bool) (bool, error) {
	raw, ok, err := read(ctx, store, key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback, nil
	}
	return v, nil
}

func writeBool(ctx context.Context, store storage.Store, key string, v bool) error {
	b, _ := json.Marshal(v)
	if err := store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
