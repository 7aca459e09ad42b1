package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-console/internal/events"
	"github.com/spec-kit/cms-console/internal/preferences"
)

// Bridge raises a toast, and optionally the sound cue, for every pushed
// notification, subject to the operator's preferences.
type Bridge struct {
	bus     events.Dispatcher
	prefs   *preferences.Notifications
	toaster Toaster
	player  Player
	logger  *zap.Logger
}

// NewBridge wires the bridge; call Start to subscribe.
func NewBridge(bus events.Dispatcher, prefs *preferences.Notifications, toaster Toaster, player Player, logger *zap.Logger) *Bridge {
	if player == nil {
		player = NopPlayer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{bus: bus, prefs: prefs, toaster: toaster, player: player, logger: logger.Named("notify")}
}

// Start subscribes to new-notification events and returns the unsubscribe func.
func (b *Bridge) Start() func() {
	return b.bus.Subscribe(events.EventNewNotification, b.handle)
}

func (b *Bridge) handle(ctx context.Context, e events.Event) {
	settings := b.prefs.Settings()
	if !settings.NotificationsEnabled {
		return
	}
	if settings.SoundEnabled {
		b.play(ctx)
	}
	b.toaster.Toast(LevelInfo, "New Notification: "+e.Notification.Subject)
}

// ToggleSound flips the sound preference. Switching it on plays the cue once.
func (b *Bridge) ToggleSound(ctx context.Context) (bool, error) {
	enabled, err := b.prefs.ToggleSound(ctx)
	if err != nil {
		return enabled, err
	}
	if enabled {
		b.play(ctx)
	}
	return enabled, nil
}

// ToggleNotifications flips the toast preference.
func (b *Bridge) ToggleNotifications(ctx context.Context) (bool, error) {
	return b.prefs.ToggleNotifications(ctx)
}

// Settings returns the current preferences.
func (b *Bridge) Settings() preferences.NotificationSettings {
	return b.prefs.Settings()
}

func (b *Bridge) play(ctx context.Context) {
	if err := b.player.Play(ctx); err != nil {
		b.logger.Warn("could not play notification sound", zap.Error(err))
	}
}
