package preferences

import (
	"context"
	"testing"

	"github.com/spec-kit/cms-console/internal/storage"
)

func TestNotificationDefaults(t *testing.T) {
	n, err := LoadNotifications(context.Background(), storage.NewMemoryStore())
	if err != nil {
		t.Fatalf("LoadNotifications() error: %v", err)
	}
	if n.SoundEnabled() {
		t.Fatalf("sound must default to off")
	}
	if !n.NotificationsEnabled() {
		t.Fatalf("notifications must default to on")
	}
}

func TestNotificationTogglesPersist(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	n, _ := LoadNotifications(ctx, store)

	if v, err := n.ToggleSound(ctx); err != nil || !v {
		t.Fatalf("ToggleSound() = %v, %v", v, err)
	}
	if v, err := n.ToggleNotifications(ctx); err != nil || v {
		t.Fatalf("ToggleNotifications() = %v, %v", v, err)
	}
	if raw, _, _ := store.Get(ctx, KeySoundEnabled); raw != "true" {
		t.Fatalf("expected stored sound=true, got %q", raw)
	}
	if raw, _, _ := store.Get(ctx, KeyNotificationsEnabled); raw != "false" {
		t.Fatalf("expected stored notifications=false, got %q", raw)
	}

	reloaded, _ := LoadNotifications(ctx, store)
	if got := reloaded.Settings(); !got.SoundEnabled || got.NotificationsEnabled {
		t.Fatalf("unexpected reloaded settings %+v", got)
	}
}

func TestNotificationIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Set(ctx, KeyNotificationsEnabled, "maybe")
	n, err := LoadNotifications(ctx, store)
	if err != nil {
		t.Fatalf("LoadNotifications() error: %v", err)
	}
	if !n.NotificationsEnabled() {
		t.Fatalf("unparseable value should fall back to the default")
	}
}

func TestPreferencesSealedWithOtherKeyUseDefaults(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemoryStore()
	_ = inner.Set(ctx, KeySoundEnabled, "true")
	_ = inner.Set(ctx, KeyNotificationsEnabled, "false")
	_ = inner.Set(ctx, KeyTheme, ThemeLight)
	sealed, err := storage.NewSealedStore(inner, "rotated")
	if err != nil {
		t.Fatalf("NewSealedStore() error: %v", err)
	}

	n, err := LoadNotifications(ctx, sealed)
	if err != nil {
		t.Fatalf("LoadNotifications() error: %v", err)
	}
	if got := n.Settings(); got.SoundEnabled || !got.NotificationsEnabled {
		t.Fatalf("expected defaults, got %+v", got)
	}
	a, err := LoadAppearance(ctx, sealed)
	if err != nil {
		t.Fatalf("LoadAppearance() error: %v", err)
	}
	if got := a.Settings(); got.Theme != ThemeDark || got.Font != DefaultFont {
		t.Fatalf("expected defaults, got %+v", got)
	}
	if v, err := n.ToggleSound(ctx); err != nil || !v {
		t.Fatalf("ToggleSound() = %v, %v", v, err)
	}
}

func TestAppearance(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a, err := LoadAppearance(ctx, store)
	if err != nil {
		t.Fatalf("LoadAppearance() error: %v", err)
	}
	if got := a.Settings(); got.Theme != ThemeDark || got.Font != DefaultFont {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if theme, _ := a.ToggleTheme(ctx); theme != ThemeLight {
		t.Fatalf("expected light, got %q", theme)
	}
	if err := a.SetFont(ctx, "serif"); err != nil {
		t.Fatalf("SetFont() error: %v", err)
	}
	if err := a.SetFont(ctx, " "); err == nil {
		t.Fatalf("expected error for blank font")
	}

	reloaded, _ := LoadAppearance(ctx, store)
	if got := reloaded.Settings(); got.Theme != ThemeLight || got.Font != "serif" {
		t.Fatalf("unexpected reloaded settings %+v", got)
	}
}
