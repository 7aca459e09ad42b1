package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spec-kit/cms-console/internal/events"
	"github.com/spec-kit/cms-console/internal/preferences"
	"github.com/spec-kit/cms-console/internal/storage"
)

type fakeToaster struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeToaster) Toast(_ Level, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

type fakePlayer struct {
	calls int
	err   error
}

func (p *fakePlayer) Play(context.Context) error {
	p.calls++
	return p.err
}

func setup(t *testing.T, sound, toasts bool) (events.Dispatcher, *Bridge, *fakeToaster, *fakePlayer) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	prefs, err := preferences.LoadNotifications(ctx, store)
	if err != nil {
		t.Fatalf("LoadNotifications() error: %v", err)
	}
	if sound {
		if _, err := prefs.ToggleSound(ctx); err != nil {
			t.Fatalf("ToggleSound() error: %v", err)
		}
	}
	if !toasts {
		if _, err := prefs.ToggleNotifications(ctx); err != nil {
			t.Fatalf("ToggleNotifications() error: %v", err)
		}
	}

	bus := events.NewInMemoryDispatcher()
	toaster := &fakeToaster{}
	player := &fakePlayer{}
	b := NewBridge(bus, prefs, toaster, player, nil)
	t.Cleanup(b.Start())
	return bus, b, toaster, player
}

func emit(bus events.Dispatcher, subject string) {
	bus.Publish(context.Background(), events.Event{
		Type:         events.EventNewNotification,
		Notification: events.Notification{ID: "1", Subject: subject},
	})
}

func TestBridgeToastsWhenEnabled(t *testing.T) {
	bus, _, toaster, player := setup(t, false, true)
	emit(bus, "New enquiry")

	if len(toaster.texts) != 1 || toaster.texts[0] != "New Notification: New enquiry" {
		t.Fatalf("expected one toast, got %v", toaster.texts)
	}
	if player.calls != 0 {
		t.Fatalf("expected no sound with sound disabled, got %d", player.calls)
	}
}

func TestBridgeSilentWhenDisabled(t *testing.T) {
	bus, _, toaster, player := setup(t, true, false)
	emit(bus, "New enquiry")

	if len(toaster.texts) != 0 {
		t.Fatalf("expected no toasts, got %v", toaster.texts)
	}
	if player.calls != 0 {
		t.Fatalf("expected no sound, got %d", player.calls)
	}
}

func TestBridgePlaysSoundOnce(t *testing.T) {
	bus, _, toaster, player := setup(t, true, true)
	emit(bus, "Hello")

	if player.calls != 1 {
		t.Fatalf("expected one play call, got %d", player.calls)
	}
	if len(toaster.texts) != 1 {
		t.Fatalf("expected one toast, got %v", toaster.texts)
	}
}

func TestBridgeSwallowsPlayerFailure(t *testing.T) {
	bus, _, toaster, player := setup(t, true, true)
	player.err = errors.New("no audio device")
	emit(bus, "Hello")

	if len(toaster.texts) != 1 {
		t.Fatalf("toast must still be shown when playback fails, got %v", toaster.texts)
	}
}

func TestBridgeRedeliveryIsNotDeduplicated(t *testing.T) {
	bus, _, toaster, _ := setup(t, false, true)
	emit(bus, "Same")
	emit(bus, "Same")
	if len(toaster.texts) != 2 {
		t.Fatalf("expected two toasts, got %v", toaster.texts)
	}
}

func TestToggleSoundPlaysWhenEnabled(t *testing.T) {
	_, b, _, player := setup(t, false, true)

	on, err := b.ToggleSound(context.Background())
	if err != nil || !on {
		t.Fatalf("ToggleSound() = %v, %v", on, err)
	}
	if player.calls != 1 {
		t.Fatalf("expected cue on enable, got %d", player.calls)
	}
	if off, _ := b.ToggleSound(context.Background()); off || player.calls != 1 {
		t.Fatalf("disabling must not play, calls=%d", player.calls)
	}
}

func TestBridgeStopUnsubscribes(t *testing.T) {
	ctx := context.Background()
	prefs, _ := preferences.LoadNotifications(ctx, storage.NewMemoryStore())
	bus := events.NewInMemoryDispatcher()
	toaster := &fakeToaster{}
	stop := NewBridge(bus, prefs, toaster, nil, nil).Start()
	stop()
	emit(bus, "late")
	if len(toaster.texts) != 0 {
		t.Fatalf("expected no toasts after stop, got %v", toaster.texts)
	}
}
