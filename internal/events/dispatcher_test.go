package events

import (
	"context"
	"encoding/json"
	"testing"
)

func TestSubscribeAndUnsubscribe(t *testing.T) {
	d := NewInMemoryDispatcher()
	var a, b int
	unsubA := d.Subscribe(EventNewNotification, func(context.Context, Event) { a++ })
	unsubB := d.Subscribe(EventNewNotification, func(context.Context, Event) { b++ })
	defer unsubB()

	d.Publish(context.Background(), Event{Type: EventNewNotification})
	unsubA()
	unsubA()
	d.Publish(context.Background(), Event{Type: EventNewNotification})
	d.Publish(context.Background(), Event{Type: "other"})

	if a != 1 {
		t.Fatalf("expected first subscriber called once, got %d", a)
	}
	if b != 2 {
		t.Fatalf("expected second subscriber called twice, got %d", b)
	}
}

func TestNotificationDecoding(t *testing.T) {
	var n Notification
	raw := `{"id": 17, "subject": "New enquiry", "message": "hi", "type": "Success", "isRead": false, "createdAt": "2025-01-02T03:04:05Z"}`
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if n.ID != "17" || n.Subject != "New enquiry" || n.CreatedAt.Year() != 2025 {
		t.Fatalf("unexpected notification %+v", n)
	}
	if n.Icon() != "success" {
		t.Fatalf("expected success icon, got %q", n.Icon())
	}

	if err := json.Unmarshal([]byte(`{"id":"abc","subject":"s"}`), &n); err != nil || n.ID != "abc" {
		t.Fatalf("string id: %+v, %v", n, err)
	}
	if (Notification{Type: "alert"}).Icon() != "mail" {
		t.Fatalf("unknown types fall back to mail")
	}
}
