package events

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType enumerates the realtime events the console understands.
type EventType string

const (
	EventNewNotification EventType = "new-notification"
)

// Notification is one entry in the operator's notification list.
type Notification struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts numeric or string ids.
func (n *Notification) UnmarshalJSON(b []byte) error {
	type plain Notification
	var wire struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*n = Notification(wire.plain)
	n.ID = strings.Trim(string(wire.ID), `"`)
	if n.ID == "null" {
		n.ID = ""
	}
	return nil
}

// Icon maps the notification type to the icon shown next to it.
func (n Notification) Icon() string {
	switch strings.ToLower(n.Type) {
	case "success":
		return "success"
	case "warning":
		return "warning"
	case "info":
		return "info"
	default:
		return "mail"
	}
}

// Event is a decoded realtime message.
type Event struct {
	Type         EventType
	ReceivedAt   time.Time
	Notification Notification
}
