package dto

import (
	"github.com/spec-kit/cms-console/internal/events"
	"github.com/spec-kit/cms-console/internal/session"
)

// ViewResponse tells the front end which page to render.
type ViewResponse struct {
	View string       `json:"view"`
	Role session.Role `json:"role"`
}

// NotificationItem is a notification as the list view shows it.
type NotificationItem struct {
	events.Notification
	Icon string `json:"icon"`
	Ago  string `json:"ago"`
}

// NotificationList is the notification page payload.
type NotificationList struct {
	Items  []NotificationItem `json:"items"`
	Unread int                `json:"unread"`
}

// FontRequest sets the font family.
type FontRequest struct {
	Font string `json:"font"`
}

// ReorderRequest moves one FAQ.
type ReorderRequest struct {
	IDs  []string `json:"ids"`
	From int      `json:"from"`
	To   int      `json:"to"`
}
