package service

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-console/internal/events"
	"github.com/spec-kit/cms-console/internal/notify"
)

// NotificationService keeps the notification list in step with the
// backend and with realtime pushes.
type NotificationService struct {
	api    Backend
	list   *notify.List
	bus    events.Dispatcher
	logger *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(api Backend, list *notify.List, bus events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{api: api, list: list, bus: bus, logger: logger.Named("notifications")}
}

// RegisterHandlers prepends every pushed notification to the list. The
// returned func unsubscribes.
func (n *NotificationService) RegisterHandlers() func() {
	if n.bus == nil {
		return func() {}
	}
	return n.bus.Subscribe(events.EventNewNotification, func(_ context.Context, e events.Event) {
		n.list.Prepend(e.Notification)
		n.logger.Debug("notification pushed", zap.String("id", e.Notification.ID))
	})
}

// Refresh replaces the list with the backend's current notifications.
func (n *NotificationService) Refresh(ctx context.Context) ([]events.Notification, error) {
	var items []events.Notification
	if err := n.api.Get(ctx, "notification/get-all-notifications", &items); err != nil {
		return nil, upstream(err, "Failed to fetch notifications")
	}
	n.list.Replace(items)
	return n.list.Items(notify.FilterAll), nil
}

// Items returns the cached list.
func (n *NotificationService) Items(filter notify.Filter) []events.Notification {
	return n.list.Items(filter)
}

// UnreadCount returns the number of unread cached notifications.
func (n *NotificationService) UnreadCount() int {
	return n.list.UnreadCount()
}

// MarkRead marks one notification as read.
func (n *NotificationService) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return fieldError("id", "notification id is required")
	}
	if err := n.api.Put(ctx, "notification/mark-as-read/"+url.PathEscape(id), nil, nil); err != nil {
		return upstream(err, "Failed to mark notification as read")
	}
	n.list.MarkRead(id)
	return nil
}

// MarkAllRead marks every notification as read.
func (n *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := n.api.Put(ctx, "notification/mark-all-as-read", nil, nil); err != nil {
		return upstream(err, "Failed to mark all notifications as read")
	}
	n.list.MarkAllRead()
	return nil
}

// Delete removes one notification.
func (n *NotificationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fieldError("id", "notification id is required")
	}
	if err := n.api.Delete(ctx, "notification/delete/"+url.PathEscape(id), nil); err != nil {
		return upstream(err, "Failed to delete notification")
	}
	n.list.Remove(id)
	return nil
}

// ClearAll removes every notification.
func (n *NotificationService) ClearAll(ctx context.Context) error {
	if err := n.api.Delete(ctx, "notification/clear-all-notifications", nil); err != nil {
		return upstream(err, "Failed to clear notifications")
	}
	n.list.Clear()
	return nil
}
