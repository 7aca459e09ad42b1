package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/api/dto"
	"github.com/spec-kit/cms-console/internal/events"
	"github.com/spec-kit/cms-console/internal/notify"
	"github.com/spec-kit/cms-console/internal/service"
)

// NotificationsHandler exposes the notification list.
type NotificationsHandler struct {
	notifications *service.NotificationService
	now           func() time.Time
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, now: time.Now}
}

// List handles GET /api/notifications. The list is refetched from the
// backend unless cached=true.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	filter := notify.FilterAll
	if notify.Filter(c.Query("filter")) == notify.FilterUnread {
		filter = notify.FilterUnread
	}
	if !c.QueryBool("cached") {
		if _, err := h.notifications.Refresh(c.UserContext()); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": h.page(h.notifications.Items(filter))})
}

// MarkRead handles PUT /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.page(h.notifications.Items(notify.FilterAll))})
}

// MarkAllRead handles PUT /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAllRead(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.page(h.notifications.Items(notify.FilterAll))})
}

// Delete handles DELETE /api/notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	if err := h.notifications.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear handles DELETE /api/notifications.
func (h *NotificationsHandler) Clear(c *fiber.Ctx) error {
	if err := h.notifications.ClearAll(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationsHandler) page(items []events.Notification) dto.NotificationList {
	now := h.now()
	out := dto.NotificationList{Items: make([]dto.NotificationItem, 0, len(items)), Unread: h.notifications.UnreadCount()}
	for _, n := range items {
		out.Items = append(out.Items, dto.NotificationItem{Notification: n, Icon: n.Icon(), Ago: notify.TimeAgo(now, n.CreatedAt)})
	}
	return out
}
