package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/cms-console/internal/notify"
)

const keepAliveInterval = 15 * time.Second

// ToastsHandler streams toasts to the browser.
type ToastsHandler struct {
	feed *notify.Feed
	// done ends every open stream when the console shuts down.
	done <-chan struct{}
}

// NewToastsHandler constructs handler. Streams close when ctx is done.
func NewToastsHandler(ctx context.Context, feed *notify.Feed) *ToastsHandler {
	return &ToastsHandler{feed: feed, done: ctx.Done()}
}

// History handles GET /api/toasts.
func (h *ToastsHandler) History(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.feed.History()})
}

// Stream handles GET /api/toasts/stream as server-sent events.
func (h *ToastsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	toasts, cancel := h.feed.Subscribe()
	done := h.done
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case t, ok := <-toasts:
				if !ok {
					return
				}
				b, err := json.Marshal(t)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "id: %s\nevent: toast\ndata: %s\n\n", t.ID, b)
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
