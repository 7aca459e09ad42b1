package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/service"
)

// ResourcesHandler proxies CMS resource calls.
type ResourcesHandler struct {
	resources *service.ResourceService
}

// NewResourcesHandler constructs handler.
func NewResourcesHandler(resources *service.ResourceService) *ResourcesHandler {
	return &ResourcesHandler{resources: resources}
}

// Names handles GET /api/resources.
func (h *ResourcesHandler) Names(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.resources.Names()})
}

// Proxy handles /api/resources/:name and /api/resources/:name/:id.
func (h *ResourcesHandler) Proxy(c *fiber.Ctx) error {
	id := c.Params("id")
	action, ok := actionFor(c.Method(), id != "")
	if !ok {
		return fiber.NewError(http.StatusMethodNotAllowed, "method not allowed")
	}

	body := c.Body()
	if len(body) > 0 && !json.Valid(body) {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		query.Add(string(k), string(v))
	})

	out, err := h.resources.Call(c.UserContext(), c.Params("name"), action, id, query, append(json.RawMessage(nil), body...))
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	c.Type("json")
	return c.Send(out)
}

func actionFor(method string, hasID bool) (service.Action, bool) {
	switch method {
	case http.MethodGet:
		if hasID {
			return service.ActionGet, true
		}
		return service.ActionList, true
	case http.MethodPost:
		return service.ActionCreate, true
	case http.MethodPut, http.MethodPatch:
		return service.ActionUpdate, true
	case http.MethodDelete:
		return service.ActionDelete, true
	}
	return "", false
}
