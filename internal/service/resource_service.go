package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

// Action is one operation on a CMS resource.
type Action string

const (
	ActionList   Action = "list"
	ActionGet    Action = "get"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Endpoint is a backend route. A ":id" segment is filled from the caller's id.
type Endpoint struct {
	Method string
	Path   string
}

func (e Endpoint) takesID() bool {
	return strings.Contains(e.Path, ":id")
}

// Resource maps actions on one CMS collection or singleton to backend routes.
type Resource map[Action]Endpoint

// DefaultResources is the backend's CMS surface.
func DefaultResources() map[string]Resource {
	get := func(p string) Endpoint { return Endpoint{http.MethodGet, p} }
	post := func(p string) Endpoint { return Endpoint{http.MethodPost, p} }
	put := func(p string) Endpoint { return Endpoint{http.MethodPut, p} }
	patch := func(p string) Endpoint { return Endpoint{http.MethodPatch, p} }
	del := func(p string) Endpoint { return Endpoint{http.MethodDelete, p} }

	return map[string]Resource{
		"blogs": {
			ActionList:   get("/blog/get-all-blogs"),
			ActionCreate: post("/blog/create-blog"),
			ActionUpdate: put("/blog/update-blog/:id"),
			ActionDelete: del("/blog/delete-blog/:id"),
		},
		"clients": {
			ActionList:   get("/client/get-all-clients"),
			ActionCreate: post("/client/create-client"),
			ActionUpdate: put("/client/update-client/:id"),
			ActionDelete: del("/client/delete-client/:id"),
		},
		"faqs": {
			ActionList:   get("/qna/get-faqs"),
			ActionCreate: post("/qna/create-faq"),
			ActionUpdate: put("/qna/update-faq/:id"),
			ActionDelete: del("/qna/delete-faq/:id"),
		},
		"testimonials": {
			ActionList:   get("/contents/testimonials"),
			ActionCreate: post("/contents/testimonial"),
			ActionUpdate: put("/contents/testimonial/:id"),
			ActionDelete: del("/contents/testimonial/:id"),
		},
		"team": {
			ActionList:   get("/team/all-team"),
			ActionCreate: post("/team/add-team"),
			ActionUpdate: put("/team/update-team/:id"),
			ActionDelete: del("/team/delete-team/:id"),
		},
		"users": {
			ActionList:   get("users/view"),
			ActionCreate: post("users/create"),
			ActionUpdate: put("users/update/:id"),
			ActionDelete: del("users/delete/:id"),
		},
		"enquiries": {
			ActionList:   get("/enquiries/get-all-enquiries"),
			ActionUpdate: patch("/enquiries/update-status/:id"),
			ActionDelete: del("/enquiries/delete-enquiry/:id"),
		},
		"enquiries-export": {
			ActionList: get("/enquiries/export-enquiry"),
		},
		"social": {
			ActionList:   get("/social/get-social"),
			ActionUpdate: put("/social/update-social/:id"),
		},
		"newsletter": {
			ActionList:   get("/newsletter/get-all-subscribers"),
			ActionCreate: post("/newsletter/send-newsletter"),
		},
		"company-settings": {
			ActionGet:    get("/company/settings"),
			ActionUpdate: post("/company/settings"),
		},
		"profile": {
			ActionGet:    get("/users/get-profile"),
			ActionUpdate: put("/users/update-profile"),
		},
		"password": {
			ActionUpdate: post("/users/change-password"),
		},
		"email-config": {
			ActionGet:    get("/config/email-config"),
			ActionUpdate: put("/config/email-config/:id"),
		},
		"test-email": {
			ActionCreate: post("/config/test-email"),
		},
		"seo": {
			ActionGet:    get("seo/get/:id"),
			ActionUpdate: post("seo/upsert/:id"),
		},
		"documents": {
			ActionGet:    get("/document/:id"),
			ActionCreate: post("/document/create-document"),
		},
		"storage": {
			ActionGet: get("/settings/storage"),
		},
	}
}

// ResourceService proxies CMS resource calls to the backend, passing
// payloads through untouched.
type ResourceService struct {
	api       Backend
	resources map[string]Resource
}

// NewResourceService uses DefaultResources when resources is nil.
func NewResourceService(api Backend, resources map[string]Resource) *ResourceService {
	if resources == nil {
		resources = DefaultResources()
	}
	return &ResourceService{api: api, resources: resources}
}

// Names lists the known resources, sorted.
func (s *ResourceService) Names() []string {
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call performs action on the named resource. Query parameters are only
// forwarded for reads.
func (s *ResourceService) Call(ctx context.Context, name string, action Action, id string, query url.Values, body json.RawMessage) (json.RawMessage, error) {
	res, ok := s.resources[name]
	if !ok {
		return nil, apperrors.NewNotFound("resource "+name, nil)
	}
	ep, ok := res[action]
	if !ok && action == ActionList {
		// Singletons are read without an id.
		action = ActionGet
		ep, ok = res[action]
	}
	if !ok {
		return nil, apperrors.NewDomainError("ACTION_NOT_SUPPORTED", string(action)+" is not supported on "+name, http.StatusMethodNotAllowed, nil)
	}

	path, err := ep.resolve(id)
	if err != nil {
		return nil, err
	}
	if (action == ActionList || action == ActionGet) && len(query) > 0 {
		path += "?" + query.Encode()
	}

	var payload any
	if len(body) > 0 {
		payload = body
	}
	var out json.RawMessage
	if err := s.do(ctx, ep.Method, path, payload, &out); err != nil {
		return nil, upstream(err, "Failed to "+string(action)+" "+name)
	}
	return out, nil
}

func (e Endpoint) resolve(id string) (string, error) {
	switch {
	case e.takesID() && id == "":
		return "", fieldError("id", "id is required")
	case !e.takesID() && id != "":
		return "", fieldError("id", "resource does not take an id")
	case e.takesID():
		return strings.Replace(e.Path, ":id", url.PathEscape(id), 1), nil
	default:
		return e.Path, nil
	}
}

func (s *ResourceService) do(ctx context.Context, method, path string, body any, out any) error {
	switch method {
	case http.MethodGet:
		return s.api.Get(ctx, path, out)
	case http.MethodPost:
		return s.api.Post(ctx, path, body, out)
	case http.MethodPut:
		return s.api.Put(ctx, path, body, out)
	case http.MethodPatch:
		return s.api.Patch(ctx, path, body, out)
	case http.MethodDelete:
		return s.api.Delete(ctx, path, out)
	default:
		return apperrors.NewInternalError(nil)
	}
}
