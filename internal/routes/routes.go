// Package routes declares the console's navigable pages and how each is guarded.
package routes

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/cms-console/internal/session"
)

// Kind selects the guard wrapped around a page.
type Kind int

const (
	// Protected pages need a logged-in operator.
	Protected Kind = iota
	// Public pages are for logged-out operators only.
	Public
	// Open pages are reachable by anyone, unguarded.
	Open
)

// Route maps a path to a view.
type Route struct {
	Path  string
	View  string
	Kind  Kind
	Roles session.RoleSet
}

// Table is the ordered route declaration list.
type Table []Route

// Default mirrors the dashboard's router.
func Default() Table {
	protected := func(path, view string, roles ...session.Role) Route {
		return Route{Path: path, View: view, Kind: Protected, Roles: session.Roles(roles...)}
	}
	return Table{
		protected("/", "overview"),
		protected("/analytics", "analytics"),
		protected("/reports", "reports"),
		protected("/users", "users", session.RoleSuperAdmin),
		protected("/users/:id", "user-profile"),
		protected("/settings", "settings"),
		protected("/posts", "blogs"),
		protected("/testimonials", "testimonials"),
		protected("/social", "social-media"),
		protected("/clients", "clients"),
		protected("/enquiries", "enquiries"),
		protected("/notifications", "notifications"),
		protected("/team", "team"),
		protected("/pages", "pages"),
		protected("/help", "help"),
		protected("/newsletters", "newsletter"),
		protected("/mail-config", "mail-config"),
		protected("/documents", "documents"),
		protected("/seo-editor", "seo"),
		protected("/profile", "profile"),
		protected("/faqs", "faqs"),
		protected("/organization-details", "organization-details"),
		{Path: "/login", View: "login", Kind: Public},
		{Path: "/forgot-password", View: "forgot-password", Kind: Open},
		{Path: "/error/400", View: "error-400", Kind: Open},
		{Path: "/error/401", View: "error-401", Kind: Open},
		{Path: "/error/403", View: "error-403", Kind: Open},
		{Path: "/error/500", View: "error-500", Kind: Open},
		{Path: "/error/503", View: "error-503", Kind: Open},
	}
}

// Find returns the route declared for path.
func (t Table) Find(path string) (Route, bool) {
	for _, r := range t {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

type overrideFile struct {
	Routes []struct {
		Path  string   `yaml:"path"`
		Roles []string `yaml:"roles"`
	} `yaml:"routes"`
}

// LoadOverrides replaces role lists of protected routes from a YAML file:
//
//	routes:
//	  - path: /settings
//	    roles: [superadmin]
func (t Table) LoadOverrides(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}
	var f overrideFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode routes file: %w", err)
	}

	out := make(Table, len(t))
	copy(out, t)
	for _, o := range f.Routes {
		idx := -1
		for i, r := range out {
			if r.Path == o.Path {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("routes file: unknown path %q", o.Path)
		}
		if out[idx].Kind != Protected {
			return nil, fmt.Errorf("routes file: %q is not a protected route", o.Path)
		}
		roles := make([]session.Role, 0, len(o.Roles))
		for _, name := range o.Roles {
			r := session.ParseRole(name)
			if !r.Valid() {
				return nil, fmt.Errorf("routes file: unknown role %q for %s", strings.TrimSpace(name), o.Path)
			}
			roles = append(roles, r)
		}
		out[idx].Roles = session.Roles(roles...)
	}
	return out, nil
}
