// Package guard decides, for one navigation, whether a page renders or the
// operator is sent elsewhere. Decisions are pure functions of the location
// and the current credential.
package guard

import (
	"regexp"
	"strings"

	"github.com/spec-kit/cms-console/internal/session"
)

// Static destinations guards redirect to.
const (
	PathRoot       = "/"
	PathLogin      = "/login"
	PathBadRequest = "/error/400"
	PathForbidden  = "/error/403"
)

var invalidChars = regexp.MustCompile("[@#!$%^&*()_+|~=`{}\\[\\]:\";'<>?,\\\\]")

// Location is the navigable part of a URL.
type Location struct {
	Path     string
	Query    string
	Fragment string
}

// Malformed reports whether any part of the location carries a denied character.
func (l Location) Malformed() bool {
	return invalidChars.MatchString(l.Path) ||
		invalidChars.MatchString(l.Query) ||
		invalidChars.MatchString(l.Fragment)
}

// Decision is the outcome of a guard.
type Decision struct {
	Redirect string
}

// Render reports whether the guarded page should be shown.
func (d Decision) Render() bool {
	return d.Redirect == ""
}

func redirect(to string) Decision {
	return Decision{Redirect: to}
}

// Authenticated protects pages that need a logged-in operator. URL
// sanitisation runs first; a malformed URL is a bad request even when the
// operator is logged out.
func Authenticated(loc Location, cred session.Credential, allowed session.RoleSet) Decision {
	if loc.Malformed() {
		return redirect(PathBadRequest)
	}
	if !cred.Authenticated() {
		return redirect(PathLogin)
	}
	if !allowed.Allows(cred.Role) {
		return redirect(PathForbidden)
	}
	return Decision{}
}

// Anonymous protects public pages such as the login form. A logged-in
// operator is sent on to from.
func Anonymous(loc Location, cred session.Credential, from string) Decision {
	if loc.Malformed() {
		return redirect(PathBadRequest)
	}
	if cred.Authenticated() {
		return redirect(SafeFrom(from))
	}
	return Decision{}
}

// Sanitizer wraps the not-found page and looks at the path only.
func Sanitizer(loc Location) Decision {
	if invalidChars.MatchString(loc.Path) {
		return redirect(PathBadRequest)
	}
	return Decision{}
}

// SafeFrom returns from when it is a clean local path and root otherwise.
func SafeFrom(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return PathRoot
	}
	if from == PathLogin || invalidChars.MatchString(from) {
		return PathRoot
	}
	return from
}
