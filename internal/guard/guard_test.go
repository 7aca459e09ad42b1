package guard

import (
	"testing"

	"github.com/spec-kit/cms-console/internal/session"
)

var (
	loggedOut  = session.Credential{}
	admin      = session.Credential{Token: "t", Role: session.RoleAdmin}
	superAdmin = session.Credential{Token: "t", Role: session.RoleSuperAdmin}
)

func TestEveryDeniedCharacterIsRejected(t *testing.T) {
	for _, ch := range "@#!$%^&*()_+|~=`{}[]:\";'<>?,\\" {
		for _, loc := range []Location{
			{Path: "/posts" + string(ch)},
			{Path: "/posts", Query: "q" + string(ch)},
			{Path: "/posts", Fragment: string(ch)},
		} {
			if d := Authenticated(loc, superAdmin, session.RoleSet{}); d.Redirect != PathBadRequest {
				t.Fatalf("Authenticated(%+v) = %+v, want 400", loc, d)
			}
			if d := Anonymous(loc, loggedOut, ""); d.Redirect != PathBadRequest {
				t.Fatalf("Anonymous(%+v) = %+v, want 400", loc, d)
			}
		}
		if d := Sanitizer(Location{Path: "/nope" + string(ch)}); d.Redirect != PathBadRequest {
			t.Fatalf("Sanitizer(%q) = %+v, want 400", ch, d)
		}
	}
}

func TestMalformedBeatsMissingAuth(t *testing.T) {
	d := Authenticated(Location{Path: "/users<script>"}, loggedOut, session.RoleSet{})
	if d.Redirect != PathBadRequest {
		t.Fatalf("expected 400 before login redirect, got %+v", d)
	}
}

func TestAuthenticated(t *testing.T) {
	users := session.Roles(session.RoleSuperAdmin)
	cases := []struct {
		name string
		cred session.Credential
		set  session.RoleSet
		want string
	}{
		{"no token", loggedOut, session.RoleSet{}, PathLogin},
		{"no token restricted", loggedOut, users, PathLogin},
		{"admin on superadmin page", admin, users, PathForbidden},
		{"superadmin on superadmin page", superAdmin, users, ""},
		{"admin on open page", admin, session.RoleSet{}, ""},
		{"unknown role on open page", session.Credential{Token: "t"}, session.RoleSet{}, ""},
	}
	for _, tc := range cases {
		d := Authenticated(Location{Path: "/users"}, tc.cred, tc.set)
		if d.Redirect != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, d.Redirect, tc.want)
		}
		if d.Render() != (tc.want == "") {
			t.Fatalf("%s: Render() mismatch", tc.name)
		}
	}
}

func TestAnonymous(t *testing.T) {
	if d := Anonymous(Location{Path: PathLogin}, loggedOut, ""); !d.Render() {
		t.Fatalf("logged out operator should see the login page, got %+v", d)
	}
	if d := Anonymous(Location{Path: PathLogin}, admin, ""); d.Redirect != PathRoot {
		t.Fatalf("expected redirect to root, got %+v", d)
	}
	if d := Anonymous(Location{Path: PathLogin}, admin, "/faqs"); d.Redirect != "/faqs" {
		t.Fatalf("expected redirect to from, got %+v", d)
	}
}

func TestSanitizerRendersCleanPaths(t *testing.T) {
	if d := Sanitizer(Location{Path: "/does-not-exist", Query: "a=b"}); !d.Render() {
		t.Fatalf("clean path should render the not-found page, got %+v", d)
	}
}

func TestSafeFrom(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/team":                 "/team",
		"//evil.example":        "/",
		"https://evil":          "/",
		"/login":                "/",
		"/users?x=1":            "/",
		"/organization-details": "/organization-details",
	}
	for in, want := range cases {
		if got := SafeFrom(in); got != want {
			t.Fatalf("SafeFrom(%q) = %q, want %q", in, got, want)
		}
	}
}
