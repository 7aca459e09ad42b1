package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/cms-console/internal/storage"
)

func newStores(t *testing.T) (*storage.FileStore, *storage.MemoryStore) {
	t.Helper()
	durable, err := storage.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return durable, storage.NewMemoryStore()
}

func hasUser(t *testing.T, s storage.Store) bool {
	t.Helper()
	_, ok, err := s.Get(context.Background(), UserKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	return ok
}

func TestLoginRememberMeWritesDurableOnly(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	m := NewManager(durable, scoped, nil)

	if err := m.Login(ctx, "tok", RoleAdmin, true); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !hasUser(t, durable) {
		t.Fatalf("expected durable store to hold the credential")
	}
	if hasUser(t, scoped) {
		t.Fatalf("expected session store to be empty")
	}
	if got := m.State(); got.Token != "tok" || got.Role != RoleAdmin {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestLoginWithoutRememberMeWritesSessionOnly(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	m := NewManager(durable, scoped, nil)

	if err := m.Login(ctx, "tok", RoleSuperAdmin, false); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if hasUser(t, durable) {
		t.Fatalf("expected durable store to be empty")
	}
	if !hasUser(t, scoped) {
		t.Fatalf("expected session store to hold the credential")
	}
}

func TestLoginClearsCopyInOtherStore(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	m := NewManager(durable, scoped, nil)

	if err := m.Login(ctx, "first", RoleAdmin, true); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if err := m.Login(ctx, "second", RoleAdmin, false); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if hasUser(t, durable) {
		t.Fatalf("expected durable copy removed")
	}
	if !hasUser(t, scoped) {
		t.Fatalf("expected session copy present")
	}
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	durable, scoped := newStores(t)
	m := NewManager(durable, scoped, nil)
	if err := m.Login(context.Background(), "", RoleAdmin, true); err != ErrEmptyToken {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestLogoutClearsBothStores(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	m := NewManager(durable, scoped, nil)

	if err := durable.Set(ctx, UserKey, `{"token":"a","role":"admin"}`); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := scoped.Set(ctx, UserKey, `{"token":"b","role":"admin"}`); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if hasUser(t, durable) || hasUser(t, scoped) {
		t.Fatalf("expected both stores cleared")
	}
	if got := m.State(); got != (Credential{}) {
		t.Fatalf("expected logged out state, got %+v", got)
	}
}

func TestInitializePrefersDurable(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	_ = durable.Set(ctx, UserKey, `{"token":"durable","role":"superadmin"}`)
	_ = scoped.Set(ctx, UserKey, `{"token":"scoped","role":"admin"}`)

	m := NewManager(durable, scoped, nil)
	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if got := m.State(); got.Token != "durable" || got.Role != RoleSuperAdmin {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestInitializeFallsBackToSession(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	_ = scoped.Set(ctx, UserKey, `{"token":"scoped","role":"admin"}`)

	m := NewManager(durable, scoped, nil)
	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if got := m.State(); got.Token != "scoped" {
		t.Fatalf("expected session credential, got %+v", got)
	}
}

func TestInitializeTreatsGarbageAsLoggedOut(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	_ = durable.Set(ctx, UserKey, `not-json`)

	m := NewManager(durable, scoped, nil)
	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if m.Authenticated() {
		t.Fatalf("expected logged out")
	}
}

func TestInitializeNullRecord(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	_ = durable.Set(ctx, UserKey, `{"token":null,"role":null}`)

	m := NewManager(durable, scoped, nil)
	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if got := m.State(); got != (Credential{}) {
		t.Fatalf("expected zero credential, got %+v", got)
	}
}

// A restart keeps the durable store but starts a fresh session store.
func TestRememberMeSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	open := func() *Manager {
		durable, err := storage.NewFileStore(path)
		if err != nil {
			t.Fatalf("NewFileStore() error: %v", err)
		}
		m := NewManager(durable, storage.NewMemoryStore(), nil)
		if err := m.Initialize(ctx); err != nil {
			t.Fatalf("Initialize() error: %v", err)
		}
		return m
	}

	m := open()
	if err := m.Login(ctx, "remembered", RoleAdmin, true); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !open().Authenticated() {
		t.Fatalf("expected remembered login to survive restart")
	}

	m = open()
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	m = open()
	if err := m.Login(ctx, "transient", RoleAdmin, false); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if open().Authenticated() {
		t.Fatalf("expected session-only login to be gone after restart")
	}
}

func TestClaims(t *testing.T) {
	ctx := context.Background()
	durable, scoped := newStores(t)
	m := NewManager(durable, scoped, nil)

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, peekClaims{
		Email: "ops@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}

	if err := m.Login(ctx, signed, RoleAdmin, false); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	claims, err := m.Claims()
	if err != nil {
		t.Fatalf("Claims() error: %v", err)
	}
	if claims.Subject != "u-1" || claims.Email != "ops@example.com" || !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if err := m.Login(ctx, "opaque", RoleAdmin, false); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if _, err := m.Claims(); err != ErrOpaqueToken {
		t.Fatalf("expected ErrOpaqueToken, got %v", err)
	}

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if _, err := m.Claims(); err != ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestInitializeIgnoresCredentialSealedWithOtherKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	plain, err := storage.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := NewManager(plain, storage.NewMemoryStore(), nil).Login(ctx, "tok", RoleAdmin, true); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	reopened, err := storage.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	sealed, err := storage.NewSealedStore(reopened, "new-passphrase")
	if err != nil {
		t.Fatalf("NewSealedStore() error: %v", err)
	}
	m := NewManager(sealed, storage.NewMemoryStore(), nil)
	if err := m.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if m.Authenticated() {
		t.Fatalf("expected logged out, got %+v", m.State())
	}

	if err := m.Login(ctx, "fresh", RoleSuperAdmin, true); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	cred, err := m.Stored(ctx)
	if err != nil || cred.Token != "fresh" {
		t.Fatalf("Stored() = %+v, %v", cred, err)
	}
}

type failingRemoveStore struct {
	*storage.MemoryStore
}

func (failingRemoveStore) Remove(context.Context, string) error {
	return errors.New("remove failed")
}

func TestLoginRollsBackWhenStaleCopyCannotBeCleared(t *testing.T) {
	ctx := context.Background()
	durable := failingRemoveStore{storage.NewMemoryStore()}
	scoped := storage.NewMemoryStore()
	m := NewManager(durable, scoped, nil)

	if err := m.Login(ctx, "tok", RoleAdmin, false); err == nil {
		t.Fatalf("expected Login() error")
	}
	if hasUser(t, scoped) {
		t.Fatalf("expected new credential rolled back")
	}
	if m.Authenticated() {
		t.Fatalf("expected state unchanged, got %+v", m.State())
	}
}
