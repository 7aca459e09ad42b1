package preferences

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spec-kit/cms-console/internal/storage"
)

const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	DefaultFont = "sans-serif"
)

// Appearance holds theme and font.
type Appearance struct {
	store storage.Store

	mu    sync.RWMutex
	theme string
	font  string
}

// AppearanceSettings is a snapshot of the appearance preferences.
type AppearanceSettings struct {
	Theme string `json:"theme"`
	Font  string `json:"font"`
}

// LoadAppearance reads theme and font, defaulting to dark and sans-serif.
func LoadAppearance(ctx context.Context, store storage.Store) (*Appearance, error) {
	a := &Appearance{store: store, theme: ThemeDark, font: DefaultFont}
	if v, ok, err := read(ctx, store, KeyTheme); err != nil {
		return nil, err
	} else if ok && (v == ThemeDark || v == ThemeLight) {
		a.theme = v
	}
	if v, ok, err := read(ctx, store, KeyFont); err != nil {
		return nil, err
	} else if ok && strings.TrimSpace(v) != "" {
		a.font = v
	}
	return a, nil
}

// Settings returns the current values.
func (a *Appearance) Settings() AppearanceSettings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return AppearanceSettings{Theme: a.theme, Font: a.font}
}

// ToggleTheme switches between dark and light.
func (a *Appearance) ToggleTheme(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := ThemeLight
	if a.theme == ThemeLight {
		next = ThemeDark
	}
	if err := a.store.Set(ctx, KeyTheme, next); err != nil {
		return a.theme, fmt.Errorf("write %s: %w", KeyTheme, err)
	}
	a.theme = next
	return next, nil
}

// SetFont stores the font family.
func (a *Appearance) SetFont(ctx context.Context, font string) error {
	font = strings.TrimSpace(font)
	if font == "" {
		return fmt.Errorf("font is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Set(ctx, KeyFont, font); err != nil {
		return fmt.Errorf("write %s: %w", KeyFont, err)
	}
	a.font = font
	return nil
}
