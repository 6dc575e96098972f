package settings

import (
	"context"
	"errors"
	"fmt"
)

// Theme is the page color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme applies when nothing valid has been stored.
const DefaultTheme = ThemeDark

// ErrInvalidTheme is returned when setting a theme other than dark or light.
var ErrInvalidTheme = errors.New("theme must be dark or light")

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Toggled returns the opposite theme. Anything that is not light becomes light.
func (t Theme) Toggled() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ThemeService reads and writes a client's theme preference.
type ThemeService struct {
	store Store
	def   Theme
}

// NewThemeService creates a ThemeService. An invalid def falls back to dark.
func NewThemeService(store Store, def string) *ThemeService {
	t, err := ParseTheme(def)
	if err != nil {
		t = DefaultTheme
	}
	return &ThemeService{store: store, def: t}
}

// Default returns the theme used when a client has no stored preference.
func (s *ThemeService) Default() Theme { return s.def }

func themeKey(clientID string) string { return "theme:" + clientID }

// Current returns the stored theme for clientID. Missing or unrecognized
// values yield the default.
func (s *ThemeService) Current(ctx context.Context, clientID string) (Theme, error) {
	v, ok, err := s.store.Get(ctx, themeKey(clientID))
	if err != nil {
		return s.def, err
	}
	if !ok {
		return s.def, nil
	}
	t, err := ParseTheme(v)
	if err != nil {
		return s.def, nil
	}
	return t, nil
}

// Set stores theme for clientID.
func (s *ThemeService) Set(ctx context.Context, clientID, theme string) (Theme, error) {
	t, err := ParseTheme(theme)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, themeKey(clientID), string(t)); err != nil {
		return "", err
	}
	return t, nil
}

// Toggle flips the stored theme and returns the new value.
func (s *ThemeService) Toggle(ctx context.Context, clientID string) (Theme, error) {
	v, _, err := s.store.Get(ctx, themeKey(clientID))
	if err != nil {
		return "", err
	}
	if v == "" {
		v = string(s.def)
	}
	next := Theme(v).Toggled()
	if err := s.store.Set(ctx, themeKey(clientID), string(next)); err != nil {
		return "", err
	}
	return next, nil
}
