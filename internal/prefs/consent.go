package prefs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tayloree/appliance-compare/internal/storage"
)

// Consent is the stored cookie-consent decision.
type Consent struct {
	Accepted  bool      `json:"accepted"`
	DecidedAt time.Time `json:"decidedAt"`
}

// Consent returns the decision while it is younger than ConsentTTL.
func (p *Prefs) Consent(ctx context.Context) (Consent, bool) {
	c := storage.Get(ctx, p.store, storage.KeyCookieConsent, Consent{})
	if c.DecidedAt.IsZero() || p.now().Sub(c.DecidedAt) > ConsentTTL {
		return Consent{}, false
	}
	return c, true
}

// SetConsent records a decision stamped with the current time.
func (p *Prefs) SetConsent(ctx context.Context, accepted bool) bool {
	return p.store.Set(ctx, storage.KeyCookieConsent, Consent{Accepted: accepted, DecidedAt: p.now()})
}

// Theme is the color scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(raw string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(raw))); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want system, light or dark)", raw)
}

// Theme returns the stored preference, ThemeSystem by default.
func (p *Prefs) Theme(ctx context.Context) Theme {
	t, err := ParseTheme(string(storage.Get(ctx, p.store, storage.KeyTheme, ThemeSystem)))
	if err != nil {
		return ThemeSystem
	}
	return t
}

// SetTheme stores t.
func (p *Prefs) SetTheme(ctx context.Context, t Theme) bool {
	return p.store.Set(ctx, storage.KeyTheme, t)
}
