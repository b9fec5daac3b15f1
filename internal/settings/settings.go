// Package settings persists the calculator's UI preferences behind a narrow
// key-value interface. The pricing core never reads from it.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Fixed storage keys for each preference.
const (
	KeyTheme        = "priceSlice.theme"
	KeyIncludeTax   = "priceSlice.includeTax"
	KeyTaxRate      = "priceSlice.taxRate"
	KeyAdvancedOpen = "priceSlice.advancedOpen"
)

// Themes supported by the UI.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ErrInvalid indicates a profile ID or preference payload that failed validation.
var ErrInvalid = errors.New("settings: invalid preferences")

// Preferences is the explicit settings record handed to the UI at startup.
// TaxRate is kept as the text the user typed.
type Preferences struct {
	Theme        string `json:"theme" validate:"oneof=light dark"`
	IncludeTax   bool   `json:"includeTax"`
	TaxRate      string `json:"taxRate" validate:"max=32,taxrate"`
	AdvancedOpen bool   `json:"advancedOpen"`
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Preferences {
	return Preferences{Theme: ThemeLight, TaxRate: "0"}
}

// Store is the key-value surface preferences are written through.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Load reads preferences from store, falling back to defaults for missing
// or unrecognised values.
func Load(ctx context.Context, store Store) (Preferences, error) {
	prefs := Defaults()

	theme, ok, err := store.Get(ctx, KeyTheme)
	if err != nil {
		return prefs, fmt.Errorf("settings: load theme: %w", err)
	}
	if ok && (theme == ThemeLight || theme == ThemeDark) {
		prefs.Theme = theme
	}

	if prefs.IncludeTax, err = loadBool(ctx, store, KeyIncludeTax, false); err != nil {
		return prefs, err
	}
	if prefs.AdvancedOpen, err = loadBool(ctx, store, KeyAdvancedOpen, false); err != nil {
		return prefs, err
	}

	rate, ok, err := store.Get(ctx, KeyTaxRate)
	if err != nil {
		return prefs, fmt.Errorf("settings: load tax rate: %w", err)
	}
	if ok && rate != "" {
		prefs.TaxRate = rate
	}
	return prefs, nil
}

// Save writes every preference to store.
func Save(ctx context.Context, store Store, prefs Preferences) error {
	values := []struct{ key, value string }{
		{KeyTheme, prefs.Theme},
		{KeyIncludeTax, strconv.FormatBool(prefs.IncludeTax)},
		{KeyTaxRate, prefs.TaxRate},
		{KeyAdvancedOpen, strconv.FormatBool(prefs.AdvancedOpen)},
	}
	for _, kv := range values {
		if err := store.Set(ctx, kv.key, kv.value); err != nil {
			return fmt.Errorf("settings: save %s: %w", kv.key, err)
		}
	}
	return nil
}

// loadBool only treats the exact text "true" as set.
func loadBool(ctx context.Context, store Store, key string, fallback bool) (bool, error) {
	saved, ok, err := store.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("settings: load %s: %w", key, err)
	}
	if !ok {
		return fallback, nil
	}
	return saved == "true", nil
}
