package store

import (
	"context"
	"strconv"
)

// DarkModeKey holds the theme preference, independent of the appliances.
const DarkModeKey = "dark_mode"

// Preferences reads and writes presentation preferences.
type Preferences struct {
	kv Store
}

// NewPreferences wraps kv.
func NewPreferences(kv Store) *Preferences {
	return &Preferences{kv: kv}
}

// DarkMode reports the stored theme flag. Only the literal "true" enables it.
func (p *Preferences) DarkMode(ctx context.Context) (bool, error) {
	raw, ok, err := p.kv.Get(ctx, DarkModeKey)
	if err != nil || !ok {
		return false, err
	}
	return string(raw) == "true", nil
}

// SetDarkMode stores the theme flag.
func (p *Preferences) SetDarkMode(ctx context.Context, on bool) error {
	return p.kv.Put(ctx, DarkModeKey, []byte(strconv.FormatBool(on)))
}
