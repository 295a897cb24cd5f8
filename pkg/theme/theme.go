package theme

import (
	"fmt"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// Store is the persistence the controller needs
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Controller holds the current display theme and persists every change
type Controller struct {
	store   Store
	current models.Theme
}

// Load reads the persisted theme, defaulting to light when absent or
// unreadable. The returned error is informational; the controller is
// always usable.
func Load(store Store) (*Controller, error) {
	c := &Controller{store: store, current: models.ThemeLight}
	value, ok, err := store.Get(models.KeyTheme)
	if err != nil {
		return c, fmt.Errorf("failed to read theme: %w", err)
	}
	if ok {
		c.current = models.ParseTheme(value)
	}
	return c, nil
}

// Current returns the applied theme
func (c *Controller) Current() models.Theme {
	return c.current
}

// IsDark reports whether the dark theme is applied
func (c *Controller) IsDark() bool {
	return c.current == models.ThemeDark
}

// Toggle flips the theme and persists it immediately. The new theme is
// applied even if persisting fails.
func (c *Controller) Toggle() (models.Theme, error) {
	return c.Set(c.current.Toggle())
}

// Set applies and persists t
func (c *Controller) Set(t models.Theme) (models.Theme, error) {
	c.current = t
	if err := c.store.Set(models.KeyTheme, string(t)); err != nil {
		return c.current, fmt.Errorf("failed to save theme: %w", err)
	}
	return c.current, nil
}
