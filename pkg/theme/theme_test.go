package theme

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytutor/pytutor-terminal/pkg/files"
	"github.com/pytutor/pytutor-terminal/pkg/models"
)

type brokenStore struct{}

func (brokenStore) Get(string) (string, bool, error) { return "", false, errors.New("unreadable") }
func (brokenStore) Set(string, string) error { return errors.New("read-only") }

func TestLoadDefaultsToLight(t *testing.T) {
	store := files.NewStore(filepath.Join(t.TempDir(), files.StoreFileName))

	c, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, c.Current())
	assert.False(t, c.IsDark())
}

func TestToggleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), files.StoreFileName)
	c, err := Load(files.NewStore(path))
	require.NoError(t, err)

	got, err := c.Toggle()
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, got)

	// Persisted immediately: a fresh controller sees dark
	reloaded, err := Load(files.NewStore(path))
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, reloaded.Current())

	got, err = reloaded.Toggle()
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, got)

	value, ok, err := files.NewStore(path).Get(models.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value)
}

func TestBrokenStore(t *testing.T) {
	c, err := Load(brokenStore{})
	assert.Error(t, err)
	require.NotNil(t, c)
	assert.Equal(t, models.ThemeLight, c.Current())

	got, err := c.Toggle()
	assert.Error(t, err)
	assert.Equal(t, models.ThemeDark, got)
	assert.True(t, c.IsDark())
}
