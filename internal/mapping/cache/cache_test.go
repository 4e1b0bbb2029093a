package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dblibmigrate/internal/core"
)

func sampleComponent() core.MappedComponent {
	return core.MappedComponent{
		SourceSymbol: "Resistor",
		TargetSymbol: "Device:R",
		Confidence:   0.95,
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	c := New()
	_, ok := c.Get("k1")
	assert.False(t, ok)

	c.Put("k1", sampleComponent())
	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, core.LibraryQualifiedName("Device:R"), got.TargetSymbol)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestFlushAndReopenPersistsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping-cache.json")
	c, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	c.Put("k1", sampleComponent())
	require.NoError(t, c.Flush())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
	got, ok := reopened.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "Resistor", got.SourceSymbol)
}

func TestOpenMissingFileIsEmptyNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}
