package targetconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIncludesAllComponentsAndDerivedViews(t *testing.T) {
	d := Build("components", "migrated library", "sqlite:///tmp/components.db")
	assert.Equal(t, "1.0", d.Meta.Version)
	assert.Equal(t, "odbc", d.Source.Type)
	assert.Len(t, d.Libraries, 7) // All Components + 6 derived views
	assert.Equal(t, "All Components", d.Libraries[0].Name)
}

func TestBuildAddsFamilySpecificFieldsForResistors(t *testing.T) {
	d := Build("components", "", "sqlite:///tmp/components.db")
	var resistors *Library
	for i := range d.Libraries {
		if d.Libraries[i].Name == "resistors" {
			resistors = &d.Libraries[i]
		}
	}
	require.NotNil(t, resistors)
	var hasTolerance bool
	for _, f := range resistors.Fields {
		if f.Column == "tolerance" {
			hasTolerance = true
		}
	}
	assert.True(t, hasTolerance)
}

func TestWriteProducesValidJSON(t *testing.T) {
	d := Build("components", "migrated library", "sqlite:///tmp/components.db")
	path := filepath.Join(t.TempDir(), "nested", "components.kicad_dbl")
	require.NoError(t, Write(path, d))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var roundTripped Descriptor
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	assert.Equal(t, d.Name, roundTripped.Name)
}
