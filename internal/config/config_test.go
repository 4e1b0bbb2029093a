package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesOverridesOverDefaults(t *testing.T) {
	doc := `
[migration]
database_name = "parts.db"
batch_size = 500
fuzzy_threshold = 0.75
validate_symbols = true
excluded_fields = ["Supplier"]

[migration.confidence_weights]
symbol = 0.5
footprint = 0.3
fields = 0.2
`
	opts, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "parts.db", opts.DatabaseName)
	assert.Equal(t, 500, opts.BatchSize)
	assert.Equal(t, 0.75, opts.FuzzyThreshold)
	assert.True(t, opts.ValidateSymbols)
	assert.Equal(t, []string{"Supplier"}, opts.ExcludedFields)
	assert.Equal(t, 0.5, opts.ConfidenceWeights.Symbol)
	assert.Equal(t, "components.kicad_dbl", opts.DblibName) // unset, falls back to default
}

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	opts, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), opts)
}

func TestParseRejectsWeightsSummingAboveOne(t *testing.T) {
	doc := `
[migration.confidence_weights]
symbol = 0.6
footprint = 0.6
fields = 0.2
`
	_, err := Parse(strings.NewReader(doc))
	require.Error(t, err)
}

func TestParseTreatsZeroBatchSizeAsUnset(t *testing.T) {
	doc := `
[migration]
batch_size = 0
`
	opts, err := Parse(strings.NewReader(doc))
	require.NoError(t, err) // batch_size=0 is treated as "unset", default applies
	assert.Equal(t, Defaults().BatchSize, opts.BatchSize)
}
