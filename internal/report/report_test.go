package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dblibmigrate/internal/core"
)

func TestBuilderTallysBandsAndFallbacks(t *testing.T) {
	b := NewBuilder()
	b.Record(core.MappedComponent{SourceTable: "Resistors", Confidence: 0.95, SymbolStrategy: core.StrategyExact, FootprintStrategy: core.StrategyExact})
	b.Record(core.MappedComponent{SourceTable: "Resistors", Confidence: 0.3, SymbolStrategy: core.StrategyFallback, SourceSymbol: "XYZ", FootprintStrategy: core.StrategyExact})
	b.Record(core.MappedComponent{SourceTable: "Capacitors", Confidence: 0.6, SymbolStrategy: core.StrategyFuzzy, FootprintStrategy: core.StrategyFallback, SourceFootprint: "UNKNOWN-PKG"})

	r := b.Build()
	assert.Equal(t, 3, r.TotalComponents)
	assert.Equal(t, 1, r.Bands.High)
	assert.Equal(t, 1, r.Bands.Medium)
	assert.Equal(t, 1, r.Bands.Low)
	assert.Len(t, r.Tables, 2)
	assert.Equal(t, "Capacitors", r.Tables[0].Table) // sorted
	assert.Equal(t, "Resistors", r.Tables[1].Table)
	assert.Contains(t, r.Tables[1].FallbackSymbols, "XYZ")
	assert.Contains(t, r.Tables[0].FallbackFootprints, "UNKNOWN-PKG")
}

func TestRegisterTableListsEmptyTableWithZeroCount(t *testing.T) {
	b := NewBuilder()
	b.RegisterTable("EmptyTable")
	b.Record(core.MappedComponent{SourceTable: "Resistors", Confidence: 0.9})

	r := b.Build()
	require.Len(t, r.Tables, 2)
	assert.Equal(t, "EmptyTable", r.Tables[0].Table)
	assert.Equal(t, 0, r.Tables[0].ComponentCount)
	assert.Empty(t, r.Tables[0].Error)
}

func TestRecordTableErrorListsFailedTableWithErrorNote(t *testing.T) {
	b := NewBuilder()
	b.RegisterTable("BadTable")
	b.RecordTableError("BadTable", errors.New("query failed: no such table"))

	r := b.Build()
	require.Len(t, r.Tables, 1)
	assert.Equal(t, "BadTable", r.Tables[0].Table)
	assert.Equal(t, 0, r.Tables[0].ComponentCount)
	assert.Contains(t, r.Tables[0].Error, "query failed")
}

func TestBuildProducesRecommendationsWhenThresholdsAreHit(t *testing.T) {
	b := NewBuilder()
	b.Record(core.MappedComponent{SourceTable: "T", Confidence: 0.2, SymbolStrategy: core.StrategyFallback})
	r := b.Build()
	assert.NotEmpty(t, r.Recommendations)
}

func TestBuildProducesNoRecommendationsWhenAllHighConfidence(t *testing.T) {
	b := NewBuilder()
	b.Record(core.MappedComponent{SourceTable: "T", Confidence: 0.99, SymbolStrategy: core.StrategyExact, FootprintStrategy: core.StrategyExact})
	r := b.Build()
	assert.Empty(t, r.Recommendations)
}

func TestWriteProducesValidJSON(t *testing.T) {
	b := NewBuilder()
	b.Record(core.MappedComponent{SourceTable: "T", Confidence: 0.9})
	r := b.Build()

	path := filepath.Join(t.TempDir(), "migration_report.json")
	require.NoError(t, Write(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var roundTripped Report
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	assert.Equal(t, 1, roundTripped.TotalComponents)
}
