package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/mapping/cache"
)

func resistorRow() (core.RawRow, core.TableSpec) {
	spec := core.TableSpec{
		Name: "Resistors", SymbolField: "Symbol", FootprintField: "Footprint", DescriptionField: "Description",
	}
	row := core.RawRow{
		Table: "Resistors",
		Columns: []core.Column{
			{Name: "Symbol", Value: core.TextValue("Resistor")},
			{Name: "Footprint", Value: core.TextValue("0603")},
			{Name: "Description", Value: core.TextValue("10k 1% resistor")},
			{Name: "Value", Value: core.TextValue("10k")},
			{Name: "Manufacturer", Value: core.TextValue("Yageo")},
		},
	}
	return row, spec
}

func TestResolveBasicResistorHighConfidence(t *testing.T) {
	row, spec := resistorRow()
	e := New(cache.New())
	c := e.Resolve(row, spec)

	assert.Equal(t, core.LibraryQualifiedName("Device:R"), c.TargetSymbol)
	assert.Equal(t, core.StrategyExact, c.SymbolStrategy)
	assert.GreaterOrEqual(t, c.Confidence, 0.9)
	assert.Equal(t, core.BandHigh, core.Band(c.Confidence))
	assert.Equal(t, "R", c.Fields["Reference"])
}

func TestResolveUnknownSymbolKnownPackageFallsBackButKeepsFootprint(t *testing.T) {
	spec := core.TableSpec{Name: "Misc", SymbolField: "Symbol", FootprintField: "Footprint", DescriptionField: "Description"}
	row := core.RawRow{
		Table: "Misc",
		Columns: []core.Column{
			{Name: "Symbol", Value: core.TextValue("XZ-UNKNOWN-PART")},
			{Name: "Footprint", Value: core.TextValue("0805")},
			{Name: "Description", Value: core.TextValue("mystery part")},
		},
	}
	e := New(cache.New())
	c := e.Resolve(row, spec)

	assert.NotEqual(t, core.StrategyExact, c.SymbolStrategy)
	assert.Contains(t, string(c.TargetFootprint), "0805")
}

func TestResolveSemanticPnpMidConfidence(t *testing.T) {
	spec := core.TableSpec{Name: "Transistors", SymbolField: "Symbol", FootprintField: "Footprint", DescriptionField: "Description"}
	row := core.RawRow{
		Table: "Transistors",
		Columns: []core.Column{
			{Name: "Symbol", Value: core.TextValue("QX-998")},
			{Name: "Footprint", Value: core.TextValue("SOT-23")},
			{Name: "Description", Value: core.TextValue("general purpose pnp switching transistor")},
		},
	}
	e := New(cache.New())
	c := e.Resolve(row, spec)

	assert.Equal(t, core.StrategySemantic, c.SymbolStrategy)
	assert.Equal(t, core.LibraryQualifiedName("Device:Q_PNP_BCE"), c.TargetSymbol)
	assert.InDelta(t, 0.76, c.Confidence, 0.05)
	assert.Equal(t, core.BandMedium, core.Band(c.Confidence))
}

// TestResolveScenario3UnknownSymbolKnownPackage is §8 scenario 3 verbatim:
// an unrecognized source symbol with a PNP description and a known
// package token must resolve via the semantic PNP rule, not the generic
// "transistor" rule, even though both fire on the same description.
func TestResolveScenario3UnknownSymbolKnownPackage(t *testing.T) {
	spec := core.TableSpec{Name: "Transistors", SymbolField: "Symbol", FootprintField: "Footprint", DescriptionField: "Description"}
	row := core.RawRow{
		Table: "Transistors",
		Columns: []core.Column{
			{Name: "Symbol", Value: core.TextValue("MysteryPart")},
			{Name: "Footprint", Value: core.TextValue("SOT-23")},
			{Name: "Description", Value: core.TextValue("PNP transistor")},
		},
	}
	e := New(cache.New())
	c := e.Resolve(row, spec)

	assert.Equal(t, core.StrategySemantic, c.SymbolStrategy)
	assert.Equal(t, core.LibraryQualifiedName("Device:Q_PNP_BCE"), c.TargetSymbol)
	assert.Equal(t, core.LibraryQualifiedName("Package_TO_SOT_SMD:SOT-23"), c.TargetFootprint)
	assert.GreaterOrEqual(t, c.Confidence, 0.5)
	assert.LessOrEqual(t, c.Confidence, 0.8)
}

func TestResolveIsIdempotentAndCacheable(t *testing.T) {
	row, spec := resistorRow()
	mc := cache.New()
	e := New(mc)

	first := e.Resolve(row, spec)
	second := e.Resolve(row, spec)
	assert.Equal(t, first, second)

	stats := mc.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, mc.Len())
}

func TestResolveExcludedFieldsAreDropped(t *testing.T) {
	row, spec := resistorRow()
	e := New(cache.New(), WithExcludedFields([]string{"Manufacturer"}))
	c := e.Resolve(row, spec)
	_, present := c.Fields["Manufacturer"]
	assert.False(t, present)
}

func TestResolveCustomFieldMappingOverridesBuiltin(t *testing.T) {
	row, spec := resistorRow()
	e := New(cache.New(), WithCustomFieldMappings(map[string]string{"Value": "Tolerance"}))
	c := e.Resolve(row, spec)
	assert.Equal(t, "10k", c.Fields["Tolerance"])
}

func TestAggregateConfidenceClampsAndWeighs(t *testing.T) {
	o := ruleOptions{symbolWeight: 0.4, footprintWeight: 0.4, fieldsWeight: 0.2}
	require.Equal(t, 1.0, aggregateConfidence(o, 1, 1, 4, 4))
	require.InDelta(t, 0.0, aggregateConfidence(o, 0, 0, 0, 0), 1e-9)
	require.InDelta(t, 0.4, aggregateConfidence(o, 1, 0, 0, 4), 1e-9)
}
