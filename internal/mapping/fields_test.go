package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dblibmigrate/internal/core"
)

func TestResolveFieldsManufacturerMPNDerivation(t *testing.T) {
	spec := core.TableSpec{Name: "T", SymbolField: "Symbol", FootprintField: "Footprint", DescriptionField: "Description"}
	row := core.RawRow{Columns: []core.Column{
		{Name: "Symbol", Value: core.TextValue("Resistor")},
		{Name: "Manufacturer", Value: core.TextValue("Yageo")},
		{Name: "MPN", Value: core.TextValue("RC0603FR")},
		{Name: "Description", Value: core.TextValue("resistor")},
	}}
	fields, sourced := resolveFields(row, spec, nil, map[string]bool{})
	assert.Equal(t, "Yageo RC0603FR", fields["Manufacturer_MPN"])
	assert.Equal(t, 3, sourced) // Manufacturer, MPN, Description
}

func TestInferReference(t *testing.T) {
	assert.Equal(t, "R", inferReference("10k resistor"))
	assert.Equal(t, "C", inferReference("1uF capacitor"))
	assert.Equal(t, "L", inferReference("100uH inductor"))
	assert.Equal(t, "U", inferReference("mystery part"))
}

func TestResolveFieldsSkipsDrivingColumns(t *testing.T) {
	spec := core.TableSpec{Name: "T", SymbolField: "Symbol", FootprintField: "Footprint", DescriptionField: "Description"}
	row := core.RawRow{Columns: []core.Column{
		{Name: "Symbol", Value: core.TextValue("Resistor")},
		{Name: "Footprint", Value: core.TextValue("0603")},
	}}
	fields, sourced := resolveFields(row, spec, nil, map[string]bool{})
	_, hasSymbol := fields["Symbol"]
	_, hasFootprint := fields["Footprint"]
	assert.False(t, hasSymbol)
	assert.False(t, hasFootprint)
	assert.Equal(t, 0, sourced)
}
