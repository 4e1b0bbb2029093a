package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dblibmigrate/internal/core"
)

func TestClassifyMatchesOnDescription(t *testing.T) {
	c := core.MappedComponent{TargetSymbol: "Device:Q_PNP_BCE"}
	assert.Equal(t, core.CategoryTransistors, Classify(c, "general purpose pnp transistor"))
}

func TestClassifyMatchesOnKeywordsField(t *testing.T) {
	c := core.MappedComponent{TargetSymbol: "Device:X", Fields: map[string]string{"Keywords": "eeprom memory chip"}}
	assert.Equal(t, core.CategoryMemory, Classify(c, "unmarked part"))
}

func TestClassifyMatchesOnTargetSymbolWhenTextIsAmbiguous(t *testing.T) {
	c := core.MappedComponent{TargetSymbol: "Device:Crystal"}
	assert.Equal(t, core.CategoryCrystalsOscillators, Classify(c, ""))
}

func TestClassifyFallsBackToUncategorized(t *testing.T) {
	c := core.MappedComponent{TargetSymbol: "Unknown:Thing"}
	assert.Equal(t, core.CategoryUncategorized, Classify(c, "totally unrecognizable widget"))
}

func TestClassifyPrefersEarlierRuleOnOverlap(t *testing.T) {
	c := core.MappedComponent{TargetSymbol: "Device:D"}
	assert.Equal(t, core.CategoryDiodes, Classify(c, "rectifier diode for switching mosfet gate drive"))
}
