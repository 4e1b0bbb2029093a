package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLcsRatioIdenticalStrings(t *testing.T) {
	assert.Equal(t, 1.0, lcsRatio("Device:R", "device:r"))
}

func TestLcsRatioEmptyStrings(t *testing.T) {
	assert.Equal(t, 1.0, lcsRatio("", ""))
	assert.Equal(t, 0.0, lcsRatio("", "x"))
}

func TestSymbolVariantsStripsSeparators(t *testing.T) {
	variants := symbolVariants("R_0603-1")
	assert.Contains(t, variants, "R_0603-1")
	assert.Contains(t, variants, "R0603-1")
	assert.Contains(t, variants, "R_06031")
}

func TestBestFuzzyMatchPicksHighestRatio(t *testing.T) {
	catalog := []string{"Device:R", "Device:C", "Device:L"}
	candidate, ratio := bestFuzzyMatch("Resistorr", catalog)
	assert.Equal(t, "Device:R", candidate)
	assert.Greater(t, ratio, 0.0)
}
