package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFamilyFromSymbol(t *testing.T) {
	cases := map[string]family{
		"Device:R":          familyResistor,
		"Device:C":           familyCapacitor,
		"Device:L":           familyInductor,
		"Device:D":           familyDiode,
		"Device:LED":         familyDiode,
		"Device:Q_NPN_BCE":   familyTransistor,
		"MCU_Generic:MCU":    familyIC,
		"Connector_Generic:Conn_01x02": familyUnknown,
	}
	for symbol, want := range cases {
		assert.Equal(t, want, familyFromSymbol(symbol), symbol)
	}
}

func TestFamilyFromText(t *testing.T) {
	assert.Equal(t, familyResistor, familyFromText("10k resistor"))
	assert.Equal(t, familyTransistor, familyFromText("pnp switching part"))
	assert.Equal(t, familyUnknown, familyFromText("mystery widget"))
}

func TestDetectFamilyPrefersSymbolOverText(t *testing.T) {
	assert.Equal(t, familyCapacitor, detectFamily("Device:C", "inductor choke"))
}
