package mapping

import "strings"

// family is the coarse component family used to cross-reference the
// symbol and footprint resolvers (§4.4.2).
type family string

const (
	familyResistor    family = "resistor"
	familyCapacitor   family = "capacitor"
	familyInductor    family = "inductor"
	familyDiode       family = "diode"
	familyTransistor  family = "transistor"
	familyIC          family = "ic"
	familyUnknown     family = "unknown"
)

// familyKeywords is scanned, in order, over lowercased text to guess a
// component family when no stronger signal (an already-resolved symbol)
// is available.
var familyKeywords = []struct {
	keywords []string
	family   family
}{
	{[]string{"resistor"}, familyResistor},
	{[]string{"capacitor", "cap "}, familyCapacitor},
	{[]string{"inductor", "choke"}, familyInductor},
	{[]string{"diode", "led"}, familyDiode},
	{[]string{"transistor", "mosfet", "fet", "npn", "pnp"}, familyTransistor},
	{[]string{"microcontroller", "processor", "ic ", "integrated circuit"}, familyIC},
}

// familyFromText scans text for the first matching family keyword set.
func familyFromText(text string) family {
	lower := strings.ToLower(text)
	for _, fk := range familyKeywords {
		for _, kw := range fk.keywords {
			if strings.Contains(lower, kw) {
				return fk.family
			}
		}
	}
	return familyUnknown
}

// familyFromSymbol infers a family from an already-resolved target symbol
// identifier, e.g. "Device:Q_PNP_BCE" -> transistor.
func familyFromSymbol(symbol string) family {
	lower := strings.ToLower(symbol)
	name := lower
	if idx := strings.Index(lower, ":"); idx >= 0 {
		name = lower[idx+1:]
	}

	switch {
	case strings.HasSuffix(name, "_bce"), strings.Contains(name, "mosfet"), strings.HasPrefix(name, "q_"):
		return familyTransistor
	case name == "r" || strings.HasPrefix(name, "r_"):
		return familyResistor
	case name == "c" || strings.HasPrefix(name, "c_"):
		return familyCapacitor
	case name == "l" || strings.HasPrefix(name, "l_"):
		return familyInductor
	case name == "d" || strings.HasPrefix(name, "d_"), strings.Contains(name, "led"):
		return familyDiode
	case strings.Contains(name, "mcu"), strings.Contains(name, "amplifier"):
		return familyIC
	}
	return familyUnknown
}

// detectFamily combines the symbol-derived family (authoritative when
// available) with a text scan fallback over description/value/comment.
func detectFamily(resolvedSymbol string, text string) family {
	if f := familyFromSymbol(resolvedSymbol); f != familyUnknown {
		return f
	}
	return familyFromText(text)
}
