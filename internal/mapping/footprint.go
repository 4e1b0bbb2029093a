package mapping

import (
	"fmt"
	"strings"

	"dblibmigrate/internal/core"
)

// exactFootprintTable mirrors exactSymbolTable for footprint resolution.
var exactFootprintTable = map[string]string{
	"dip-8":    "Package_DIP:DIP-8_W7.62mm",
	"dip-14":   "Package_DIP:DIP-14_W7.62mm",
	"dip-16":   "Package_DIP:DIP-16_W7.62mm",
	"to-92":    "Package_TO_SOT_THT:TO-92_Inline",
	"sot-23":   "Package_TO_SOT_SMD:SOT-23",
	"sot-223":  "Package_TO_SOT_SMD:SOT-223-3_TabPin2",
}

// footprintCatalog backs the fuzzy footprint strategy.
var footprintCatalog = []string{
	"Package_DIP:DIP-8_W7.62mm", "Package_DIP:DIP-14_W7.62mm", "Package_DIP:DIP-16_W7.62mm",
	"Package_TO_SOT_THT:TO-92_Inline", "Package_TO_SOT_SMD:SOT-23", "Package_TO_SOT_SMD:SOT-223-3_TabPin2",
	"Resistor_SMD:R_0402_1005Metric", "Resistor_SMD:R_0603_1608Metric", "Resistor_SMD:R_0805_2012Metric",
	"Capacitor_SMD:C_0402_1005Metric", "Capacitor_SMD:C_0603_1608Metric", "Capacitor_SMD:C_0805_2012Metric",
	"Package_SO:TSSOP-8_3x3mm_P0.65mm", "Package_QFP:LQFP-32_7x7mm_P0.8mm", "Package_BGA:BGA-64_8x8mm",
}

// chipSizeToMetric crosses an imperial chip-size package token (as found in
// a Package/Footprint source column) with the corresponding IPC metric
// footprint name suffix (§9).
var chipSizeToMetric = map[string]string{
	"0201": "0603Metric",
	"0402": "1005Metric",
	"0603": "1608Metric",
	"0805": "2012Metric",
	"1206": "3216Metric",
	"1210": "3225Metric",
	"1812": "4532Metric",
	"2010": "5025Metric",
	"2512": "6332Metric",
}

type footprintResult struct {
	target     core.LibraryQualifiedName
	confidence float64
	strategy   core.Strategy
	rationale  string
}

// resolveFootprint first looks the source footprint up in the exact
// package table (confidence 0.9), then crosses a chip-size token with the
// component family, then falls back through fuzzy, type-inference and a
// fixed fallback footprint (§4.4.2).
func resolveFootprint(opts ruleOptions, sourceFootprint, pkg string, fam family) footprintResult {
	key := strings.ToLower(strings.TrimSpace(sourceFootprint))
	if target, ok := exactFootprintTable[key]; ok {
		return footprintResult{
			target: core.LibraryQualifiedName(target), confidence: 0.9,
			strategy: core.StrategyExact, rationale: fmt.Sprintf("exact match for source footprint %q", sourceFootprint),
		}
	}

	if token := chipSizeToken(sourceFootprint, pkg); token != "" {
		if suffix, ok := chipSizeToMetric[token]; ok {
			lib, prefix := "Resistor_SMD", "R"
			switch fam {
			case familyCapacitor:
				lib, prefix = "Capacitor_SMD", "C"
			case familyInductor:
				lib, prefix = "Inductor_SMD", "L"
			case familyDiode:
				lib, prefix = "Diode_SMD", "D"
			}
			target := fmt.Sprintf("%s:%s_%s_%s", lib, prefix, token, suffix)
			return footprintResult{
				target: core.LibraryQualifiedName(target), confidence: 0.9,
				strategy: core.StrategyPattern,
				rationale: fmt.Sprintf("chip-size token %q crossed with family %q", token, fam),
			}
		}
	}

	if sourceFootprint != "" {
		if candidate, ratio := bestFuzzyMatch(sourceFootprint, footprintCatalog); ratio >= opts.fuzzyThreshold {
			return footprintResult{
				target: core.LibraryQualifiedName(candidate), confidence: ratio,
				strategy: core.StrategyFuzzy,
				rationale: fmt.Sprintf("fuzzy match %q ~ %q (ratio %.2f)", sourceFootprint, candidate, ratio),
			}
		}
	}

	if target, ok := typeInferenceFootprint(fam); ok {
		return footprintResult{
			target: core.LibraryQualifiedName(target), confidence: 0.6,
			strategy: core.StrategySemantic,
			rationale: fmt.Sprintf("family %q implies a typical footprint", fam),
		}
	}

	return footprintResult{
		target: "Package_TO_SOT_SMD:SOT-23", confidence: 0.2,
		strategy: core.StrategyFallback, rationale: "no stronger strategy resolved a footprint; generic fallback used",
	}
}

func chipSizeToken(sourceFootprint, pkg string) string {
	for _, text := range []string{sourceFootprint, pkg} {
		if t := packageSizeRe.FindString(text); t != "" {
			if _, ok := chipSizeToMetric[t]; ok {
				return t
			}
		}
	}
	return ""
}

func typeInferenceFootprint(fam family) (string, bool) {
	switch fam {
	case familyResistor:
		return "Resistor_SMD:R_0603_1608Metric", true
	case familyCapacitor:
		return "Capacitor_SMD:C_0603_1608Metric", true
	case familyInductor:
		return "Inductor_SMD:L_0603_1608Metric", true
	case familyDiode:
		return "Diode_SMD:D_0603_1608Metric", true
	case familyTransistor:
		return "Package_TO_SOT_SMD:SOT-23", true
	case familyIC:
		return "Package_SO:TSSOP-8_3x3mm_P0.65mm", true
	}
	return "", false
}
