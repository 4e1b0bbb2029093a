package mapping

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"dblibmigrate/internal/core"
)

// exactSymbolTable is the built-in direct lookup for symbol resolution
// strategy 1 (§4.4.1). Keys are matched case-insensitively against the
// source symbol field.
var exactSymbolTable = map[string]string{
	"resistor":     "Device:R",
	"capacitor":    "Device:C",
	"inductor":     "Device:L",
	"diode":        "Device:D",
	"led":          "Device:LED",
	"npn":          "Device:Q_NPN_BCE",
	"crystal":      "Device:Crystal",
	"oscillator":   "Device:Oscillator",
	"fuse":         "Device:Fuse",
	"connector":    "Connector_Generic:Conn_01x02",
	"switch":       "Switch:SW_SPST",
}

// symbolCatalog is consulted by the fuzzy strategy (§4.4.1 item 2).
var symbolCatalog = []string{
	"Device:R", "Device:C", "Device:L", "Device:D", "Device:LED",
	"Device:Crystal", "Device:Oscillator", "Device:Fuse",
	"Device:Q_NPN_BCE", "Device:Q_PNP_BCE", "Device:Q_NMOS_GSD", "Device:Q_PMOS_GSD",
	"Amplifier_Operational:LM358", "MCU_Generic:MCU",
	"Connector_Generic:Conn_01x02", "Switch:SW_SPST",
}

// semanticSymbolRules are scanned, in order, over the lowercased
// concatenation of Description/Value/Comment (§4.4.1 item 3). Every rule
// with at least one matching keyword is scored; the highest confidence
// wins, ties going to the lexicographically smaller target.
var semanticSymbolRules = []struct {
	keywords []string
	target   string
	base     float64
}{
	{[]string{"pnp"}, "Device:Q_PNP_BCE", 0.6},
	{[]string{"npn"}, "Device:Q_NPN_BCE", 0.6},
	{[]string{"mosfet", "nmos"}, "Device:Q_NMOS_GSD", 0.6},
	{[]string{"pmos"}, "Device:Q_PMOS_GSD", 0.6},
	{[]string{"transistor"}, "Device:Q_NPN_BCE", 0.5},
	{[]string{"resistor"}, "Device:R", 0.6},
	{[]string{"capacitor", "cap"}, "Device:C", 0.6},
	{[]string{"inductor", "choke"}, "Device:L", 0.6},
	{[]string{"diode"}, "Device:D", 0.6},
	{[]string{"led"}, "Device:LED", 0.6},
	{[]string{"crystal"}, "Device:Crystal", 0.6},
	{[]string{"oscillator"}, "Device:Oscillator", 0.6},
	{[]string{"microcontroller", "mcu"}, "MCU_Generic:MCU", 0.55},
	{[]string{"operational amplifier", "op-amp", "opamp"}, "Amplifier_Operational:LM358", 0.55},
}

// packageSizeRe is the stable, ordered alternation from §9: package-size
// regex union, "first match wins".
var packageSizeRe = regexp.MustCompile(`(?i)0201|0402|0603|0805|1206|1210|1812|2010|2512|SOD-\d+|SOT-\d+|TO-\d+|(?:TSSOP|SSOP|LQFP|TQFP|QFN|BGA)-?\d*`)

// pinCountRe extracts a pin count written as a number followed by
// pin(s)/lead(s), like "8-pin" or "3 leads"; package names such as
// "SOIC-8" are not matched.
var pinCountRe = regexp.MustCompile(`(?i)(\d+)[\s-]?(?:pin|pins|lead|leads)\b`)

type symbolResult struct {
	target     core.LibraryQualifiedName
	confidence float64
	strategy   core.Strategy
	rationale  string
}

// resolveSymbol applies the ordered strategies from §4.4.1.
func resolveSymbol(opts ruleOptions, sourceSymbol, description, value, comment, pkg string) symbolResult {
	if target, ok := exactSymbolTable[strings.ToLower(strings.TrimSpace(sourceSymbol))]; ok {
		return symbolResult{
			target:     core.LibraryQualifiedName(target),
			confidence: 1.0,
			strategy:   core.StrategyExact,
			rationale:  fmt.Sprintf("exact match for source symbol %q", sourceSymbol),
		}
	}

	if sourceSymbol != "" {
		if candidate, ratio := bestFuzzyMatch(sourceSymbol, symbolCatalog); ratio >= opts.fuzzyThreshold {
			return symbolResult{
				target:     core.LibraryQualifiedName(candidate),
				confidence: ratio,
				strategy:   core.StrategyFuzzy,
				rationale:  fmt.Sprintf("fuzzy match %q ~ %q (ratio %.2f)", sourceSymbol, candidate, ratio),
			}
		}
	}

	text := strings.ToLower(strings.Join([]string{description, value, comment}, " "))
	if r, ok := bestSemanticMatch(text); ok {
		return r
	}

	if r, ok := patternSymbol(pkg, description, comment); ok {
		return r
	}

	if opts.scorer != nil {
		if label, prob, ok := opts.scorer.Score(sourceSymbol, description); ok && prob > opts.confidenceThreshold {
			return symbolResult{
				target:     core.LibraryQualifiedName(label),
				confidence: prob,
				strategy:   core.StrategyML,
				rationale:  fmt.Sprintf("ML scorer predicted %q (p=%.2f)", label, prob),
			}
		}
	}

	return fallbackSymbol(description, comment)
}

func bestSemanticMatch(text string) (symbolResult, bool) {
	var best *symbolResult
	var bestScore float64
	for _, rule := range semanticSymbolRules {
		matched := 0
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		confidence := core.Clamp01(rule.base * float64(matched) / float64(len(rule.keywords)))
		if best == nil || confidence > bestScore || (confidence == bestScore && rule.target < string(best.target)) {
			r := symbolResult{
				target:     core.LibraryQualifiedName(rule.target),
				confidence: confidence,
				strategy:   core.StrategySemantic,
				rationale:  fmt.Sprintf("semantic rule matched %d/%d keyword(s) for %q", matched, len(rule.keywords), rule.target),
			}
			best = &r
			bestScore = confidence
		}
	}
	if best == nil {
		return symbolResult{}, false
	}
	return *best, true
}

// patternSymbol implements §4.4.1 item 4: package-string heuristics, then
// pin-count heuristics.
func patternSymbol(pkg, description, comment string) (symbolResult, bool) {
	token := strings.ToUpper(packageSizeRe.FindString(pkg))
	if token == "" {
		token = strings.ToUpper(packageSizeRe.FindString(description))
	}
	if strings.HasPrefix(token, "SOT-") {
		return symbolResult{
			target: "Device:Q_NMOS_GSD", confidence: 0.7, strategy: core.StrategyPattern,
			rationale: fmt.Sprintf("package token %q implies a small-signal transistor", token),
		}, true
	}

	text := description + " " + comment + " " + pkg
	if m := pinCountRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			switch {
			case n <= 3:
				return symbolResult{target: "Device:Q_NMOS_GSD", confidence: 0.6, strategy: core.StrategyPattern, rationale: fmt.Sprintf("%d-pin count suggests a transistor", n)}, true
			case n <= 8:
				return symbolResult{target: "Amplifier_Operational:LM358", confidence: 0.55, strategy: core.StrategyPattern, rationale: fmt.Sprintf("%d-pin count suggests a small analog IC", n)}, true
			case n <= 20:
				return symbolResult{target: "MCU_Generic:MCU", confidence: 0.5, strategy: core.StrategyPattern, rationale: fmt.Sprintf("%d-pin count suggests a small MCU", n)}, true
			default:
				return symbolResult{target: "MCU_Generic:MCU_BGA", confidence: 0.45, strategy: core.StrategyPattern, rationale: fmt.Sprintf("%d-pin count suggests a BGA-class MCU", n)}, true
			}
		}
	}
	return symbolResult{}, false
}

func fallbackSymbol(description, comment string) symbolResult {
	f := familyFromText(description + " " + comment)
	target := "Device:R"
	switch f {
	case familyCapacitor:
		target = "Device:C"
	case familyInductor:
		target = "Device:L"
	case familyDiode:
		target = "Device:D"
	case familyTransistor:
		target = "Device:Q_NPN_BCE"
	case familyIC:
		target = "MCU_Generic:MCU"
	}
	return symbolResult{
		target: core.LibraryQualifiedName(target), confidence: 0.3,
		strategy: core.StrategyFallback, rationale: "no stronger strategy resolved a symbol; generic fallback used",
	}
}

// sortedExactSymbolKeys returns the exact-match table's keys in sorted
// order, for deterministic iteration over the table.
func sortedExactSymbolKeys() []string {
	keys := make([]string, 0, len(exactSymbolTable))
	for k := range exactSymbolTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
