package mapping

import (
	"strings"

	"dblibmigrate/internal/core"
)

// standardFieldMap is the built-in source-column-name -> target-field-name
// map (§4.4.3). Lookups are case-insensitive against the source column
// name.
var standardFieldMap = map[string]string{
	"description":              "Description",
	"value":                    "Value",
	"comment":                  "Description",
	"manufacturer":             "Manufacturer",
	"mfr":                      "Manufacturer",
	"mpn":                      "MPN",
	"part number":              "MPN",
	"manufacturer part number": "MPN",
	"datasheet":                "Datasheet",
	"componentlink1url":        "Link1_URL",
	"supplier":                 "Supplier",
	"spn":                      "SPN",
	"package":                  "Package",
	"voltage":                  "Voltage",
	"current":                  "Current",
	"power":                    "Power",
	"tolerance":                "Tolerance",
	"temperature":              "Temperature",
	"keywords":                 "Keywords",
	"reference":                "Reference",
	"refdes":                   "Reference",
}

// resolveFields implements §4.4.3 and the §9 open-question resolution for
// custom_field_mappings/excluded_fields: custom mappings are applied over
// the built-in map (by source column name), then excluded_fields removes
// entries from the result regardless of where they came from. Manufacturer
// and MPN are additionally combined into a synthetic "Manufacturer_MPN"
// field when both are present and it is not itself excluded.
//
// resolveFields returns the final field map plus a count of fields drawn
// directly from source columns (used as the confidence formula's
// numerator, §4.4.4). Synthetic fields it derives on its own -
// Manufacturer_MPN and an inferred Reference - are added to the returned
// map but excluded from that count, since they don't reflect anything the
// source row actually supplied.
func resolveFields(row core.RawRow, spec core.TableSpec, custom map[string]string, excluded map[string]bool) (map[string]string, int) {
	fields := make(map[string]string)
	driving := map[string]bool{
		strings.ToLower(spec.SymbolField):    true,
		strings.ToLower(spec.FootprintField): true,
	}

	for _, col := range row.Columns {
		lower := strings.ToLower(col.Name)
		if driving[lower] {
			continue
		}
		target, ok := standardFieldMap[lower]
		if !ok {
			continue
		}
		if override, ok := custom[col.Name]; ok {
			target = override
		}
		v := col.Value.String()
		if v == "" {
			continue
		}
		fields[target] = v
	}

	for sourceName, targetName := range custom {
		if col, ok := row.Get(sourceName); ok {
			if v := col.String(); v != "" {
				fields[targetName] = v
			}
		}
	}

	for name := range excluded {
		delete(fields, name)
	}
	sourcedCount := len(fields)

	if mfr, ok := fields["Manufacturer"]; ok {
		if mpn, ok := fields["MPN"]; ok {
			if _, excl := excluded["Manufacturer_MPN"]; !excl {
				fields["Manufacturer_MPN"] = mfr + " " + mpn
			}
		}
	}

	if _, ok := fields["Reference"]; !ok && !excluded["Reference"] {
		fields["Reference"] = inferReference(row.GetString(spec.DescriptionField))
	}

	return fields, sourcedCount
}

// inferReference implements §4.4.3's fallback: resistor->R, capacitor->C,
// inductor->L, else U.
func inferReference(description string) string {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "resistor"):
		return "R"
	case strings.Contains(lower, "capacitor"):
		return "C"
	case strings.Contains(lower, "inductor"):
		return "L"
	default:
		return "U"
	}
}

// sourceFieldCount returns the count used as the denominator of the
// confidence formula's field-coverage term (§4.4.4): every RawRow column
// except the ones driving symbol/footprint resolution themselves, since
// those are scored separately via SymbolStrategy/FootprintStrategy.
func sourceFieldCount(row core.RawRow, spec core.TableSpec) int {
	driving := map[string]bool{
		strings.ToLower(spec.SymbolField):    true,
		strings.ToLower(spec.FootprintField): true,
	}
	n := 0
	for _, col := range row.Columns {
		if driving[strings.ToLower(col.Name)] {
			continue
		}
		n++
	}
	return n
}
