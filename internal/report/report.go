// Package report builds the migration report (§4.7): global confidence
// totals, per-table statistics, and threshold-derived recommendations.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

// BandCounts tallies components by confidence band.
type BandCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func (b *BandCounts) add(confidence float64) {
	switch core.Band(confidence) {
	case core.BandHigh:
		b.High++
	case core.BandMedium:
		b.Medium++
	default:
		b.Low++
	}
}

// TableStats is one table's contribution to the report.
type TableStats struct {
	Table              string     `json:"table"`
	ComponentCount     int        `json:"component_count"`
	Bands              BandCounts `json:"confidence_bands"`
	FallbackSymbols    []string   `json:"fallback_symbols"`
	FallbackFootprints []string   `json:"fallback_footprints"`
	Error              string     `json:"error,omitempty"`
}

// Report is the top-level document written to migration_report.json.
type Report struct {
	TotalComponents int                    `json:"total_components"`
	Bands           BandCounts             `json:"confidence_bands"`
	Tables          []TableStats           `json:"tables"`
	Recommendations []string               `json:"recommendations"`
	tableIndex      map[core.TableName]int `json:"-"`
}

// Builder accumulates components as they are inserted and produces the
// final Report on demand.
type Builder struct {
	report Report
	order  []core.TableName
}

func NewBuilder() *Builder {
	return &Builder{report: Report{tableIndex: make(map[core.TableName]int)}}
}

// ensureTable returns the TableStats slot for name, creating an empty one
// (component_count = 0) if this is the first time the table is mentioned.
// Called both by Record and by RegisterTable/RecordTableError so a table
// that contributes zero rows still appears in the report.
func (b *Builder) ensureTable(name core.TableName) *TableStats {
	idx, ok := b.report.tableIndex[name]
	if !ok {
		idx = len(b.report.Tables)
		b.report.tableIndex[name] = idx
		b.report.Tables = append(b.report.Tables, TableStats{Table: string(name)})
		b.order = append(b.order, name)
	}
	return &b.report.Tables[idx]
}

// RegisterTable ensures table has a report entry even if it never
// contributes a row (§8 boundary: an empty table still lists
// component_count = 0).
func (b *Builder) RegisterTable(name core.TableName) {
	b.ensureTable(name)
}

// RecordTableError attaches an error note to table's report entry (§8
// scenario 5: a table that raised QueryError still appears, with zero
// components and an error note), creating the entry if needed.
func (b *Builder) RecordTableError(name core.TableName, err error) {
	ts := b.ensureTable(name)
	if err != nil {
		ts.Error = err.Error()
	}
}

// Record adds one mapped component's contribution to its table's stats
// and the global totals.
func (b *Builder) Record(component core.MappedComponent) {
	b.report.TotalComponents++
	b.report.Bands.add(component.Confidence)

	ts := b.ensureTable(component.SourceTable)
	ts.ComponentCount++
	ts.Bands.add(component.Confidence)
	if component.SymbolStrategy == core.StrategyFallback {
		ts.FallbackSymbols = append(ts.FallbackSymbols, component.SourceSymbol)
	}
	if component.FootprintStrategy == core.StrategyFallback {
		ts.FallbackFootprints = append(ts.FallbackFootprints, component.SourceFootprint)
	}
}

// lowConfidenceReviewThreshold and fallbackRecommendationThreshold are
// the fixed thresholds §4.7's example recommendations are derived from.
const (
	lowConfidenceReviewThreshold  = 1
	fallbackRecommendationThreshold = 1
)

// Build finalizes the report, appending threshold-derived
// recommendations, and returns it. Tables are sorted by name for
// deterministic output regardless of map iteration order upstream.
func (b *Builder) Build() Report {
	sort.Slice(b.report.Tables, func(i, j int) bool { return b.report.Tables[i].Table < b.report.Tables[j].Table })

	r := b.report
	if r.Bands.Low >= lowConfidenceReviewThreshold {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf("review %d low-confidence mapping(s)", r.Bands.Low))
	}
	fallbackFootprints := 0
	fallbackSymbols := 0
	for _, t := range r.Tables {
		fallbackFootprints += len(t.FallbackFootprints)
		fallbackSymbols += len(t.FallbackSymbols)
	}
	if fallbackFootprints >= fallbackRecommendationThreshold {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf("%d footprint(s) resolved via fallback", fallbackFootprints))
	}
	if fallbackSymbols >= fallbackRecommendationThreshold {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf("%d symbol(s) resolved via fallback", fallbackSymbols))
	}
	return r
}

// Write serializes a report as indented JSON to path.
func Write(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return migrateerr.Wrap(migrateerr.KindConfigError, err, "report: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return migrateerr.Wrap(migrateerr.KindFileAccessError, err, "report: write %q", path)
	}
	return nil
}
