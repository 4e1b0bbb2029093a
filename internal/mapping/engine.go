// Package mapping implements the MappingEngine (§4.4): resolving a source
// row's symbol and footprint columns to library-qualified target
// identifiers, copying over auxiliary fields, classifying a component
// family, and aggregating a single confidence score, one row at a time.
package mapping

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"dblibmigrate/internal/core"
)

// Scorer is the pluggable ML-based auxiliary strategy (§4.4.1 item 5,
// Purpose & Scope). The built-in Engine never ships a trained model; a
// caller wires a concrete Scorer in when one is available. The zero value
// of Engine leaves this nil, which disables the ML strategy entirely and
// falls through to the fixed fallback.
type Scorer interface {
	// Score proposes a library-qualified symbol name and a probability in
	// [0,1] for the given raw symbol/description text. ok is false when the
	// scorer declines to propose anything (e.g. out-of-vocabulary input).
	Score(sourceSymbol, description string) (label string, probability float64, ok bool)
}

// ruleOptions configures the per-row resolution thresholds (§6, §9).
type ruleOptions struct {
	fuzzyThreshold      float64
	confidenceThreshold float64
	scorer              Scorer
	customFieldMappings map[string]string
	excludedFields      map[string]bool
	validateSymbols     bool
	validateFootprints   bool
	symbolWeight        float64
	footprintWeight     float64
	fieldsWeight        float64
}

// Option configures an Engine at construction time.
type Option func(*ruleOptions)

func WithFuzzyThreshold(t float64) Option {
	return func(o *ruleOptions) { o.fuzzyThreshold = t }
}

// WithConfidenceThreshold sets the single unified threshold used to gate
// ML-strategy activation (§9 resolution (c)); it does not affect the fixed
// high/medium/low report bands.
func WithConfidenceThreshold(t float64) Option {
	return func(o *ruleOptions) { o.confidenceThreshold = t }
}

func WithScorer(s Scorer) Option {
	return func(o *ruleOptions) { o.scorer = s }
}

func WithCustomFieldMappings(m map[string]string) Option {
	return func(o *ruleOptions) { o.customFieldMappings = m }
}

// WithConfidenceWeights overrides the default 0.4/0.4/0.2 aggregation
// weights (§4.4.4); the caller is responsible for keeping them summing to
// <= 1.0 (config.Validate enforces this on the options file's values).
func WithConfidenceWeights(symbol, footprint, fields float64) Option {
	return func(o *ruleOptions) {
		o.symbolWeight, o.footprintWeight, o.fieldsWeight = symbol, footprint, fields
	}
}

func WithExcludedFields(fields []string) Option {
	return func(o *ruleOptions) {
		for _, f := range fields {
			o.excludedFields[f] = true
		}
	}
}

// WithValidation enables the validate_symbols/validate_footprints options
// (§9 resolution (b)): an invalid resolved symbol or footprint is replaced
// by the corresponding strategy's fallback value and RecoveryUsed is set,
// but the numeric confidence is left exactly as the normal strategy chain
// computed it.
func WithValidation(symbols, footprints bool) Option {
	return func(o *ruleOptions) { o.validateSymbols = symbols; o.validateFootprints = footprints }
}

// Cache is satisfied by internal/mapping/cache.MappingCache; kept as a
// narrow interface here so this package does not need to import it only to
// accept one.
type Cache interface {
	Get(key string) (core.MappedComponent, bool)
	Put(key string, component core.MappedComponent)
}

// Engine resolves RawRows into MappedComponents.
type Engine struct {
	opts  ruleOptions
	cache Cache
}

// New builds an Engine with the fixed defaults from §6 (fuzzy threshold
// 0.6, confidence threshold 0.7), overridden by any options given.
func New(cache Cache, opts ...Option) *Engine {
	o := ruleOptions{
		fuzzyThreshold:      0.6,
		confidenceThreshold: 0.7,
		excludedFields:      map[string]bool{},
		customFieldMappings: map[string]string{},
		symbolWeight:        0.4,
		footprintWeight:     0.4,
		fieldsWeight:        0.2,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{opts: o, cache: cache}
}

// cacheKey is a SHA-256 content hash over a row's source table and its
// full column map (column names sorted, values in canonical string form);
// two rows with identical column content in the same table always resolve
// to the same MappedComponent, which is the idempotence invariant the
// cache relies on (§4.4.5).
func cacheKey(row core.RawRow, spec core.TableSpec) string {
	cols := append([]core.Column(nil), row.Columns...)
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	h := sha256.New()
	h.Write([]byte(spec.Name))
	h.Write([]byte{0})
	for _, col := range cols {
		h.Write([]byte(col.Name))
		h.Write([]byte{0})
		h.Write([]byte(col.Value.String()))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Resolve maps one RawRow to a MappedComponent, consulting the cache first
// when one is configured.
func (e *Engine) Resolve(row core.RawRow, spec core.TableSpec) core.MappedComponent {
	key := cacheKey(row, spec)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return cached
		}
	}

	sourceSymbol := row.GetString(spec.SymbolField)
	sourceFootprint := row.GetString(spec.FootprintField)
	description := row.GetString(spec.DescriptionField)
	value := row.GetString("Value")
	comment := row.GetString("Comment")
	pkg := row.GetString("Package")

	symRes := resolveSymbol(e.opts, sourceSymbol, description, value, comment, pkg)
	recoveryUsed := false
	if e.opts.validateSymbols && !validSymbol(symRes.target) {
		symRes = fallbackSymbol(description, comment)
		recoveryUsed = true
	}

	fam := detectFamily(string(symRes.target), description+" "+value+" "+comment)
	footRes := resolveFootprint(e.opts, sourceFootprint, pkg, fam)
	if e.opts.validateFootprints && !validFootprint(footRes.target) {
		footRes = footprintResult{
			target: "Package_TO_SOT_SMD:SOT-23", confidence: 0.2,
			strategy: core.StrategyFallback, rationale: "invalid resolved footprint replaced by fallback",
		}
		recoveryUsed = true
	}

	fields, sourcedFieldCount := resolveFields(row, spec, e.opts.customFieldMappings, e.opts.excludedFields)

	confidence := aggregateConfidence(e.opts, symRes.confidence, footRes.confidence, sourcedFieldCount, sourceFieldCount(row, spec))

	component := core.MappedComponent{
		SourceSymbol:       sourceSymbol,
		SourceFootprint:    sourceFootprint,
		TargetSymbol:       symRes.target,
		TargetFootprint:    footRes.target,
		Fields:             fields,
		Confidence:         confidence,
		SymbolStrategy:     symRes.strategy,
		FootprintStrategy:  footRes.strategy,
		SymbolRationale:    symRes.rationale,
		FootprintRationale: footRes.rationale,
		RecoveryUsed:       recoveryUsed,
		SourceTable:        spec.Name,
	}

	if e.cache != nil {
		e.cache.Put(key, component)
	}
	return component
}

// aggregateConfidence implements §4.4.4's weighting (0.4 symbol + 0.4
// footprint + 0.2 field coverage by default, overridable via
// WithConfidenceWeights), clamped to [0,1]. mappedFields counts only
// fields that survived resolveFields (i.e. excluded_fields already
// removed); sourceFields is the row's non-driving column count.
func aggregateConfidence(o ruleOptions, symbolConfidence, footprintConfidence float64, mappedFields, sourceFields int) float64 {
	var coverage float64
	if sourceFields > 0 {
		coverage = float64(mappedFields) / float64(sourceFields)
	}
	return core.Clamp01(o.symbolWeight*symbolConfidence + o.footprintWeight*footprintConfidence + o.fieldsWeight*coverage)
}

func validSymbol(s core.LibraryQualifiedName) bool {
	return strings.Contains(string(s), ":")
}

func validFootprint(s core.LibraryQualifiedName) bool {
	return strings.Contains(string(s), ":")
}
