// Package config loads the optional migration-options file (§6) and
// resolves it against the documented defaults. The file format, decoder,
// and open/parse structure mirror the teacher's TOML schema parser.
package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"dblibmigrate/internal/migrateerr"
)

// ConfidenceWeights are the three aggregation weights from §4.4.4; they
// must sum to <= 1.0.
type ConfidenceWeights struct {
	Symbol float64 `toml:"symbol"`
	Footprint float64 `toml:"footprint"`
	Fields  float64 `toml:"fields"`
}

// tomlOptions is the top-level [migration] document shape.
type tomlOptions struct {
	Migration migrationSection `toml:"migration"`
}

type migrationSection struct {
	OutputDirectory        string            `toml:"output_directory"`
	DatabaseName           string            `toml:"database_name"`
	DblibName              string            `toml:"dblib_name"`
	EnableParallelProcessing *bool           `toml:"enable_parallel_processing"`
	MaxWorkerThreads       int               `toml:"max_worker_threads"`
	BatchSize              int               `toml:"batch_size"`
	EnableCaching          *bool             `toml:"enable_caching"`
	CacheDirectory         string            `toml:"cache_directory"`
	FuzzyThreshold         float64           `toml:"fuzzy_threshold"`
	ConfidenceThreshold    float64           `toml:"confidence_threshold"`
	ValidateSymbols        bool              `toml:"validate_symbols"`
	ValidateFootprints     bool              `toml:"validate_footprints"`
	CreateViews            *bool             `toml:"create_views"`
	VacuumDatabase         *bool             `toml:"vacuum_database"`
	CreateIndexes          *bool             `toml:"create_indexes"`
	CustomFieldMappings    map[string]string `toml:"custom_field_mappings"`
	ExcludedFields         []string          `toml:"excluded_fields"`
	ConfidenceWeights      *ConfidenceWeights `toml:"confidence_weights"`
	PreservePartialOutputs *bool             `toml:"preserve_partial_outputs"`
}

// Options is the fully resolved, validated configuration the orchestrator
// consumes; every field that was absent from the file carries its
// documented default.
type Options struct {
	OutputDirectory          string
	DatabaseName             string
	DblibName                string
	EnableParallelProcessing bool
	MaxWorkerThreads         int
	BatchSize                int
	EnableCaching            bool
	CacheDirectory           string
	FuzzyThreshold           float64
	ConfidenceThreshold      float64
	ValidateSymbols          bool
	ValidateFootprints       bool
	CreateViews              bool
	VacuumDatabase           bool
	CreateIndexes            bool
	CustomFieldMappings      map[string]string
	ExcludedFields           []string
	ConfidenceWeights        ConfidenceWeights
	PreservePartialOutputs   bool
}

// Defaults returns the documented defaults (§6), used when no
// configuration file is given.
func Defaults() Options {
	return Options{
		OutputDirectory:          ".",
		DatabaseName:             "components.db",
		DblibName:                "components.kicad_dbl",
		EnableParallelProcessing: true,
		MaxWorkerThreads:         4,
		BatchSize:                1000,
		EnableCaching:            true,
		CacheDirectory:           ".mapping-cache",
		FuzzyThreshold:           0.6,
		ConfidenceThreshold:      0.7,
		ValidateSymbols:          false,
		ValidateFootprints:       false,
		CreateViews:              true,
		VacuumDatabase:           true,
		CreateIndexes:            true,
		CustomFieldMappings:      map[string]string{},
		ExcludedFields:           nil,
		ConfidenceWeights:        ConfidenceWeights{Symbol: 0.4, Footprint: 0.4, Fields: 0.2},
	}
}

// Load reads and validates an options file at path, starting from
// Defaults and overlaying whatever the file specifies.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, migrateerr.Wrap(migrateerr.KindConfigError, err, "config: open %q", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a TOML options document from r.
func Parse(r io.Reader) (Options, error) {
	var doc tomlOptions
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return Options{}, migrateerr.Wrap(migrateerr.KindConfigError, err, "config: decode")
	}
	opts := Defaults()
	applyOverrides(&opts, doc.Migration)
	if err := Validate(opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func applyOverrides(opts *Options, m migrationSection) {
	if m.OutputDirectory != "" {
		opts.OutputDirectory = m.OutputDirectory
	}
	if m.DatabaseName != "" {
		opts.DatabaseName = m.DatabaseName
	}
	if m.DblibName != "" {
		opts.DblibName = m.DblibName
	}
	if m.EnableParallelProcessing != nil {
		opts.EnableParallelProcessing = *m.EnableParallelProcessing
	}
	if m.MaxWorkerThreads > 0 {
		opts.MaxWorkerThreads = m.MaxWorkerThreads
	}
	if m.BatchSize > 0 {
		opts.BatchSize = m.BatchSize
	}
	if m.EnableCaching != nil {
		opts.EnableCaching = *m.EnableCaching
	}
	if m.CacheDirectory != "" {
		opts.CacheDirectory = m.CacheDirectory
	}
	if m.FuzzyThreshold > 0 {
		opts.FuzzyThreshold = m.FuzzyThreshold
	}
	if m.ConfidenceThreshold > 0 {
		opts.ConfidenceThreshold = m.ConfidenceThreshold
	}
	opts.ValidateSymbols = m.ValidateSymbols
	opts.ValidateFootprints = m.ValidateFootprints
	if m.CreateViews != nil {
		opts.CreateViews = *m.CreateViews
	}
	if m.VacuumDatabase != nil {
		opts.VacuumDatabase = *m.VacuumDatabase
	}
	if m.CreateIndexes != nil {
		opts.CreateIndexes = *m.CreateIndexes
	}
	if m.CustomFieldMappings != nil {
		opts.CustomFieldMappings = m.CustomFieldMappings
	}
	if m.ExcludedFields != nil {
		opts.ExcludedFields = m.ExcludedFields
	}
	if m.ConfidenceWeights != nil {
		opts.ConfidenceWeights = *m.ConfidenceWeights
	}
	if m.PreservePartialOutputs != nil {
		opts.PreservePartialOutputs = *m.PreservePartialOutputs
	}
}

// Validate enforces §4.4.4's weight-sum invariant and basic sanity
// bounds on the numeric options.
func Validate(o Options) error {
	sum := o.ConfidenceWeights.Symbol + o.ConfidenceWeights.Footprint + o.ConfidenceWeights.Fields
	if sum > 1.0+1e-9 {
		return migrateerr.New(migrateerr.KindConfigError, "config: confidence_weights sum to %.3f, must be <= 1.0", sum)
	}
	if o.FuzzyThreshold < 0 || o.FuzzyThreshold > 1 {
		return migrateerr.New(migrateerr.KindConfigError, "config: fuzzy_threshold %.3f out of [0,1]", o.FuzzyThreshold)
	}
	if o.ConfidenceThreshold < 0 || o.ConfidenceThreshold > 1 {
		return migrateerr.New(migrateerr.KindConfigError, "config: confidence_threshold %.3f out of [0,1]", o.ConfidenceThreshold)
	}
	if o.BatchSize <= 0 {
		return migrateerr.New(migrateerr.KindConfigError, "config: batch_size must be positive, got %d", o.BatchSize)
	}
	if o.MaxWorkerThreads <= 0 {
		return migrateerr.New(migrateerr.KindConfigError, "config: max_worker_threads must be positive, got %d", o.MaxWorkerThreads)
	}
	return nil
}
