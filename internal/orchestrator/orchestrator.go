// Package orchestrator drives the pipeline's state machine (§4.8): parse
// config, open the source, extract/map/classify/insert each enabled table
// in turn, build views, optimize, write the target descriptor, and emit
// the report. Mapping within a table is fanned out across a bounded
// worker pool and funnelled back in extractor order; everything else runs
// single-threaded.
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"dblibmigrate/internal/classifier"
	"dblibmigrate/internal/config"
	"dblibmigrate/internal/core"
	"dblibmigrate/internal/datasource"
	"dblibmigrate/internal/extractor"
	"dblibmigrate/internal/mapping"
	mappingcache "dblibmigrate/internal/mapping/cache"
	"dblibmigrate/internal/migrateerr"
	"dblibmigrate/internal/report"
	"dblibmigrate/internal/sourceconfig"
	"dblibmigrate/internal/targetconfig"
	"dblibmigrate/internal/targetstore"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Progress is one progress event (§4.8). While a table is being mapped,
// events go to the Observer no more than once per progressInterval; one
// further event, with Total set, follows when each table is inserted, and
// that completion event is not rate-limited.
type Progress struct {
	Table     core.TableName
	Completed int
	Total     int
	Elapsed   time.Duration
	ETA       time.Duration
}

// Observer receives progress events; implementations must not block the
// caller for long since they run inline on the insertion path.
type Observer interface {
	OnProgress(Progress)
}

// NullObserver discards every event; it is the default when the caller
// supplies none.
type NullObserver struct{}

func (NullObserver) OnProgress(Progress) {}

// progressInterval caps periodic progress events at one per second.
const progressInterval = time.Second

// Result is the orchestrator's final outcome.
type Result struct {
	Status Status
	Report report.Report
	Err    error
}

// Orchestrator wires together one end-to-end migration run.
type Orchestrator struct {
	SourceConfigPath string
	Options          config.Options
	Observer         Observer
	Logger           *logrus.Entry
	Scorer           mapping.Scorer
}

// New builds an Orchestrator with an options struct and source config
// path already resolved by the caller (typically a CLI entrypoint).
func New(sourceConfigPath string, opts config.Options) *Orchestrator {
	return &Orchestrator{
		SourceConfigPath: sourceConfigPath,
		Options:          opts,
		Observer:         NullObserver{},
		Logger:           logrus.NewEntry(logrus.StandardLogger()),
	}
}

// Run drives the full state machine. A fatal error short-circuits to
// Done with a failure report, per §4.8; ctx cancellation at a batch
// boundary terminates the run as Cancelled, rolling back the current
// table's insert and, unless PreservePartialOutputs is set, removing the
// partial target files.
func (o *Orchestrator) Run(ctx context.Context) Result {
	reportBuilder := report.NewBuilder()

	sourceCfg, err := sourceconfig.ParseFile(o.SourceConfigPath)
	if err != nil {
		return o.fail(reportBuilder, err)
	}
	if err := sourceCfg.Validate(); err != nil {
		return o.fail(reportBuilder, migrateerr.Wrap(migrateerr.KindConfigError, err, "source config validation"))
	}

	source, err := datasource.For(sourceCfg.Connection.Kind)
	if err != nil {
		return o.fail(reportBuilder, err)
	}
	handle, err := source.Open(ctx, sourceCfg.Connection)
	if err != nil {
		return o.fail(reportBuilder, migrateerr.Wrap(migrateerr.KindConnectionError, err, "opening source"))
	}
	defer func() { _ = source.Close(handle) }()

	cache, err := o.openCache()
	if err != nil {
		return o.fail(reportBuilder, err)
	}

	dbPath := filepath.Join(o.Options.OutputDirectory, o.Options.DatabaseName)
	builder, err := targetstore.Open(dbPath, targetstore.Options{
		CreateIndexes:  o.Options.CreateIndexes,
		CreateViews:    o.Options.CreateViews,
		VacuumDatabase: o.Options.VacuumDatabase,
	}, o.Logger)
	if err != nil {
		return o.fail(reportBuilder, err)
	}
	defer func() { _ = builder.Close() }()

	if err := builder.CreateSchema(); err != nil {
		return o.cleanupAndFail(dbPath, reportBuilder, err)
	}
	if err := builder.PopulateCategories(); err != nil {
		return o.cleanupAndFail(dbPath, reportBuilder, err)
	}

	engine := o.buildEngine(cache)

	for _, spec := range sourceCfg.EnabledTables() {
		if ctx.Err() != nil {
			return o.cancelled(dbPath, reportBuilder)
		}
		reportBuilder.RegisterTable(spec.Name)
		if err := o.processTable(ctx, source, handle, engine, builder, reportBuilder, spec); err != nil {
			if migrateerr.IsFatal(err) {
				return o.cleanupAndFail(dbPath, reportBuilder, err)
			}
			reportBuilder.RecordTableError(spec.Name, err)
			o.Logger.WithError(err).WithField("table", spec.Name).Warn("table extraction failed, continuing")
			continue
		}
	}
	if ctx.Err() != nil {
		return o.cancelled(dbPath, reportBuilder)
	}

	if err := builder.BuildIndexesAndViews(); err != nil {
		return o.cleanupAndFail(dbPath, reportBuilder, err)
	}
	if err := builder.Optimize(); err != nil {
		return o.cleanupAndFail(dbPath, reportBuilder, err)
	}

	descriptor := targetconfig.Build(o.Options.DblibName, "migrated component library", "sqlite:///"+dbPath)
	descriptorPath := filepath.Join(o.Options.OutputDirectory, o.Options.DblibName)
	if err := targetconfig.Write(descriptorPath, descriptor); err != nil {
		return o.cleanupAndFail(dbPath, reportBuilder, err)
	}

	if o.Options.EnableCaching {
		if flushErr := cache.Flush(); flushErr != nil {
			o.Logger.WithError(flushErr).Warn("failed to persist mapping cache")
		}
	}

	finalReport := reportBuilder.Build()
	reportPath := filepath.Join(o.Options.OutputDirectory, "migration_report.json")
	if err := report.Write(reportPath, finalReport); err != nil {
		return Result{Status: StatusFailed, Report: finalReport, Err: err}
	}

	return Result{Status: StatusDone, Report: finalReport}
}

func (o *Orchestrator) buildEngine(cache *mappingcache.MappingCache) *mapping.Engine {
	opts := []mapping.Option{
		mapping.WithFuzzyThreshold(o.Options.FuzzyThreshold),
		mapping.WithConfidenceThreshold(o.Options.ConfidenceThreshold),
		mapping.WithCustomFieldMappings(o.Options.CustomFieldMappings),
		mapping.WithExcludedFields(o.Options.ExcludedFields),
		mapping.WithValidation(o.Options.ValidateSymbols, o.Options.ValidateFootprints),
		mapping.WithConfidenceWeights(
			o.Options.ConfidenceWeights.Symbol,
			o.Options.ConfidenceWeights.Footprint,
			o.Options.ConfidenceWeights.Fields,
		),
	}
	if o.Scorer != nil {
		opts = append(opts, mapping.WithScorer(o.Scorer))
	}
	return mapping.New(cache, opts...)
}

func (o *Orchestrator) openCache() (*mappingcache.MappingCache, error) {
	if !o.Options.EnableCaching {
		return mappingcache.New(), nil
	}
	path := filepath.Join(o.Options.CacheDirectory, "mapping-cache.json")
	c, err := mappingcache.Open(path)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindFileAccessError, err, "opening mapping cache %q", path)
	}
	return c, nil
}

// mappedRow pairs the store row with the full MappedComponent it was
// derived from, so the report builder can tally the real resolution
// strategies instead of a row-shape guess.
type mappedRow struct {
	row       core.ComponentRow
	component core.MappedComponent
}

// mappedBatch is one extractor batch after every row has been resolved
// and classified, still tagged with its original index so the table loop
// can restore extractor order before handing rows to the builder.
type mappedBatch struct {
	index int
	rows  []mappedRow
}

// processTable runs one table through extract -> map (fan-out/fan-in) ->
// classify -> insert, honoring cancellation at batch boundaries and
// committing the whole table in a single builder transaction.
func (o *Orchestrator) processTable(
	ctx context.Context,
	source datasource.DataSource,
	handle *datasource.Handle,
	engine *mapping.Engine,
	builder *targetstore.Builder,
	reportBuilder *report.Builder,
	spec core.TableSpec,
) error {
	ex := extractor.New(source, handle, o.Options.BatchSize)

	workers := o.Options.MaxWorkerThreads
	if !o.Options.EnableParallelProcessing || workers < 1 {
		workers = 1
	}

	batches := make(chan extractor.Batch, workers*2)
	results := make(chan mappedBatch, workers*2)

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		group.Go(func() error {
			return mapWorker(gctx, batches, results, engine, builder, spec)
		})
	}

	extractErrCh := make(chan error, 1)
	go func() {
		defer close(batches)
		extractErrCh <- ex.ExtractTable(ctx, spec, func(b extractor.Batch) error {
			select {
			case <-ctx.Done():
				return migrateerr.New(migrateerr.KindCancelled, "extraction cancelled for table %q", spec.Name)
			case batches <- b:
				return nil
			}
		})
	}()

	collectDone := make(chan struct{})
	var pending []mappedBatch
	totalRows := 0
	lastEmit := time.Time{}
	start := time.Now()

	go func() {
		defer close(collectDone)
		for mb := range results {
			pending = append(pending, mb)
			totalRows += len(mb.rows)
			if time.Since(lastEmit) >= progressInterval {
				o.Observer.OnProgress(Progress{Table: spec.Name, Completed: totalRows, Elapsed: time.Since(start)})
				lastEmit = time.Now()
			}
		}
	}()

	groupErr := group.Wait()
	close(results)
	<-collectDone

	extractErr := <-extractErrCh

	if groupErr != nil {
		return groupErr
	}
	if extractErr != nil {
		return extractErr
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].index < pending[j].index })

	rows := make([]core.ComponentRow, 0, totalRows)
	for _, mb := range pending {
		for _, mr := range mb.rows {
			rows = append(rows, mr.row)
			reportBuilder.Record(mr.component)
		}
	}

	if err := builder.InsertTableBatch(rows); err != nil {
		return err
	}

	o.Observer.OnProgress(Progress{Table: spec.Name, Completed: totalRows, Total: totalRows, Elapsed: time.Since(start)})
	return nil
}

// mapWorker resolves and classifies every batch it reads from batches,
// sending one mappedBatch per input batch to results, checking for
// cancellation at each batch boundary per §5's suspension-point model.
func mapWorker(
	ctx context.Context,
	batches <-chan extractor.Batch,
	results chan<- mappedBatch,
	engine *mapping.Engine,
	builder *targetstore.Builder,
	spec core.TableSpec,
) error {
	for b := range batches {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		rows := make([]mappedRow, 0, len(b.Rows))
		for _, raw := range b.Rows {
			mapped := engine.Resolve(raw, spec)
			mapped.Category = classifier.Classify(mapped, raw.GetString(spec.DescriptionField))

			cr := core.ComponentRow{
				Symbol:          string(mapped.TargetSymbol),
				Footprint:       string(mapped.TargetFootprint),
				CategoryID:      builder.CategoryID(mapped.Category),
				Confidence:      mapped.Confidence,
				SourceSymbol:    mapped.SourceSymbol,
				SourceFootprint: mapped.SourceFootprint,
				CreatedAt:       time.Now(),
				UpdatedAt:       time.Now(),
			}
			cr.ApplyFields(mapped.Fields)
			rows = append(rows, mappedRow{row: cr, component: mapped})
		}

		select {
		case results <- mappedBatch{index: b.Index, rows: rows}:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func (o *Orchestrator) fail(rb *report.Builder, err error) Result {
	return Result{Status: StatusFailed, Report: rb.Build(), Err: err}
}

// cleanupAndFail removes partial target-store output (unless the caller
// opted to preserve it) before returning a failure result, per §7's
// user-visible failure contract: a report is still emitted on partial runs.
func (o *Orchestrator) cleanupAndFail(dbPath string, rb *report.Builder, err error) Result {
	o.removePartialOutputs(dbPath)
	return o.fail(rb, err)
}

func (o *Orchestrator) cancelled(dbPath string, rb *report.Builder) Result {
	o.removePartialOutputs(dbPath)
	return Result{Status: StatusCancelled, Report: rb.Build(), Err: migrateerr.New(migrateerr.KindCancelled, "run cancelled")}
}

func (o *Orchestrator) removePartialOutputs(dbPath string) {
	if o.Options.PreservePartialOutputs {
		return
	}
	if dbPath == "" || dbPath == ":memory:" {
		return
	}
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		o.Logger.WithError(err).Warn("failed to remove partial target store")
	}
}
