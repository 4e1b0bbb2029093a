// Package extractor drives a DataSource table-by-table, producing batches
// of RawRow per enabled table (§4.3). Ordering within a table is preserved;
// rows failing the validity filter (every recognized field empty) are
// dropped before they ever reach a batch.
package extractor

import (
	"context"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/datasource"
	"dblibmigrate/internal/migrateerr"
)

const DefaultBatchSize = 1000

// Batch is a contiguous, ordered slice of RawRows from one table, tagged
// with a monotonically increasing index so the builder can re-sequence
// batches returned out of order by the mapping worker pool (§4.8).
type Batch struct {
	Table core.TableName
	Index int
	Rows  []core.RawRow
}

// Extractor streams batches for one table at a time.
type Extractor struct {
	source    datasource.DataSource
	handle    *datasource.Handle
	batchSize int
}

func New(source datasource.DataSource, handle *datasource.Handle, batchSize int) *Extractor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Extractor{source: source, handle: handle, batchSize: batchSize}
}

// ExtractTable streams all validity-filtered rows of one table into
// ordered batches, invoking emit for each. A QueryError for this table
// propagates to the caller; the orchestrator decides whether to continue
// with the next table (§4.2/§7).
func (e *Extractor) ExtractTable(ctx context.Context, spec core.TableSpec, emit func(Batch) error) error {
	it, err := e.source.QueryTable(ctx, e.handle, spec.Name, spec.UserWhere)
	if err != nil {
		return err
	}
	defer it.Close()

	batchIndex := 0
	current := make([]core.RawRow, 0, e.batchSize)
	flush := func() error {
		if len(current) == 0 {
			return nil
		}
		b := Batch{Table: spec.Name, Index: batchIndex, Rows: current}
		batchIndex++
		current = make([]core.RawRow, 0, e.batchSize)
		return emit(b)
	}

	for {
		if ctx.Err() != nil {
			return migrateerr.Wrap(migrateerr.KindCancelled, ctx.Err(), "extraction cancelled for table %q", spec.Name)
		}
		row, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !passesValidityFilter(row, spec) {
			continue
		}
		current = append(current, row)
		if len(current) >= e.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// passesValidityFilter implements §4.3: at least one of Symbol or
// Description must be non-empty after trim.
func passesValidityFilter(row core.RawRow, spec core.TableSpec) bool {
	symbol := row.GetString(spec.SymbolField)
	description := row.GetString(spec.DescriptionField)
	return symbol != "" || description != ""
}
