package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

// sqlRowIterator adapts a *sql.Rows into the RowIterator contract, common
// to every database/sql-backed backend: column order and value coercion
// work identically regardless of driver.
type sqlRowIterator struct {
	table core.TableName
	rows  *sql.Rows
	cols  []string
}

func newSQLRowIterator(table core.TableName, rows *sql.Rows) (*sqlRowIterator, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, migrateerr.Wrap(migrateerr.KindQueryError, err, "reading columns for table %q", table)
	}
	return &sqlRowIterator{table: table, rows: rows, cols: cols}, nil
}

func (it *sqlRowIterator) Next(ctx context.Context) (core.RawRow, bool, error) {
	if ctx.Err() != nil {
		return core.RawRow{}, false, migrateerr.Wrap(migrateerr.KindCancelled, ctx.Err(), "query cancelled for table %q", it.table)
	}
	if !it.rows.Next() {
		if err := it.rows.Err(); err != nil {
			return core.RawRow{}, false, migrateerr.Wrap(migrateerr.KindQueryError, err, "iterating table %q", it.table)
		}
		return core.RawRow{}, false, nil
	}

	raw := make([]any, len(it.cols))
	ptrs := make([]any, len(it.cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := it.rows.Scan(ptrs...); err != nil {
		return core.RawRow{}, false, migrateerr.Wrap(migrateerr.KindQueryError, err, "scanning row in table %q", it.table)
	}

	row := core.RawRow{Table: it.table, Columns: make([]core.Column, len(it.cols))}
	for i, name := range it.cols {
		row.Columns[i] = core.Column{Name: name, Value: coerce(raw[i])}
	}
	return row, true, nil
}

func (it *sqlRowIterator) Close() error { return it.rows.Close() }

// coerce maps a database/sql scanned value onto core.Value, preserving
// nulls and treating []byte columns as Blob (§4.2).
func coerce(v any) core.Value {
	switch x := v.(type) {
	case nil:
		return core.NullValue()
	case int64:
		return core.IntValue(x)
	case float64:
		return core.RealValue(x)
	case bool:
		if x {
			return core.IntValue(1)
		}
		return core.IntValue(0)
	case []byte:
		return core.BlobValue(x)
	case string:
		return core.TextValue(x)
	default:
		return core.TextValue(fmt.Sprintf("%v", x))
	}
}
