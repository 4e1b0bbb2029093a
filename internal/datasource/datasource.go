// Package datasource implements the capability abstraction over relational
// backends (§4.2): open a connection, stream rows from a table, close.
// Backends register themselves against a core.ConnectionKind the same way
// the teacher codebase registers per-dialect generators.
package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

// Handle encapsulates backend-specific connection state.
type Handle struct {
	DB   *sql.DB
	Kind core.ConnectionKind
}

// DataSource is the capability interface every backend implements.
type DataSource interface {
	Open(ctx context.Context, desc core.ConnectionDescriptor) (*Handle, error)
	QueryTable(ctx context.Context, h *Handle, table core.TableName, userWhere string) (RowIterator, error)
	Close(h *Handle) error
}

// RowIterator streams RawRows from a single table query.
type RowIterator interface {
	Next(ctx context.Context) (core.RawRow, bool, error)
	Close() error
}

var (
	mu       sync.RWMutex
	registry = map[core.ConnectionKind]func() DataSource{}
)

// Register installs a backend constructor for a connection kind.
func Register(kind core.ConnectionKind, ctor func() DataSource) {
	mu.Lock()
	defer mu.Unlock()
	registry[kind] = ctor
}

// For returns a fresh DataSource for the given connection kind, or a
// DriverMissing error (§4.2) if no backend is registered for it.
func For(kind core.ConnectionKind) (DataSource, error) {
	mu.RLock()
	ctor, ok := registry[kind]
	mu.RUnlock()
	if !ok {
		return nil, migrateerr.New(migrateerr.KindDriverMissing, "no backend registered for connection kind %q", kind)
	}
	return ctor(), nil
}

// quoteIdentifier applies ANSI double-quote identifier quoting, the
// native quoting style used by the sqlite and postgres backends; the
// MySQL and SQL Server backends use backtick and bracket quoting instead.
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// buildQuery constructs "SELECT * FROM "<table>" [WHERE <user_where>]"
// per §4.2. user_where is passed through verbatim (trusted input); the
// only injection mitigation in scope is refusing multi-statement queries.
func buildQuery(quote func(string) string, table core.TableName, userWhere string) (string, error) {
	if err := rejectMultiStatement(userWhere); err != nil {
		return "", err
	}
	q := fmt.Sprintf("SELECT * FROM %s", quote(string(table)))
	if userWhere != "" {
		q += " WHERE " + userWhere
	}
	return q, nil
}

func rejectMultiStatement(userWhere string) error {
	for _, r := range userWhere {
		if r == ';' {
			return migrateerr.New(migrateerr.KindQueryError, "user_where must not contain multiple statements")
		}
	}
	return nil
}
