package datasource

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

func init() {
	Register(core.KindSqlite, func() DataSource { return &sqliteSource{} })
}

type sqliteSource struct{}

func (s *sqliteSource) Open(ctx context.Context, desc core.ConnectionDescriptor) (*Handle, error) {
	path := desc.SqlitePath
	if path == "" {
		return nil, migrateerr.New(migrateerr.KindConnectionError, "sqlite: no database path extracted from connection string")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "sqlite: open %q", path)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "sqlite: ping %q", path)
	}
	return &Handle{DB: db, Kind: core.KindSqlite}, nil
}

func (s *sqliteSource) QueryTable(ctx context.Context, h *Handle, table core.TableName, userWhere string) (RowIterator, error) {
	query, err := buildQuery(quoteIdentifier, table, userWhere)
	if err != nil {
		return nil, err
	}
	rows, err := h.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindQueryError, err, "sqlite: query table %q", table)
	}
	return newSQLRowIterator(table, rows)
}

func (s *sqliteSource) Close(h *Handle) error { return h.DB.Close() }
