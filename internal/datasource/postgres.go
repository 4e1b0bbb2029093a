package datasource

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

func init() {
	Register(core.KindPostgres, func() DataSource { return &postgresSource{} })
}

type postgresSource struct{}

func (s *postgresSource) Open(ctx context.Context, desc core.ConnectionDescriptor) (*Handle, error) {
	db, err := sql.Open("postgres", desc.RawConnectionString)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "postgres: open")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "postgres: ping")
	}
	return &Handle{DB: db, Kind: core.KindPostgres}, nil
}

func (s *postgresSource) QueryTable(ctx context.Context, h *Handle, table core.TableName, userWhere string) (RowIterator, error) {
	query, err := buildQuery(quoteIdentifier, table, userWhere)
	if err != nil {
		return nil, err
	}
	rows, err := h.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindQueryError, err, "postgres: query table %q", table)
	}
	return newSQLRowIterator(table, rows)
}

func (s *postgresSource) Close(h *Handle) error { return h.DB.Close() }
