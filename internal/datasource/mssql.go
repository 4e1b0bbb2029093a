package datasource

import (
	"context"
	"database/sql"

	_ "github.com/denisenkom/go-mssqldb"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

func init() {
	Register(core.KindSqlServer, func() DataSource { return &mssqlSource{} })
}

type mssqlSource struct{}

func (s *mssqlSource) Open(ctx context.Context, desc core.ConnectionDescriptor) (*Handle, error) {
	db, err := sql.Open("sqlserver", desc.RawConnectionString)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "mssql: open")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "mssql: ping")
	}
	return &Handle{DB: db, Kind: core.KindSqlServer}, nil
}

func (s *mssqlSource) QueryTable(ctx context.Context, h *Handle, table core.TableName, userWhere string) (RowIterator, error) {
	quote := func(name string) string { return "[" + name + "]" }
	query, err := buildQuery(quote, table, userWhere)
	if err != nil {
		return nil, err
	}
	rows, err := h.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindQueryError, err, "mssql: query table %q", table)
	}
	return newSQLRowIterator(table, rows)
}

func (s *mssqlSource) Close(h *Handle) error { return h.DB.Close() }
