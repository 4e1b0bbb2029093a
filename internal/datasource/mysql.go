package datasource

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

func init() {
	Register(core.KindMySql, func() DataSource { return &mysqlSource{} })
}

type mysqlSource struct{}

func (s *mysqlSource) Open(ctx context.Context, desc core.ConnectionDescriptor) (*Handle, error) {
	dsn, err := mysqlDSN(desc.RawConnectionString)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "mysql: open")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "mysql: ping")
	}
	return &Handle{DB: db, Kind: core.KindMySql}, nil
}

func (s *mysqlSource) QueryTable(ctx context.Context, h *Handle, table core.TableName, userWhere string) (RowIterator, error) {
	quote := func(name string) string { return "`" + strings.ReplaceAll(name, "`", "``") + "`" }
	query, err := buildQuery(quote, table, userWhere)
	if err != nil {
		return nil, err
	}
	rows, err := h.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindQueryError, err, "mysql: query table %q", table)
	}
	return newSQLRowIterator(table, rows)
}

func (s *mysqlSource) Close(h *Handle) error { return h.DB.Close() }

// mysqlDSN accepts either a native go-sql-driver DSN or a DbLib-style
// ODBC connection string and normalizes the latter into the former.
// DbLib strings the exporter never rewrites are passed through unchanged
// assuming they already are go-sql-driver DSNs.
func mysqlDSN(raw string) (string, error) {
	if !strings.Contains(raw, ";") {
		return raw, nil
	}
	fields := map[string]string{}
	for _, part := range strings.Split(raw, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}
	user := fields["uid"]
	pass := fields["pwd"]
	host := fields["server"]
	db := fields["database"]
	if host == "" || db == "" {
		return "", migrateerr.New(migrateerr.KindConnectionError, "mysql: connection string missing Server/Database: %q", raw)
	}
	var b strings.Builder
	if user != "" {
		b.WriteString(user)
		if pass != "" {
			b.WriteString(":")
			b.WriteString(pass)
		}
		b.WriteString("@")
	}
	b.WriteString("tcp(")
	b.WriteString(host)
	b.WriteString(")/")
	b.WriteString(db)
	return b.String(), nil
}
