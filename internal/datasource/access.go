package datasource

import (
	"context"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

func init() {
	Register(core.KindAccess, func() DataSource { return &accessSource{} })
}

// accessSource represents MS-Access/ODBC. No pure-Go ODBC driver exists in
// this module's dependency set (see DESIGN.md); rather than fabricate a
// stub driver, Open reports DriverMissing so the orchestrator can surface
// the gap honestly instead of silently producing zero rows.
type accessSource struct{}

func (s *accessSource) Open(ctx context.Context, desc core.ConnectionDescriptor) (*Handle, error) {
	return nil, migrateerr.New(migrateerr.KindDriverMissing, "MS-Access/ODBC has no available driver in this build")
}

func (s *accessSource) QueryTable(ctx context.Context, h *Handle, table core.TableName, userWhere string) (RowIterator, error) {
	return nil, migrateerr.New(migrateerr.KindDriverMissing, "MS-Access/ODBC has no available driver in this build")
}

func (s *accessSource) Close(h *Handle) error { return nil }
