package core

import "fmt"

// ConnectionKind identifies the backend family a connection string targets.
type ConnectionKind string

const (
	KindSqlite    ConnectionKind = "sqlite"
	KindAccess    ConnectionKind = "access"
	KindSqlServer ConnectionKind = "sqlserver"
	KindMySql     ConnectionKind = "mysql"
	KindPostgres  ConnectionKind = "postgres"
	KindUnknown   ConnectionKind = "unknown"
)

// ConnectionDescriptor is the parsed form of a DbLib connection string.
type ConnectionDescriptor struct {
	Kind                 ConnectionKind
	RawConnectionString  string
	SqlitePath           string // only set when Kind == KindSqlite
}

// TableName identifies a source table section.
type TableName string

// TableSpec describes one source table section.
type TableSpec struct {
	Name                 TableName
	Enabled              bool
	KeyField             string
	SymbolField          string
	FootprintField       string
	DescriptionField     string
	UserWhere            string
	DeclaredCustomFields []string
}

// SourceConfig is the immutable result of parsing a DbLib file. Tables
// preserves file declaration order, which §5 requires to be the order
// tables are processed and inserted in.
type SourceConfig struct {
	Connection ConnectionDescriptor
	Tables     []TableSpec
}

// EnabledTables returns the enabled table specs in declaration order.
func (c *SourceConfig) EnabledTables() []TableSpec {
	out := make([]TableSpec, 0, len(c.Tables))
	for _, t := range c.Tables {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks the invariants from §3: at least one enabled table, and
// every referenced field name on an enabled table is non-empty.
func (c *SourceConfig) Validate() error {
	if c.Connection.RawConnectionString == "" {
		return fmt.Errorf("sourceconfig: empty connection string")
	}
	enabled := c.EnabledTables()
	if len(enabled) == 0 {
		return fmt.Errorf("sourceconfig: no enabled tables")
	}
	for _, t := range enabled {
		if t.KeyField == "" {
			return fmt.Errorf("sourceconfig: table %q missing key field", t.Name)
		}
		if t.SymbolField == "" {
			return fmt.Errorf("sourceconfig: table %q missing symbol field", t.Name)
		}
		if t.FootprintField == "" {
			return fmt.Errorf("sourceconfig: table %q missing footprint field", t.Name)
		}
		if t.DescriptionField == "" {
			return fmt.Errorf("sourceconfig: table %q missing description field", t.Name)
		}
	}
	return nil
}

// RawRow is a single unmapped row extracted from a source table.
type RawRow struct {
	Table   TableName
	Columns []Column
}

// Column is one (name, value) pair, preserving the backend's declared
// column order.
type Column struct {
	Name  string
	Value Value
}

// Get returns the value for a column name (case-sensitive, as returned by
// the backend) and whether it was present.
func (r RawRow) Get(name string) (Value, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return Value{}, false
}

// GetString is a convenience wrapper returning the canonical string form,
// or "" if absent.
func (r RawRow) GetString(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	return v.String()
}
