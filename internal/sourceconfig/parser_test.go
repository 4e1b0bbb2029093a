package sourceconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dblibmigrate/internal/core"
)

const basicDbLib = `
; sample dblib file
[DatabaseLinks]
ConnectionString=DRIVER=SQLite3 ODBC Driver;Database=./parts.sqlite3;LongNames=0;

[Table1]
TableName=Resistors
Enabled=1
Key=ID
Symbols=Symbol
Footprints=Footprint
Description=Description
Field1Name=Manufacturer
Field2Name=Manufacturer Part Number

[Table2]
TableName=Disabled
Enabled=0
Key=ID
Symbols=Symbol
Footprints=Footprint
Description=Description
`

func TestParseBasic(t *testing.T) {
	sc, err := Parse([]byte(basicDbLib))
	require.NoError(t, err)

	assert.Equal(t, core.KindSqlite, sc.Connection.Kind)
	assert.Equal(t, "./parts.sqlite3", sc.Connection.SqlitePath)

	enabled := sc.EnabledTables()
	require.Len(t, enabled, 1)
	assert.Equal(t, core.TableName("Resistors"), enabled[0].Name)
	assert.ElementsMatch(t, []string{"Manufacturer", "Manufacturer Part Number"}, enabled[0].DeclaredCustomFields)

	require.NoError(t, sc.Validate())
}

func TestParseMissingDatabaseLinks(t *testing.T) {
	_, err := Parse([]byte("[Table1]\nTableName=X\n"))
	assert.Error(t, err)
}

func TestParseEmptyConnectionString(t *testing.T) {
	_, err := Parse([]byte("[DatabaseLinks]\nConnectionString=\n"))
	assert.Error(t, err)
}

func TestConnectionKindDetectionOrder(t *testing.T) {
	cases := []struct {
		name string
		conn string
		want core.ConnectionKind
	}{
		{"access mdb", "Provider=Microsoft.ACE.OLEDB.12.0;Data Source=parts.mdb;", core.KindAccess},
		{"sqlserver", "Driver={SQL Server};Server=.;Database=parts;", core.KindSqlServer},
		{"mysql", "Server=localhost;Database=parts;Driver={MySQL ODBC 8.0}", core.KindMySql},
		{"postgres", "Host=localhost;Database=parts;Driver={PostgreSQL}", core.KindPostgres},
		{"unknown", "Driver={Generic};Database=parts;", core.KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := "[DatabaseLinks]\nConnectionString=" + tc.conn + "\n"
			sc, err := Parse([]byte(content))
			require.NoError(t, err)
			assert.Equal(t, tc.want, sc.Connection.Kind)
		})
	}
}

func TestSqliteMissingDatabasePathFails(t *testing.T) {
	_, err := Parse([]byte("[DatabaseLinks]\nConnectionString=Driver=SQLite3;\n"))
	assert.Error(t, err)
}
