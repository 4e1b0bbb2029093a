package datasource

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

func seedSqliteFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.sqlite3")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE Resistors (ID INTEGER PRIMARY KEY, Symbol TEXT, Footprint TEXT, Description TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO Resistors (Symbol, Footprint, Description) VALUES ('Resistor', '0603', '10k Ohm Resistor')`)
	require.NoError(t, err)
	return path
}

func TestSqliteQueryTableRoundTrip(t *testing.T) {
	path := seedSqliteFixture(t)

	src, err := For(core.KindSqlite)
	require.NoError(t, err)

	h, err := src.Open(context.Background(), core.ConnectionDescriptor{Kind: core.KindSqlite, SqlitePath: path})
	require.NoError(t, err)
	defer src.Close(h)

	it, err := src.QueryTable(context.Background(), h, "Resistors", "")
	require.NoError(t, err)
	defer it.Close()

	row, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Resistor", row.GetString("Symbol"))

	_, ok, err = it.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestForUnregisteredKindIsDriverMissing(t *testing.T) {
	_, err := For(core.ConnectionKind("carrier-pigeon"))
	require.Error(t, err)
	me, ok := err.(*migrateerr.Error)
	require.True(t, ok)
	require.Equal(t, migrateerr.KindDriverMissing, me.Kind)
}

func TestAccessReturnsDriverMissing(t *testing.T) {
	src, err := For(core.KindAccess)
	require.NoError(t, err)
	_, err = src.Open(context.Background(), core.ConnectionDescriptor{Kind: core.KindAccess})
	require.Error(t, err)
	me, ok := err.(*migrateerr.Error)
	require.True(t, ok)
	require.Equal(t, migrateerr.KindDriverMissing, me.Kind)
}

func TestRejectsMultiStatementUserWhere(t *testing.T) {
	_, err := buildQuery(quoteIdentifier, "Resistors", "1=1; DROP TABLE Resistors")
	require.Error(t, err)
}
