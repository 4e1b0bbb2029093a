package targetstore

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"dblibmigrate/internal/core"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := Open(":memory:", DefaultOptions(), logrus.NewEntry(logrus.New()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.CreateSchema())
	require.NoError(t, b.PopulateCategories())
	return b
}

func TestPopulateCategoriesAssignsAllIds(t *testing.T) {
	b := newTestBuilder(t)
	for _, cat := range core.AllCategories() {
		assertPositiveID(t, b.CategoryID(cat))
	}
}

func assertPositiveID(t *testing.T, id int64) {
	t.Helper()
	require.Greater(t, id, int64(0))
}

func TestInsertTableBatchAndIndexesAndViews(t *testing.T) {
	b := newTestBuilder(t)
	row := core.ComponentRow{
		Symbol: "Device:R", Footprint: "Resistor_SMD:R_0603_1608Metric",
		Reference: "R", Value: "10k", Description: "10k resistor",
		CategoryID: b.CategoryID(core.CategoryResistors), Confidence: 0.95,
		SourceSymbol: "Resistor", SourceFootprint: "0603", CreatedAt: time.Now(),
	}
	require.NoError(t, b.InsertTableBatch([]core.ComponentRow{row}))
	require.NoError(t, b.BuildIndexesAndViews())
	require.NoError(t, b.Optimize())

	var count int
	require.NoError(t, b.db.QueryRow(`SELECT COUNT(*) FROM resistors`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestInsertTableBatchEmptyIsNoop(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.InsertTableBatch(nil))
}

func TestCategoryIDFallsBackToUncategorized(t *testing.T) {
	b := newTestBuilder(t)
	assertPositiveID(t, b.CategoryID(core.Category("not-a-real-category")))
}
