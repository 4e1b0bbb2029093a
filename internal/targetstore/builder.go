package targetstore

import (
	"database/sql"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

// Options configures the post-build steps, all independently skippable
// per §6's configuration file table.
type Options struct {
	CreateIndexes  bool
	CreateViews    bool
	VacuumDatabase bool
}

// DefaultOptions mirrors the documented defaults: every post-build step
// runs unless explicitly disabled.
func DefaultOptions() Options {
	return Options{CreateIndexes: true, CreateViews: true, VacuumDatabase: true}
}

// Builder drives the single-writer target store lifecycle described in
// §4.6: DROP+CREATE schema, populate categories, insert components table
// by table (one transaction per source table), build indexes and views,
// then optimize.
type Builder struct {
	db          *sql.DB
	opts        Options
	categoryIDs map[core.Category]int64
	logger      *logrus.Entry
}

// Open creates (overwriting) a sqlite file at path and opens it as the
// target store.
func Open(path string, opts Options, logger *logrus.Entry) (*Builder, error) {
	if path != ":memory:" {
		_ = os.Remove(path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindConnectionError, err, "targetstore: open %q", path)
	}
	db.SetMaxOpenConns(1)
	return &Builder{db: db, opts: opts, categoryIDs: make(map[core.Category]int64), logger: logger}, nil
}

func (b *Builder) Close() error { return b.db.Close() }

// CreateSchema drops (if present) and creates the categories and
// components tables.
func (b *Builder) CreateSchema() error {
	for _, stmt := range []string{`DROP TABLE IF EXISTS components`, `DROP TABLE IF EXISTS categories`, createCategoriesTable, createComponentsTable} {
		if _, err := b.db.Exec(stmt); err != nil {
			return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: create schema")
		}
	}
	return nil
}

// PopulateCategories inserts the fixed taxonomy in declared order,
// recording the id each category name was assigned.
func (b *Builder) PopulateCategories() error {
	tx, err := b.db.Begin()
	if err != nil {
		return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: begin categories transaction")
	}
	stmt, err := tx.Prepare(`INSERT INTO categories (name, description) VALUES (?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: prepare category insert")
	}
	for _, cat := range core.AllCategories() {
		res, err := stmt.Exec(string(cat), "")
		if err != nil {
			_ = tx.Rollback()
			return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: insert category %q", cat)
		}
		id, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: read category id for %q", cat)
		}
		b.categoryIDs[cat] = id
	}
	if err := tx.Commit(); err != nil {
		return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: commit categories")
	}
	return nil
}

const insertComponentSQL = `INSERT INTO components
	(symbol, footprint, reference, value, description, keywords, manufacturer, mpn,
	 datasheet, supplier, spn, package, voltage, current, power, tolerance, temperature,
	 category_id, confidence, source_symbol, source_footprint,
	 exclude_from_board, exclude_from_bom, created_at, updated_at)
	VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// InsertTableBatch inserts a table's already-classified, re-sequenced rows
// inside a single transaction, so a failure mid-table never leaves a
// partially-committed table; §5 requires the transaction boundary to be
// per source table, never mid-table, so the orchestrator calls this once
// per table with the complete, order-restored row set.
func (b *Builder) InsertTableBatch(rows []core.ComponentRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := b.db.Begin()
	if err != nil {
		return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: begin insert transaction")
	}
	stmt, err := tx.Prepare(insertComponentSQL)
	if err != nil {
		_ = tx.Rollback()
		return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: prepare component insert")
	}
	for _, r := range rows {
		if _, err := stmt.Exec(
			r.Symbol, r.Footprint, r.Reference, r.Value, r.Description, r.Keywords,
			r.Manufacturer, r.MPN, r.Datasheet, r.Supplier, r.SPN, r.Package,
			r.Voltage, r.Current, r.Power, r.Tolerance, r.Temperature,
			r.CategoryID, r.Confidence, r.SourceSymbol, r.SourceFootprint,
			r.ExcludeFromBoard, r.ExcludeFromBOM, formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
		); err != nil {
			_ = tx.Rollback()
			return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: insert component %q", r.Symbol)
		}
	}
	if err := tx.Commit(); err != nil {
		return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: commit component batch")
	}
	return nil
}

// CategoryID looks up the id assigned to a category during
// PopulateCategories, falling back to Uncategorized.
func (b *Builder) CategoryID(cat core.Category) int64 {
	if id, ok := b.categoryIDs[cat]; ok {
		return id
	}
	return b.categoryIDs[core.CategoryUncategorized]
}

// BuildIndexesAndViews runs §4.6 item 4, each skippable per Options.
func (b *Builder) BuildIndexesAndViews() error {
	if b.opts.CreateIndexes {
		for _, stmt := range createIndexes {
			if _, err := b.db.Exec(stmt); err != nil {
				return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: create index")
			}
		}
	}
	if b.opts.CreateViews {
		for _, v := range viewDefinitions {
			if _, err := b.db.Exec(v.createStatement()); err != nil {
				return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: create view %q", v.name)
			}
		}
	}
	return nil
}

// Optimize runs §4.6 item 5: ANALYZE, pragmas for WAL and a larger cache,
// and an optional VACUUM.
func (b *Builder) Optimize() error {
	for _, stmt := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA cache_size=-20000`,
		`ANALYZE`,
	} {
		if _, err := b.db.Exec(stmt); err != nil {
			return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: optimize (%s)", stmt)
		}
	}
	if b.opts.VacuumDatabase {
		if _, err := b.db.Exec(`VACUUM`); err != nil {
			return migrateerr.Wrap(migrateerr.KindQueryError, err, "targetstore: vacuum")
		}
	}
	if b.logger != nil {
		b.logger.Debug("target store optimize complete")
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
