// Package targetstore builds the destination relational store (§3, §4.6):
// it creates the categories/components schema, populates both tables
// in declaration/extraction order, builds the six derived category
// views, and runs a post-build optimize pass.
package targetstore

const createCategoriesTable = `
CREATE TABLE categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	parent_id INTEGER REFERENCES categories(id)
)`

const createComponentsTable = `
CREATE TABLE components (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	footprint TEXT NOT NULL,
	reference TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	keywords TEXT NOT NULL DEFAULT '',
	manufacturer TEXT NOT NULL DEFAULT '',
	mpn TEXT NOT NULL DEFAULT '',
	datasheet TEXT NOT NULL DEFAULT '',
	supplier TEXT NOT NULL DEFAULT '',
	spn TEXT NOT NULL DEFAULT '',
	package TEXT NOT NULL DEFAULT '',
	voltage TEXT NOT NULL DEFAULT '',
	current TEXT NOT NULL DEFAULT '',
	power TEXT NOT NULL DEFAULT '',
	tolerance TEXT NOT NULL DEFAULT '',
	temperature TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL REFERENCES categories(id),
	confidence REAL NOT NULL,
	source_symbol TEXT NOT NULL DEFAULT '',
	source_footprint TEXT NOT NULL DEFAULT '',
	exclude_from_board INTEGER NOT NULL DEFAULT 0,
	exclude_from_bom INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

var createIndexes = []string{
	`CREATE INDEX idx_components_symbol ON components(symbol)`,
	`CREATE INDEX idx_components_footprint ON components(footprint)`,
	`CREATE INDEX idx_components_mpn ON components(mpn)`,
	`CREATE INDEX idx_components_manufacturer ON components(manufacturer)`,
	`CREATE INDEX idx_components_category_id ON components(category_id)`,
	`CREATE INDEX idx_components_reference ON components(reference)`,
	`CREATE INDEX idx_components_manufacturer_mpn ON components(manufacturer, mpn)`,
	`CREATE INDEX idx_components_category_confidence ON components(category_id, confidence)`,
}

// viewDefinition names one of the six derived views and the column
// predicate fragments that are OR-composed into its WHERE clause (§6).
type viewDefinition struct {
	name        string
	description []string
	symbolMarks []string
	keywords    []string
}

var viewDefinitions = []viewDefinition{
	{"resistors", []string{"resistor"}, []string{":R"}, []string{"resistor"}},
	{"capacitors", []string{"capacitor"}, []string{":C"}, []string{"capacitor"}},
	{"inductors", []string{"inductor"}, []string{":L"}, []string{"inductor"}},
	{"integrated_circuits", []string{"ic", "microcontroller", "processor"}, []string{":U"}, nil},
	{"diodes", []string{"diode"}, []string{":D"}, []string{"diode"}},
	{"transistors", []string{"transistor", "mosfet", "fet"}, []string{":Q"}, nil},
}

func (v viewDefinition) createStatement() string {
	var clauses []string
	for _, d := range v.description {
		clauses = append(clauses, "LOWER(description) LIKE '%"+d+"%'")
	}
	for _, s := range v.symbolMarks {
		clauses = append(clauses, "symbol LIKE '%"+s+"%'")
	}
	for _, k := range v.keywords {
		clauses = append(clauses, "LOWER(keywords) LIKE '%"+k+"%'")
	}
	where := clauses[0]
	for _, c := range clauses[1:] {
		where += " OR " + c
	}
	return "CREATE VIEW " + v.name + " AS SELECT * FROM components WHERE " + where
}
