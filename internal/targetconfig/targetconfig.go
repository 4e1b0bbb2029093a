// Package targetconfig writes the target configuration descriptor (§6):
// a structured file describing the target store's connection and the
// library definitions a downstream EDA tool loads components from.
package targetconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

// Meta is the fixed descriptor version block.
type Meta struct {
	Version string `json:"version"`
}

// Source describes how to reach the target store.
type Source struct {
	Type             string `json:"type"`
	ConnectionString string `json:"connection_string"`
}

// FieldDefinition mirrors §6's field descriptor shape.
type FieldDefinition struct {
	Column           string `json:"column"`
	Name             string `json:"name"`
	VisibleOnAdd     bool   `json:"visible_on_add"`
	VisibleInChooser bool   `json:"visible_in_chooser"`
	ShowName         bool   `json:"show_name"`
}

// Library is one entry of the libraries[] array: either a derived view or
// the catch-all "All Components" table.
type Library struct {
	Name      string            `json:"name"`
	Table     string            `json:"table"`
	Key       string            `json:"key"`
	Symbols   string            `json:"symbols"`
	Footprints string           `json:"footprints"`
	Fields    []FieldDefinition `json:"fields"`
}

// Descriptor is the full target configuration document.
type Descriptor struct {
	Meta        Meta      `json:"meta"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Source      Source    `json:"source"`
	Libraries   []Library `json:"libraries"`
}

var standardFields = []FieldDefinition{
	{Column: "value", Name: "Value", VisibleOnAdd: true, VisibleInChooser: true, ShowName: true},
	{Column: "manufacturer", Name: "Manufacturer", VisibleOnAdd: true, VisibleInChooser: true, ShowName: true},
	{Column: "mpn", Name: "MPN", VisibleOnAdd: true, VisibleInChooser: true, ShowName: true},
	{Column: "datasheet", Name: "Datasheet", VisibleOnAdd: false, VisibleInChooser: true, ShowName: true},
	{Column: "supplier", Name: "Supplier", VisibleOnAdd: false, VisibleInChooser: false, ShowName: true},
}

// familyFields extends the standard set with family-specific columns (§6).
var familyFields = map[core.DerivedView][]FieldDefinition{
	core.ViewResistors: {
		{Column: "tolerance", Name: "Tolerance", VisibleOnAdd: true, VisibleInChooser: true, ShowName: true},
		{Column: "power", Name: "Power", VisibleOnAdd: true, VisibleInChooser: false, ShowName: true},
	},
	core.ViewCapacitors: {
		{Column: "voltage", Name: "Voltage", VisibleOnAdd: true, VisibleInChooser: true, ShowName: true},
	},
	core.ViewDiodes: {
		{Column: "voltage", Name: "Voltage", VisibleOnAdd: true, VisibleInChooser: true, ShowName: true},
	},
}

// Build assembles the descriptor for a migration run. connectionString
// points at the target store's driver+path (e.g. "sqlite:///path/to/components.db").
func Build(name, description, connectionString string) Descriptor {
	libraries := []Library{{
		Name: "All Components", Table: "components", Key: "id",
		Symbols: "symbol", Footprints: "footprint", Fields: standardFields,
	}}
	for _, view := range core.AllDerivedViews() {
		fields := append([]FieldDefinition{}, standardFields...)
		fields = append(fields, familyFields[view]...)
		libraries = append(libraries, Library{
			Name: string(view), Table: string(view), Key: "id",
			Symbols: "symbol", Footprints: "footprint", Fields: fields,
		})
	}
	return Descriptor{
		Meta:        Meta{Version: "1.0"},
		Name:        name,
		Description: description,
		Source:      Source{Type: "odbc", ConnectionString: connectionString},
		Libraries:   libraries,
	}
}

// Write serializes the descriptor as indented JSON to path.
func Write(path string, d Descriptor) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return migrateerr.Wrap(migrateerr.KindConfigError, err, "targetconfig: marshal descriptor")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return migrateerr.Wrap(migrateerr.KindFileAccessError, err, "targetconfig: create output directory %q", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return migrateerr.Wrap(migrateerr.KindFileAccessError, err, "targetconfig: write %q", path)
	}
	return nil
}
