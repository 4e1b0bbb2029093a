package core

import "time"

// CategoryRow mirrors the categories table row (§3).
type CategoryRow struct {
	ID          int64
	Name        string
	Description string
	ParentID    *int64
}

// ComponentRow mirrors one row of the components table (§3). Column names
// here match the target schema column names exactly.
type ComponentRow struct {
	ID                int64
	Symbol            string
	Footprint         string
	Reference         string
	Value             string
	Description       string
	Keywords          string
	Manufacturer      string
	MPN               string
	Datasheet         string
	Supplier          string
	SPN               string
	Package           string
	Voltage           string
	Current           string
	Power             string
	Tolerance         string
	Temperature       string
	CategoryID        int64
	Confidence        float64
	SourceSymbol      string
	SourceFootprint   string
	ExcludeFromBoard  bool
	ExcludeFromBOM    bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// standardFieldColumns are the free-form field names that map directly onto a
// ComponentRow column, beyond the ones always derived (Symbol, Footprint,
// Category, Confidence, SourceSymbol, SourceFootprint).
var standardFieldColumns = map[string]func(*ComponentRow, string){
	"Reference":     func(r *ComponentRow, v string) { r.Reference = v },
	"Value":         func(r *ComponentRow, v string) { r.Value = v },
	"Description":   func(r *ComponentRow, v string) { r.Description = v },
	"Keywords":      func(r *ComponentRow, v string) { r.Keywords = v },
	"Manufacturer":  func(r *ComponentRow, v string) { r.Manufacturer = v },
	"MPN":           func(r *ComponentRow, v string) { r.MPN = v },
	"Datasheet":     func(r *ComponentRow, v string) { r.Datasheet = v },
	"Supplier":      func(r *ComponentRow, v string) { r.Supplier = v },
	"SPN":           func(r *ComponentRow, v string) { r.SPN = v },
	"Package":       func(r *ComponentRow, v string) { r.Package = v },
	"Voltage":       func(r *ComponentRow, v string) { r.Voltage = v },
	"Current":       func(r *ComponentRow, v string) { r.Current = v },
	"Power":         func(r *ComponentRow, v string) { r.Power = v },
	"Tolerance":     func(r *ComponentRow, v string) { r.Tolerance = v },
	"Temperature":   func(r *ComponentRow, v string) { r.Temperature = v },
}

// ApplyFields copies any field in m that corresponds to a standard column
// onto the row; fields with no matching column (such as Manufacturer_MPN
// or Link1_URL) are not stored.
func (r *ComponentRow) ApplyFields(fields map[string]string) {
	for name, value := range fields {
		if setter, ok := standardFieldColumns[name]; ok {
			setter(r, value)
		}
	}
}

// DerivedView names one of the six fixed category views (§3/§6).
type DerivedView string

const (
	ViewResistors           DerivedView = "resistors"
	ViewCapacitors          DerivedView = "capacitors"
	ViewInductors           DerivedView = "inductors"
	ViewIntegratedCircuits  DerivedView = "integrated_circuits"
	ViewDiodes              DerivedView = "diodes"
	ViewTransistors         DerivedView = "transistors"
)

// AllDerivedViews lists all six views in the order the schema is expected
// to create them.
func AllDerivedViews() []DerivedView {
	return []DerivedView{
		ViewResistors, ViewCapacitors, ViewInductors,
		ViewIntegratedCircuits, ViewDiodes, ViewTransistors,
	}
}
