package ddl

import "vendoretl/internal/schema"

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., INTEGER, DOUBLE PRECISION, NVARCHAR(MAX))
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name and an ordered list of columns.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// FromColumns builds a nullable TableDef for the given columns, mapping each
// logical kind through mapType.
func FromColumns(table string, cols []schema.Column, mapType func(schema.Kind) string) TableDef {
	defs := make([]ColumnDef, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, ColumnDef{
			Name:     c.Name,
			SQLType:  mapType(c.Kind),
			Nullable: true,
		})
	}
	return TableDef{Name: table, Columns: defs}
}
