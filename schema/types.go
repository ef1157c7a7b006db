package schema

import "context"

// Column describes one column of a bound table as reported by the backend.
type Column struct {
	Name       string
	DataType   string
	Nullable   bool
	IsIdentity bool
	IsComputed bool
	Ordinal    int
	// Extra holds any result columns a describe template selects after the
	// standard five, keyed by result column name. Nil when there are none.
	Extra map[string]any
}

// Insertable reports whether values for the column may appear in an INSERT.
func (c Column) Insertable() bool {
	return !c.IsIdentity && !c.IsComputed
}

// TableMeta is the immutable description of a table: its columns in ordinal
// order, a by-name index and the parameterized insert statement derived from
// them. It is built once per table name and shared read-only afterwards.
type TableMeta struct {
	Table           string
	InsertSignature string
	Columns         []Column
	ByName          map[string]Column
}

// Column returns the named column.
func (m *TableMeta) Column(name string) (Column, bool) {
	c, ok := m.ByName[name]
	return c, ok
}

// InsertColumns returns the names of the columns the insert signature binds.
func (m *TableMeta) InsertColumns() []string {
	names := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		if c.Insertable() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Record is one application row keyed by column name. Only keys naming
// insertable columns of the bound table are consumed.
type Record map[string]any

// Describer reads the columns of a table from the database.
type Describer interface {
	DescribeColumns(ctx context.Context, table string) ([]Column, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(ctx context.Context, table string) ([]Column, error)

func (f DescriberFunc) DescribeColumns(ctx context.Context, table string) ([]Column, error) {
	return f(ctx, table)
}

// SignatureFunc derives the insert statement for a table from its columns.
type SignatureFunc func(table string, cols []Column) string

type TableNamer interface {
	TableName() string
}
