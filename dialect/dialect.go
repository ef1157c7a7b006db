package dialect

// Dialect holds the SQL that differs between backends, such as identifier
// quoting and the column describe query.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string
	// DescribeColumns returns a query yielding one row per column of table,
	// in ordinal order, with the shape
	// (name, data_type, is_nullable, is_identity, is_computed).
	DescribeColumns(table string) (string, []any)
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (Dialect, bool) {
	switch name {
	case "postgres", "postgresql", "pgx":
		return NewPostgresDialect(), true
	case "mysql":
		return NewMySQLDialect(), true
	case "tidb":
		return NewTiDBDialect(), true
	case "mssql", "sqlserver":
		return NewMSSQLDialect(), true
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), true
	}
	return nil, false
}
