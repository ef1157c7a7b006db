package dialect

import "strings"

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (s SQLite) Name() string {
	return "sqlite"
}

func (s SQLite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s SQLite) Placeholder(n int) string {
	return "?"
}

// An INTEGER PRIMARY KEY aliases the rowid and is treated as identity.
// hidden is 2 for VIRTUAL and 3 for STORED generated columns.
const sqliteDescribe = `
SELECT
	x.name,
	x.type,
	CASE WHEN x."notnull" = 0 AND x.pk = 0 THEN 1 ELSE 0 END,
	CASE WHEN x.pk = 1 AND upper(x.type) = 'INTEGER'
		AND (SELECT COUNT(*) FROM pragma_table_xinfo(?) k WHERE k.pk > 0) = 1 THEN 1 ELSE 0 END,
	CASE WHEN x.hidden IN (2, 3) THEN 1 ELSE 0 END
FROM pragma_table_xinfo(?) x
ORDER BY x.cid`

func (s SQLite) DescribeColumns(table string) (string, []any) {
	return sqliteDescribe, []any{table, table}
}
