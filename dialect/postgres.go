package dialect

import (
	"strconv"
	"strings"
)

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (p Postgres) Name() string {
	return "postgres"
}

func (p Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (p Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

const postgresDescribe = `
SELECT
	c.column_name,
	c.data_type,
	CASE WHEN c.is_nullable = 'YES' THEN 1 ELSE 0 END,
	CASE WHEN c.is_identity = 'YES' THEN 1 ELSE 0 END,
	CASE WHEN c.is_generated = 'ALWAYS' THEN 1 ELSE 0 END
FROM information_schema.columns c
WHERE c.table_schema = CASE WHEN strpos($1::text, '.') > 0 THEN split_part($1::text, '.', 1) ELSE current_schema() END
  AND c.table_name = CASE WHEN strpos($1::text, '.') > 0 THEN split_part($1::text, '.', 2) ELSE $1::text END
ORDER BY c.ordinal_position`

// DescribeColumns accepts plain or schema qualified table names.
func (p Postgres) DescribeColumns(table string) (string, []any) {
	return postgresDescribe, []any{table}
}
