package dialect

import (
	"strconv"
	"strings"
)

// MSSQL targets the sqlserver driver, which binds @p1..@pN.
type MSSQL struct{}

func NewMSSQLDialect() Dialect {
	return &MSSQL{}
}

func (m MSSQL) Name() string {
	return "mssql"
}

func (m MSSQL) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (m MSSQL) Placeholder(n int) string {
	return "@p" + strconv.Itoa(n)
}

const mssqlDescribe = `
SELECT
	c.COLUMN_NAME,
	c.DATA_TYPE,
	CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END,
	ISNULL(COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity'), 0),
	ISNULL(COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsComputed'), 0)
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`

// DescribeColumns defaults the schema to dbo when table is not qualified.
func (m MSSQL) DescribeColumns(table string) (string, []any) {
	schemaName, tableName := "dbo", table
	if i := strings.IndexByte(table, '.'); i > 0 {
		schemaName, tableName = table[:i], table[i+1:]
	}
	return mssqlDescribe, []any{schemaName, tableName}
}
