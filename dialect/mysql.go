package dialect

import "strings"

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (m MySQL) Name() string {
	return "mysql"
}

func (m MySQL) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (m MySQL) Placeholder(n int) string {
	return "?"
}

// EXTRA carries "auto_increment" for identity columns and "VIRTUAL GENERATED"
// or "STORED GENERATED" for generated ones. MySQL 8 also reports
// "DEFAULT_GENERATED" for expression defaults, which stay insertable.
const (
	mysqlIdentityExpr = `CASE WHEN c.EXTRA LIKE '%auto_increment%' THEN 1 ELSE 0 END`
	mysqlComputedExpr = `CASE WHEN c.EXTRA LIKE '%VIRTUAL GENERATED%' OR c.EXTRA LIKE '%STORED GENERATED%' THEN 1 ELSE 0 END`
)

const mysqlDescribe = `
SELECT
	c.COLUMN_NAME,
	c.DATA_TYPE,
	CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END,
	` + mysqlIdentityExpr + `,
	` + mysqlComputedExpr + `
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = DATABASE() AND c.TABLE_NAME = ?
ORDER BY c.ORDINAL_POSITION`

func (m MySQL) DescribeColumns(table string) (string, []any) {
	return mysqlDescribe, []any{table}
}
