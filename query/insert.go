package query

import (
	"strings"

	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/Konsultn-Engineering/tablemgr/schema"
)

// Insertable returns the columns an INSERT may bind, in table order.
// Identity and computed columns are left to the backend.
func Insertable(cols []schema.Column) []schema.Column {
	out := make([]schema.Column, 0, len(cols))
	for _, c := range cols {
		if c.Insertable() {
			out = append(out, c)
		}
	}
	return out
}

// BuildInsert renders the table shaped insert statement with one positional
// ? placeholder per insertable column:
//
//	INSERT INTO users ( name, age ) VALUES (?, ?)
//
// A table without insertable columns yields "INSERT INTO users (  ) " with no
// VALUES clause.
func BuildInsert(table string, cols []schema.Column) string {
	insertable := Insertable(cols)

	var sb strings.Builder
	sb.Grow(32 + len(table) + len(insertable)*16)
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" ( ")
	for i, c := range insertable {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Name)
	}
	sb.WriteString(" ) ")

	if len(insertable) == 0 {
		return sb.String()
	}

	sb.WriteString("VALUES (")
	for i := range insertable {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('?')
	}
	sb.WriteByte(')')
	return sb.String()
}

// Rebind rewrites ? placeholders into the bind syntax of d. Question marks
// inside quoted literals or identifiers are left alone.
func Rebind(sql string, d dialect.Dialect) string {
	if d == nil || d.Placeholder(1) == "?" || !strings.Contains(sql, "?") {
		return sql
	}

	var sb strings.Builder
	sb.Grow(len(sql) + 16)
	n := 0
	var quote byte
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '?':
			n++
			sb.WriteString(d.Placeholder(n))
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// Placeholders counts the ? markers of a canonical statement.
func Placeholders(sql string) int {
	return strings.Count(sql, "?")
}
