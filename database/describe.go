package database

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/Konsultn-Engineering/tablemgr/schema"
	"github.com/pkg/errors"
)

// describeFields is the number of leading result columns every describe
// query selects.
const describeFields = 5

// TableNameMarker is replaced in describe templates by a bind placeholder
// carrying the table name.
const TableNameMarker = "<table_name>"

// Describer reads column metadata through a Querier using the dialect's
// describe query, or a template when one is set.
type Describer struct {
	q        Querier
	dialect  dialect.Dialect
	template string
}

func NewDescriber(q Querier, d dialect.Dialect) *Describer {
	return &Describer{q: q, dialect: d}
}

// WithTemplate returns a copy of d that runs tmpl instead of the built-in
// query. tmpl must select (name, data_type, is_nullable, is_identity,
// is_computed) and reference the table through TableNameMarker. Any further
// selected columns land in Column.Extra keyed by their result column name.
func (d *Describer) WithTemplate(tmpl string) *Describer {
	cp := *d
	cp.template = tmpl
	return &cp
}

// LoadTemplate reads a describe template from path.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading describe template %s", path)
	}
	tmpl := string(data)
	if !strings.Contains(tmpl, TableNameMarker) {
		return "", errors.Errorf("describe template %s does not contain %s", path, TableNameMarker)
	}
	return tmpl, nil
}

func (d *Describer) query(table string) (string, []any) {
	if d.template == "" {
		return d.dialect.DescribeColumns(table)
	}

	parts := strings.Split(d.template, TableNameMarker)
	var sb strings.Builder
	args := make([]any, 0, len(parts)-1)
	for i, part := range parts {
		if i > 0 {
			args = append(args, table)
			sb.WriteString(d.dialect.Placeholder(len(args)))
		}
		sb.WriteString(part)
	}
	return sb.String(), args
}

// DescribeColumns implements schema.Describer.
func (d *Describer) DescribeColumns(ctx context.Context, table string) ([]schema.Column, error) {
	query, args := d.query(table)
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying columns")
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "reading result columns")
	}
	var extraNames []string
	if len(names) > describeFields {
		extraNames = names[describeFields:]
	}

	var cols []schema.Column
	for rows.Next() {
		var (
			name                         string
			dataType                     sql.NullString
			nullable, identity, computed int64
		)
		dest := []any{&name, &dataType, &nullable, &identity, &computed}
		extra := make([]any, len(extraNames))
		for i := range extra {
			dest = append(dest, &extra[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "scanning column")
		}

		col := schema.Column{
			Name:       name,
			DataType:   dataType.String,
			Nullable:   nullable != 0,
			IsIdentity: identity != 0,
			IsComputed: computed != 0,
			Ordinal:    len(cols) + 1,
		}
		if len(extraNames) > 0 {
			col.Extra = make(map[string]any, len(extraNames))
			for i, n := range extraNames {
				col.Extra[n] = extra[i]
			}
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading columns")
	}
	if len(cols) == 0 {
		return nil, errors.Wrapf(ErrTableNotFound, "%s", table)
	}
	return cols, nil
}

// ErrTableNotFound is returned when the backend reports no columns.
var ErrTableNotFound = errors.New("table not found")

var _ schema.Describer = (*Describer)(nil)
