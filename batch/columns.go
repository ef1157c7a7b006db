package batch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Konsultn-Engineering/tablemgr/schema"
)

// Policy decides how the participating columns of a batch are inferred.
type Policy int

const (
	// FirstRecord takes the participating columns from the first record of
	// the batch. Later records missing one of them bind NULL in its place and
	// their extra keys are ignored.
	FirstRecord Policy = iota
	// Strict also infers from the first record but rejects a batch in which
	// any record's table columns differ from that set.
	Strict
)

func (p Policy) String() string {
	switch p {
	case FirstRecord:
		return "first_record"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the names produced by String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "first_record", "first":
		return FirstRecord, nil
	case "strict":
		return Strict, nil
	}
	return FirstRecord, fmt.Errorf("unknown key policy %q", s)
}

// Column holds every value of one column for a batch, in batch order.
type Column struct {
	Name   string
	Values []any
}

// Columns is the column-major form of a batch. All value slices have the
// batch length and are index aligned: Columns[c].Values[i] and
// Columns[d].Values[i] come from the same record.
type Columns []Column

// Len returns the number of rows.
func (c Columns) Len() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0].Values)
}

func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// Row gathers the arguments of row i in column order.
func (c Columns) Row(i int) []any {
	args := make([]any, len(c))
	for j, col := range c {
		args[j] = col.Values[i]
	}
	return args
}

// Map returns the columns keyed by name.
func (c Columns) Map() map[string][]any {
	m := make(map[string][]any, len(c))
	for _, col := range c {
		m[col.Name] = col.Values
	}
	return m
}

// KeyMismatchError reports a record whose table columns differ from those
// of the first record of its batch.
type KeyMismatchError struct {
	Row     int
	Missing []string
	Extra   []string
}

func (e *KeyMismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "record %d does not match the columns of record 0", e.Row)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&sb, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		fmt.Fprintf(&sb, ": unexpected %s", strings.Join(e.Extra, ", "))
	}
	return sb.String()
}

// Participating returns the columns of meta a batch starting with first
// binds: present on first, known to the table and not computed, in table
// order.
func Participating(first schema.Record, meta *schema.TableMeta) []string {
	names := make([]string, 0, len(first))
	for _, col := range meta.Columns {
		if _, ok := first[col.Name]; !ok {
			continue
		}
		if c, ok := meta.ByName[col.Name]; !ok || c.IsComputed {
			continue
		}
		names = append(names, col.Name)
	}
	return names
}

// ToColumns transposes a row-major batch into Columns.
func ToColumns(rows []schema.Record, meta *schema.TableMeta, policy Policy) (Columns, error) {
	if len(rows) == 0 {
		return Columns{}, nil
	}

	names := Participating(rows[0], meta)
	if policy == Strict {
		if err := checkKeys(rows, names, meta); err != nil {
			return nil, err
		}
	}

	cols := make(Columns, len(names))
	for j, name := range names {
		values := make([]any, len(rows))
		for i, rec := range rows {
			values[i] = rec[name] // nil when absent
		}
		cols[j] = Column{Name: name, Values: values}
	}
	return cols, nil
}

func checkKeys(rows []schema.Record, names []string, meta *schema.TableMeta) error {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	for i := 1; i < len(rows); i++ {
		var missing, extra []string
		for _, n := range names {
			if _, ok := rows[i][n]; !ok {
				missing = append(missing, n)
			}
		}
		for k := range rows[i] {
			c, known := meta.ByName[k]
			if !known || c.IsComputed {
				continue
			}
			if _, ok := want[k]; !ok {
				extra = append(extra, k)
			}
		}
		if len(missing) > 0 || len(extra) > 0 {
			sort.Strings(extra)
			return &KeyMismatchError{Row: i, Missing: missing, Extra: extra}
		}
	}
	return nil
}
