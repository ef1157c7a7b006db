package schema

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

type fieldPlan struct {
	index     []int
	column    string
	omitEmpty bool
	generator IDGenerator
}

type entityPlan struct {
	table  string
	fields []fieldPlan
}

var entityPlans sync.Map // map[reflect.Type]*entityPlan

// RecordOf maps the exported fields of a struct to a Record keyed by column
// name. Zero-valued fields tagged with a generator receive a generated value.
func RecordOf(entity any) (Record, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, ErrNotStruct
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Map {
		if rec, ok := v.Interface().(Record); ok {
			return rec, nil
		}
		if m, ok := v.Interface().(map[string]any); ok {
			return Record(m), nil
		}
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotStruct, "got %s", v.Kind())
	}

	plan, err := planFor(v.Type())
	if err != nil {
		return nil, err
	}
	return plan.record(v)
}

// RecordsOf converts a slice of structs, struct pointers or maps.
func RecordsOf(entities any) ([]Record, error) {
	if recs, ok := entities.([]Record); ok {
		return recs, nil
	}
	v := reflect.ValueOf(entities)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, errors.Wrapf(ErrNotSlice, "got %s", v.Kind())
	}

	out := make([]Record, v.Len())
	for i := range out {
		rec, err := RecordOf(v.Index(i).Interface())
		if err != nil {
			return nil, errors.Wrapf(err, "entity %d", i)
		}
		out[i] = rec
	}
	return out, nil
}

// TableNameOf returns the table an entity maps to: TableNamer when
// implemented, otherwise the pluralized snake_case type name.
func TableNameOf(entity any) (string, error) {
	if tn, ok := entity.(TableNamer); ok {
		return tn.TableName(), nil
	}
	t := reflect.TypeOf(entity)
	for t != nil && (t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "", ErrNotStruct
	}
	plan, err := planFor(t)
	if err != nil {
		return "", err
	}
	return plan.table, nil
}

func planFor(t reflect.Type) (*entityPlan, error) {
	if p, ok := entityPlans.Load(t); ok {
		return p.(*entityPlan), nil
	}

	plan := &entityPlan{table: TableName(t.Name())}
	if tn, ok := reflect.New(t).Interface().(TableNamer); ok {
		plan.table = tn.TableName()
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag, err := defaultTagParser.ParseTag(f.Name, f.Tag)
		if err != nil {
			return nil, err
		}
		if tag.Skip {
			continue
		}
		fp := fieldPlan{index: f.Index, column: tag.ColumnName, omitEmpty: tag.OmitEmpty}
		if tag.Generator != "" {
			fp.generator, _ = LookupGenerator(tag.Generator)
		}
		plan.fields = append(plan.fields, fp)
	}

	actual, _ := entityPlans.LoadOrStore(t, plan)
	return actual.(*entityPlan), nil
}

func (p *entityPlan) record(v reflect.Value) (Record, error) {
	rec := make(Record, len(p.fields))
	for _, f := range p.fields {
		fv := v.FieldByIndex(f.index)
		if fv.IsZero() {
			if f.generator != nil {
				id, err := f.generator.Generate()
				if err != nil {
					return nil, errors.Wrapf(err, "column %s", f.column)
				}
				rec[f.column] = id
				continue
			}
			if f.omitEmpty {
				continue
			}
		}
		rec[f.column] = fv.Interface()
	}
	return rec, nil
}
