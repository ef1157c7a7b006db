package schema

import (
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ParsedTag is the column mapping read from a `db` struct tag.
type ParsedTag struct {
	ColumnName string // explicit or derived from the field name
	Skip       bool   // db:"-"
	OmitEmpty  bool   // leave the key out of the record when the field is zero
	Generator  string // uuid, ulid or snowflake; fills zero values
}

// TagParser parses `db` tags and caches the results per field and tag text.
//
// Supported syntax:
//
//	`db:"column_name"`
//	`db:"column:custom_name;omitempty"`
//	`db:"custom_name;omitempty"`
//	`db:"generator:uuid"`
//	`db:"-"`
type TagParser struct {
	mu    sync.RWMutex
	cache map[string]*ParsedTag
}

func NewTagParser() *TagParser {
	return &TagParser{cache: make(map[string]*ParsedTag, 64)}
}

var defaultTagParser = NewTagParser()

func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	value, ok := tag.Lookup("db")
	if !ok || value == "" {
		return &ParsedTag{ColumnName: ColumnName(fieldName)}, nil
	}

	key := fieldName + ":" + value
	p.mu.RLock()
	cached, hit := p.cache[key]
	p.mu.RUnlock()
	if hit {
		return cached, nil
	}

	parsed, err := parseTagValue(fieldName, value)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", fieldName)
	}

	p.mu.Lock()
	p.cache[key] = parsed
	p.mu.Unlock()
	return parsed, nil
}

func parseTagValue(fieldName, value string) (*ParsedTag, error) {
	if value == "-" {
		return &ParsedTag{Skip: true}, nil
	}

	parsed := &ParsedTag{ColumnName: ColumnName(fieldName)}
	if !strings.ContainsAny(value, ";:") && value != "omitempty" {
		parsed.ColumnName = value
		return parsed, nil
	}

	for i, opt := range strings.Split(value, ";") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		k, v, hasValue := strings.Cut(opt, ":")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case hasValue && (k == "column" || k == "name"):
			if v == "" {
				return nil, errors.New("empty column name")
			}
			parsed.ColumnName = v
		case hasValue && (k == "generator" || k == "gen"):
			if _, ok := LookupGenerator(v); !ok {
				return nil, errors.Errorf("unknown generator %q", v)
			}
			parsed.Generator = v
		case !hasValue && k == "omitempty":
			parsed.OmitEmpty = true
		case !hasValue && i == 0:
			parsed.ColumnName = k
		}
		// unknown options are ignored
	}
	return parsed, nil
}
