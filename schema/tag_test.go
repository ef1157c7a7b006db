package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		tag      reflect.StructTag
		expected ParsedTag
		wantErr  bool
	}{
		{"NoTag", "FirstName", ``, ParsedTag{ColumnName: "first_name"}, false},
		{"PlainName", "Email", `db:"mail"`, ParsedTag{ColumnName: "mail"}, false},
		{"Skip", "Secret", `db:"-"`, ParsedTag{Skip: true}, false},
		{"Column", "Email", `db:"column:email_id"`, ParsedTag{ColumnName: "email_id"}, false},
		{"Name", "Email", `db:"name:email_id"`, ParsedTag{ColumnName: "email_id"}, false},
		{"OmitEmpty", "Bio", `db:"omitempty"`, ParsedTag{ColumnName: "bio", OmitEmpty: true}, false},
		{
			"Combined", "ID", `db:"column:public_id; generator:snowflake; omitempty"`,
			ParsedTag{ColumnName: "public_id", Generator: "snowflake", OmitEmpty: true}, false,
		},
		{"UnknownOptionIgnored", "Age", `db:"type:int"`, ParsedTag{ColumnName: "age"}, false},
		{"UnknownGenerator", "ID", `db:"generator:nope"`, ParsedTag{}, true},
		{"EmptyColumn", "ID", `db:"column:"`, ParsedTag{}, true},
	}

	p := NewTagParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseTag(tt.field, tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestParseTagCached(t *testing.T) {
	p := NewTagParser()
	first, err := p.ParseTag("Email", `db:"column:email_id"`)
	require.NoError(t, err)
	second, err := p.ParseTag("Email", `db:"column:email_id"`)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

type staticGenerator struct{}

func (staticGenerator) Generate() (any, error) { return "static", nil }
func (staticGenerator) Type() string           { return "static" }

func TestRegisterGenerator(t *testing.T) {
	RegisterGenerator("static", staticGenerator{})

	type withStatic struct {
		Ref string `db:"generator:static"`
	}
	rec, err := RecordOf(withStatic{})
	require.NoError(t, err)
	assert.Equal(t, "static", rec["ref"])
}

func TestParseTagLeadingName(t *testing.T) {
	got, err := NewTagParser().ParseTag("Nickname", `db:"nick;omitempty"`)
	require.NoError(t, err)
	assert.Equal(t, ParsedTag{ColumnName: "nick", OmitEmpty: true}, *got)
}
