package schema

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// Test Data Structures
// =========================================================================

type User struct {
	ID        int64 `db:"-"`
	FirstName string
	Email     string `db:"column:email_address"`
	Nickname  string `db:"nick;omitempty"`
	CreatedAt time.Time
	internal  int
}

type Token struct {
	Key   string `db:"column:key;generator:uuid"`
	Value string
}

type Event struct {
	ID   string `db:"generator:ulid"`
	Kind string
}

type Ticket struct {
	ID    int64 `db:"gen:snowflake"`
	Title string
}

type Legacy struct {
	Code string
}

func (Legacy) TableName() string { return "tbl_legacy" }

// =========================================================================
// RecordOf Tests
// =========================================================================

func TestRecordOf(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u := User{ID: 9, FirstName: "Ada", Email: "ada@example.com", CreatedAt: now, internal: 3}

	rec, err := RecordOf(&u)
	require.NoError(t, err)

	assert.Equal(t, Record{
		"first_name":    "Ada",
		"email_address": "ada@example.com",
		"created_at":    now,
	}, rec)

	u.Nickname = "countess"
	rec, err = RecordOf(u)
	require.NoError(t, err)
	assert.Equal(t, "countess", rec["nick"])
}

func TestRecordOfMaps(t *testing.T) {
	rec, err := RecordOf(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, Record{"a": 1}, rec)

	rec, err = RecordOf(Record{"b": 2})
	require.NoError(t, err)
	assert.Equal(t, Record{"b": 2}, rec)
}

func TestRecordOfRejectsNonStruct(t *testing.T) {
	_, err := RecordOf(42)
	assert.True(t, errors.Is(err, ErrNotStruct))

	var u *User
	_, err = RecordOf(u)
	assert.True(t, errors.Is(err, ErrNotStruct))
}

func TestRecordOfGenerators(t *testing.T) {
	t.Run("UUID", func(t *testing.T) {
		rec, err := RecordOf(Token{Value: "v"})
		require.NoError(t, err)
		_, err = uuid.Parse(rec["key"].(string))
		assert.NoError(t, err)
	})

	t.Run("ULID", func(t *testing.T) {
		rec, err := RecordOf(Event{Kind: "login"})
		require.NoError(t, err)
		_, err = ulid.Parse(rec["id"].(string))
		assert.NoError(t, err)
	})

	t.Run("Snowflake", func(t *testing.T) {
		a, err := RecordOf(Ticket{Title: "a"})
		require.NoError(t, err)
		b, err := RecordOf(Ticket{Title: "b"})
		require.NoError(t, err)
		assert.Greater(t, b["id"].(int64), a["id"].(int64))
	})

	t.Run("KeepsSetValue", func(t *testing.T) {
		rec, err := RecordOf(Token{Key: "fixed"})
		require.NoError(t, err)
		assert.Equal(t, "fixed", rec["key"])
	})
}

func TestRecordsOf(t *testing.T) {
	recs, err := RecordsOf([]*User{{FirstName: "a"}, {FirstName: "b"}})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[1]["first_name"])

	passthrough := []Record{{"x": 1}}
	recs, err = RecordsOf(passthrough)
	require.NoError(t, err)
	assert.Equal(t, passthrough, recs)

	_, err = RecordsOf(User{})
	assert.True(t, errors.Is(err, ErrNotSlice))

	_, err = RecordsOf([]any{User{}, 3})
	assert.True(t, errors.Is(err, ErrNotStruct))
}

func TestTableNameOf(t *testing.T) {
	tests := []struct {
		name     string
		entity   any
		expected string
	}{
		{"Struct", User{}, "users"},
		{"Pointer", &Ticket{}, "tickets"},
		{"Slice", []Event{}, "events"},
		{"TableNamer", Legacy{}, "tbl_legacy"},
		{"TableNamerPointer", &Legacy{}, "tbl_legacy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TableNameOf(tt.entity)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := TableNameOf("users")
	assert.True(t, errors.Is(err, ErrNotStruct))
}
