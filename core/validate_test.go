package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsSchema() TableSchema {
	return TableSchema{
		Name: "items",
		Columns: []Column{
			{Name: "id", Type: IntType},
			{Name: "name", Type: TextType},
			{Name: "price", Type: FloatType},
			{Name: "added", Type: DateType},
		},
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		typ   ColumnType
		raw   string
		valid bool
	}{
		{"int", IntType, "42", true},
		{"int leading zero", IntType, "007", true},
		{"int negative", IntType, "-1", false},
		{"int empty", IntType, "", false},
		{"int decimal", IntType, "1.5", false},
		{"int beyond int64", IntType, "99999999999999999999", true},
		{"float", FloatType, "9.99", true},
		{"float integral", FloatType, "10", true},
		{"float trailing dot", FloatType, "10.", true},
		{"float two dots", FloatType, "1.2.3", false},
		{"float only dot", FloatType, ".", true},
		{"float empty", FloatType, "", false},
		{"float letters", FloatType, "1e5", false},
		{"text", TextType, `"widget"`, true},
		{"text empty", TextType, `""`, true},
		{"text with spaces", TextType, `"big widget, red"`, true},
		{"text unquoted", TextType, "widget", false},
		{"text single quote", TextType, `"`, false},
		{"text with tab", TextType, "\"a\tb\"", false},
		{"date", DateType, "2024-01-15", true},
		{"date shape only", DateType, "2024-13-45", true},
		{"date one hyphen", DateType, "2024-01", false},
		{"date slashes", DateType, "2024/01/15", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValue(tt.typ, tt.raw)
			if !tt.valid {
				require.ErrorIs(t, err, ErrTypeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, v.String())
			assert.Equal(t, tt.typ, v.Type)
		})
	}
}

func TestValueAccessors(t *testing.T) {
	i, err := ParseValue(IntType, "12")
	require.NoError(t, err)
	n, ok := i.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)

	f, err := ParseValue(FloatType, "2.5")
	require.NoError(t, err)
	x, ok := f.Float()
	assert.True(t, ok)
	assert.InDelta(t, 2.5, x, 1e-9)

	s, err := ParseValue(TextType, `"gadget"`)
	require.NoError(t, err)
	text, ok := s.Text()
	assert.True(t, ok)
	assert.Equal(t, "gadget", text)

	_, ok = s.Int()
	assert.False(t, ok)
}

func TestValueAccessorsOutOfRange(t *testing.T) {
	big, err := ParseValue(IntType, "99999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, "99999999999999999999", big.String())
	_, ok := big.Int()
	assert.False(t, ok)

	dot, err := ParseValue(FloatType, ".")
	require.NoError(t, err)
	_, ok = dot.Float()
	assert.False(t, ok)
}

func TestValidateLongInt(t *testing.T) {
	schema := TableSchema{Name: "counters", Columns: []Column{{Name: "n", Type: IntType}}}

	row, err := schema.Validate([]string{"123456789012345678901234567890"})
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789012345678901234567890"}, row.Strings())
}

func TestValidate(t *testing.T) {
	schema := itemsSchema()

	row, err := schema.Validate([]string{"1", `"widget"`, "9.99", "2024-01-15"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", `"widget"`, "9.99", "2024-01-15"}, row.Strings())
}

func TestValidateColumnCount(t *testing.T) {
	schema := itemsSchema()

	_, err := schema.Validate([]string{"1", `"widget"`})
	require.ErrorIs(t, err, ErrColumnCountMismatch)

	var countErr *ColumnCountMismatchError
	require.True(t, errors.As(err, &countErr))
	assert.Equal(t, 4, countErr.Expected)
	assert.Equal(t, 2, countErr.Actual)
}

func TestValidateCountBeforeType(t *testing.T) {
	schema := itemsSchema()

	_, err := schema.Validate([]string{"x"})
	assert.ErrorIs(t, err, ErrColumnCountMismatch)
	assert.NotErrorIs(t, err, ErrTypeMismatch)
}

func TestValidateFirstMismatchReported(t *testing.T) {
	schema := itemsSchema()

	_, err := schema.Validate([]string{"1", "widget", "abc", "2024-01-15"})
	require.ErrorIs(t, err, ErrTypeMismatch)

	var typeErr *TypeMismatchError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "name", typeErr.Column)
	assert.Equal(t, TextType, typeErr.Expected)
	assert.Equal(t, "widget", typeErr.Value)
}

func TestParseColumnType(t *testing.T) {
	for name, want := range map[string]ColumnType{
		"int": IntType, "INTEGER": IntType, "float": FloatType,
		"string": TextType, "Text": TextType, "date": DateType,
	} {
		got, ok := ParseColumnType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseColumnType("blob")
	assert.False(t, ok)
}
