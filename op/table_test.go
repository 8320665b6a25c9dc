package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickyhof/MyDB/core"
)

func itemsTable(t *testing.T) *TableOp {
	t.Helper()

	catalog := NewCatalog()
	dbOp, err := catalog.CreateDatabase("shop")
	require.NoError(t, err)

	dbOp.CreateTable(core.TableSchema{
		Name: "items",
		Columns: []core.Column{
			{Name: "id", Type: core.IntType},
			{Name: "name", Type: core.TextType},
			{Name: "qty", Type: core.IntType},
		},
	})
	tableOp, err := dbOp.GetTable("items")
	require.NoError(t, err)

	for _, values := range [][]string{
		{"1", `"widget"`, "10"},
		{"2", `"gadget"`, "3"},
		{"3", `"gizmo"`, "25"},
		{"4", `"doohickey"`, "3"},
	} {
		_, err := tableOp.Insert(values)
		require.NoError(t, err)
	}
	return tableOp
}

func TestInsert(t *testing.T) {
	tableOp := itemsTable(t)

	count, err := tableOp.Insert([]string{"5", `"sprocket"`, "1"})
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	projection, err := tableOp.Select(nil, nil)
	require.NoError(t, err)
	rows := projection.Collect()
	assert.Equal(t, []string{"5", `"sprocket"`, "1"}, rows[len(rows)-1])
}

func TestInsertRejectedLeavesTableUnchanged(t *testing.T) {
	tableOp := itemsTable(t)

	_, err := tableOp.Insert([]string{"5", `"sprocket"`})
	assert.ErrorIs(t, err, core.ErrColumnCountMismatch)

	_, err = tableOp.Insert([]string{"5", "sprocket", "1"})
	assert.ErrorIs(t, err, core.ErrTypeMismatch)

	assert.Equal(t, 4, tableOp.Count())
}

func TestSelect(t *testing.T) {
	tableOp := itemsTable(t)

	tests := []struct {
		name       string
		columns    []string
		where      *core.Predicate
		expected   [][]string
		columnsOut []string
	}{
		{
			name:       "all columns",
			expected:   [][]string{{"1", `"widget"`, "10"}, {"2", `"gadget"`, "3"}, {"3", `"gizmo"`, "25"}, {"4", `"doohickey"`, "3"}},
			columnsOut: []string{"id", "name", "qty"},
		},
		{
			name:       "declaration order",
			columns:    []string{"qty", "id"},
			where:      &core.Predicate{Column: "qty", Operator: core.Equals, Literal: "3"},
			expected:   [][]string{{"2", "3"}, {"4", "3"}},
			columnsOut: []string{"id", "qty"},
		},
		{
			name:       "numeric comparison",
			columns:    []string{"name"},
			where:      &core.Predicate{Column: "qty", Operator: core.GreaterThan, Literal: "9"},
			expected:   [][]string{{`"widget"`}, {`"gizmo"`}},
			columnsOut: []string{"name"},
		},
		{
			name:       "non numeric ordering matches nothing",
			columns:    []string{"id"},
			where:      &core.Predicate{Column: "name", Operator: core.LessThan, Literal: "10"},
			expected:   nil,
			columnsOut: []string{"id"},
		},
		{
			name:       "text equality",
			columns:    []string{"id"},
			where:      &core.Predicate{Column: "name", Operator: core.Equals, Literal: `"gizmo"`},
			expected:   [][]string{{"3"}},
			columnsOut: []string{"id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projection, err := tableOp.Select(tt.columns, tt.where)
			require.NoError(t, err)
			assert.Equal(t, tt.columnsOut, projection.Columns)
			assert.Equal(t, tt.expected, projection.Collect())
		})
	}
}

func TestSelectUnknownColumn(t *testing.T) {
	tableOp := itemsTable(t)

	_, err := tableOp.Select([]string{"price"}, nil)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = tableOp.Select(nil, &core.Predicate{Column: "price", Operator: core.Equals, Literal: "1"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestSelectIsLazyAndRestartable(t *testing.T) {
	tableOp := itemsTable(t)

	projection, err := tableOp.Select([]string{"id"}, nil)
	require.NoError(t, err)

	_, err = tableOp.Insert([]string{"5", `"sprocket"`, "1"})
	require.NoError(t, err)

	assert.Len(t, projection.Collect(), 5)
	assert.Len(t, projection.Collect(), 5)

	seen := 0
	for range projection.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestDelete(t *testing.T) {
	tableOp := itemsTable(t)

	removed, err := tableOp.Delete(core.Predicate{Column: "qty", Operator: core.Equals, Literal: "3"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	projection, err := tableOp.Select([]string{"id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}, {"3"}}, projection.Collect())
}

func TestDeleteNoMatch(t *testing.T) {
	tableOp := itemsTable(t)

	removed, err := tableOp.Delete(core.Predicate{Column: "id", Operator: core.GreaterThan, Literal: "100"})
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 4, tableOp.Count())

	_, err = tableOp.Delete(core.Predicate{Column: "nope", Operator: core.Equals, Literal: "1"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Equal(t, 4, tableOp.Count())
}
