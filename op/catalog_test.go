package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickyhof/MyDB/core"
)

func TestCatalogCreateDatabase(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.CreateDatabase("shop")
	require.NoError(t, err)

	_, err = catalog.CreateDatabase("shop")
	assert.ErrorIs(t, err, ErrDatabaseAlreadyExists)

	_, err = catalog.Current()
	assert.ErrorIs(t, err, ErrNoDatabaseSelected)
	assert.Empty(t, catalog.CurrentName())
}

func TestCatalogUse(t *testing.T) {
	catalog := NewCatalog()
	_, err := catalog.CreateDatabase("shop")
	require.NoError(t, err)
	_, err = catalog.CreateDatabase("archive")
	require.NoError(t, err)

	assert.False(t, catalog.Use("missing"))
	assert.True(t, catalog.Use("shop"))

	current, err := catalog.Current()
	require.NoError(t, err)
	assert.Equal(t, "shop", current.Name())
	assert.Equal(t, []string{"archive", "shop"}, catalog.DatabaseNames())
}

func TestCatalogAttachReplaces(t *testing.T) {
	catalog := NewCatalog()
	dbOp, err := catalog.CreateDatabase("shop")
	require.NoError(t, err)
	dbOp.CreateTable(core.TableSchema{Name: "old", Columns: []core.Column{{Name: "id", Type: core.IntType}}})

	loaded := core.NewDatabase("shop")
	loaded.Tables["items"] = core.NewTable(core.TableSchema{Name: "items", Columns: []core.Column{{Name: "id", Type: core.IntType}}})
	catalog.Attach(loaded)

	current, err := catalog.Current()
	require.NoError(t, err)
	assert.Equal(t, []string{"items"}, current.TableNames())
}

func TestCreateTableReplaces(t *testing.T) {
	catalog := NewCatalog()
	dbOp, err := catalog.CreateDatabase("shop")
	require.NoError(t, err)

	schema := core.TableSchema{Name: "items", Columns: []core.Column{{Name: "id", Type: core.IntType}}}
	assert.False(t, dbOp.CreateTable(schema))

	tableOp, err := dbOp.GetTable("items")
	require.NoError(t, err)
	_, err = tableOp.Insert([]string{"1"})
	require.NoError(t, err)
	assert.Equal(t, 1, dbOp.RowCount())

	assert.True(t, dbOp.CreateTable(schema))
	tableOp, err = dbOp.GetTable("items")
	require.NoError(t, err)
	assert.Zero(t, tableOp.Count())

	_, err = dbOp.GetTable("missing")
	assert.ErrorIs(t, err, ErrTableNotFound)
}
