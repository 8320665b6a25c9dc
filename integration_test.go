package MyDB

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
	"github.com/nickyhof/MyDB/ps"
)

var testIdentity = core.Identity{Name: "test", Email: "test@test.com"}

// persistenceFactory returns a function that opens the same backing
// store each time it is called, simulating separate processes.
type persistenceFactory func(t *testing.T) func() *ps.Persistence

func backends() map[string]persistenceFactory {
	return map[string]persistenceFactory{
		"Memory": func(t *testing.T) func() *ps.Persistence {
			persistence := ps.NewMemoryPersistence()
			return func() *ps.Persistence { return persistence }
		},
		"File": func(t *testing.T) func() *ps.Persistence {
			dir := t.TempDir()
			return func() *ps.Persistence {
				persistence, err := ps.NewFilePersistence(dir, nil)
				require.NoError(t, err)
				return persistence
			}
		},
		"EncryptedFile": func(t *testing.T) func() *ps.Persistence {
			dir := t.TempDir()
			return func() *ps.Persistence {
				cipher, err := ps.NewAESCBCFromHex("000102030405060708090a0b0c0d0e0f", "0f0e0d0c0b0a09080706050403020100")
				require.NoError(t, err)
				persistence, err := ps.NewFilePersistence(dir, cipher)
				require.NoError(t, err)
				return persistence
			}
		},
		"Git": func(t *testing.T) func() *ps.Persistence {
			dir := t.TempDir()
			return func() *ps.Persistence {
				store, err := ps.NewGitStore(dir)
				require.NoError(t, err)
				return ps.NewPersistence(store, nil)
			}
		},
	}
}

func newEngine(persistence *ps.Persistence) *db.Engine {
	engine := Open(persistence).Engine(testIdentity)
	engine.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine
}

func TestIntegrationShopScenario(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			open := factory(t)
			engine := newEngine(open())

			for _, statement := range []string{
				"CREATE DATABASE shop;",
				"USE shop;",
				"CREATE TABLE items (int)id, (string)name;",
				`INSERT INTO items 1 "widget";`,
			} {
				_, err := engine.Execute(statement)
				require.NoError(t, err, statement)
			}

			result, err := engine.Execute("SELECT * FROM items;")
			require.NoError(t, err)
			qr := result.(db.QueryResult)
			assert.Equal(t, []string{"id", "name"}, qr.Columns)
			assert.Equal(t, [][]string{{"1", `"widget"`}}, qr.Data)

			result, err = engine.Execute("DELETE FROM items WHERE id = 1;")
			require.NoError(t, err)
			assert.Equal(t, 1, result.(db.CommitResult).RecordsDeleted)
			assert.Equal(t, 0, result.(db.CommitResult).RowCount)

			_, err = engine.Execute("COMMIT;")
			require.NoError(t, err)

			fresh := newEngine(open())
			result, err = fresh.Execute("USE shop;")
			require.NoError(t, err)
			assert.Equal(t, 1, result.(db.CommitResult).DatabasesLoaded)

			result, err = fresh.Execute("DESCRIBE items;")
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"id", "int"}, {"name", "string"}}, result.(db.QueryResult).Data)

			result, err = fresh.Execute("SELECT * FROM items;")
			require.NoError(t, err)
			assert.Equal(t, []string{"id", "name"}, result.(db.QueryResult).Columns)
			assert.Empty(t, result.(db.QueryResult).Data)
		})
	}
}

func TestIntegrationRoundTrip(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			open := factory(t)
			engine := newEngine(open())

			for _, statement := range []string{
				"CREATE DATABASE ledger",
				"USE ledger",
				"CREATE TABLE entries (int)id, (date)day, (float)amount, (string)memo",
				`INSERT INTO entries 1 2024-01-15 19.99 "coffee beans"`,
				`INSERT INTO entries 2 2024-01-16 5 "tip, cash"`,
				`INSERT INTO entries 3 2024-02-01 120.5 ""`,
				"CREATE TABLE tags (string)name",
				`INSERT INTO tags "food"`,
				"COMMIT",
			} {
				_, err := engine.Execute(statement)
				require.NoError(t, err, statement)
			}

			fresh := newEngine(open())
			_, err := fresh.Execute("LOAD ledger")
			require.NoError(t, err)

			result, err := fresh.Execute("SELECT memo, id FROM entries WHERE id >= 2")
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"2", `"tip, cash"`}, {"3", `""`}}, result.(db.QueryResult).Data)

			result, err = fresh.Execute("SHOW TABLES")
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"entries"}, {"tags"}}, result.(db.QueryResult).Data)
		})
	}
}

func TestIntegrationGitHistory(t *testing.T) {
	store, err := ps.NewMemoryGitStore()
	require.NoError(t, err)
	persistence := ps.NewPersistence(store, nil)
	engine := newEngine(persistence)

	for _, statement := range []string{
		"CREATE DATABASE shop",
		"USE shop",
		"CREATE TABLE items (int)id",
		"COMMIT",
		"INSERT INTO items 1",
		"COMMIT",
		"COMMIT",
	} {
		_, err := engine.Execute(statement)
		require.NoError(t, err, statement)
	}

	history, ok, err := persistence.History("shop")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, history, 2)
	assert.Equal(t, "test <test@test.com>", history[0].Author)
}

func TestIntegrationErrorsLeaveStateIntact(t *testing.T) {
	engine := newEngine(ps.NewMemoryPersistence())

	for _, statement := range []string{
		"CREATE DATABASE shop",
		"USE shop",
		"CREATE TABLE items (int)id, (string)name",
		`INSERT INTO items 1 "widget"`,
	} {
		_, err := engine.Execute(statement)
		require.NoError(t, err, statement)
	}

	for _, statement := range []string{
		"DELETE FROM items",
		`INSERT INTO items 2`,
		`INSERT INTO items two "gadget"`,
		"CREATE TABLE items (int)id, broken",
		"SELECT nope FROM items",
		"LOAD missing",
		"CREATE DATABASE shop",
		"UPDATE items",
	} {
		_, err := engine.Execute(statement)
		assert.Error(t, err, statement)
	}

	result, err := engine.Execute("SELECT * FROM items")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", `"widget"`}}, result.(db.QueryResult).Data)
	assert.Equal(t, "shop", engine.CurrentDatabase())
}
