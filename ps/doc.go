// Package ps provides the persistence layer for MyDB.
//
// Each database is stored as one text file, <name>.mydb, holding a
// block per table:
//
//	TABLE: items
//	SCHEMA: (int)id, (string)name
//	1	"widget"
//
// Commit always rewrites the whole file. The bytes can be passed through
// an AES-CBC Transform before they reach the Store.
//
// # Stores
//
//   - FileStore: a billy filesystem (osfs or memfs); writes go through a
//     temporary file that is renamed over the target.
//   - GitStore: a git work tree; every commit of a database also becomes
//     a git commit, and History lists them.
//   - S3Store: one object per database in an S3 bucket.
//
// # Usage
//
//	persistence := ps.NewMemoryPersistence()
//	txn, size, err := persistence.Commit(database, identity)
//	database, size, err = persistence.Load("shop")
package ps
