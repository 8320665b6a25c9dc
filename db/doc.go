// Package db provides the statement execution engine for MyDB.
//
// The Engine type is the main entry point. It parses a statement, runs
// it against the session catalog and returns a Result.
//
// # Engine Usage
//
//	engine := db.NewEngine(persistence, identity)
//	engine.Execute("CREATE DATABASE shop")
//	engine.Execute("USE shop")
//	engine.Execute(`CREATE TABLE items (int)id, (string)name`)
//	engine.Execute(`INSERT INTO items 1 "widget"`)
//	result, err := engine.Execute("SELECT * FROM items")
//	if err != nil {
//	    log.Fatal(db.ErrorKind(err), err)
//	}
//	result.Display(os.Stdout)
//
// # Result Types
//
// There are two result types:
//   - QueryResult: returned by SELECT, DESCRIBE and SHOW
//   - CommitResult: returned by CREATE, USE, LOAD, INSERT, DELETE and COMMIT
//
// QueryResult contains columns and data rows. CommitResult contains
// counts of affected objects and, after COMMIT, the storage transaction.
package db
