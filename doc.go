// Package MyDB provides a small in-memory relational engine with
// file-based persistence.
//
// Databases live in memory while a session runs. COMMIT writes the
// selected database to a single text file, optionally AES encrypted, on
// local disk, in a git repository or in S3. USE or LOAD reads it back.
//
// # Quick Start
//
//	instance := MyDB.Open(ps.NewMemoryPersistence())
//	engine := instance.Engine(core.Identity{Name: "App", Email: "app@example.com"})
//
//	engine.Execute("CREATE DATABASE shop")
//	engine.Execute("USE shop")
//	engine.Execute("CREATE TABLE items (int)id, (string)name")
//	engine.Execute(`INSERT INTO items 1 "widget"`)
//
//	result, _ := engine.Execute("SELECT * FROM items")
//	result.Display(os.Stdout)
//
//	engine.Execute("COMMIT")
//
// # Supported Commands
//
//   - CREATE DATABASE, CREATE TABLE
//   - USE, LOAD, COMMIT
//   - INSERT INTO, SELECT, DELETE FROM (WHERE required)
//   - WHERE with =, <>, <, >, <=, >=
//   - SHOW DATABASES, SHOW TABLES, DESCRIBE
//
// Column types are int, float, string and date. Text values are written
// in double quotes.
package MyDB
