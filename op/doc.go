// Package op implements the in-memory table store that the engine
// executes statements against.
//
// # Catalog
//
// A Catalog maps database names to databases and tracks the selected
// one:
//
//	catalog := op.NewCatalog()
//	catalog.CreateDatabase("shop")
//	catalog.Use("shop")
//	dbOp, err := catalog.Current()
//
// # DatabaseOp
//
//	dbOp.CreateTable(schema)       // replaces an existing table
//	tableOp, err := dbOp.GetTable("items")
//	tables := dbOp.TableNames()
//
// # TableOp
//
//	count, err := tableOp.Insert([]string{"1", `"widget"`})
//	projection, err := tableOp.Select([]string{"name"}, &where)
//	for row := range projection.All() {
//	    // row is []string in declaration order
//	}
//	removed, err := tableOp.Delete(where)
//
// # Architecture
//
//	SQL Parser (sql/)
//	     ↓
//	SQL Engine (db/)
//	     ↓
//	Table store (op/)    ← This package
//	     ↓
//	Persistence (ps/)
package op
