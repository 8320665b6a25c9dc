// Package core provides core types used throughout MyDB.
//
// The package defines the data model (Database, Table, TableSchema,
// Column, Row), the typed cell Value, schema validation of candidate
// rows and the single-condition predicate evaluator used by SELECT and
// DELETE.
//
// # Column Types
//
// Supported column types and their textual shape:
//   - IntType: decimal digits only ("42")
//   - FloatType: digits with at most one decimal point ("3.14")
//   - TextType: double-quoted string, quotes included ("\"widget\"")
//   - DateType: digits with exactly two hyphens ("2024-01-31")
//
// # Table Definition
//
//	schema := core.TableSchema{
//	    Name: "items",
//	    Columns: []core.Column{
//	        {Name: "id", Type: core.IntType},
//	        {Name: "name", Type: core.TextType},
//	    },
//	}
//
//	row, err := schema.Validate([]string{"1", `"widget"`})
//
// # Predicates
//
//	core.Evaluate("9", core.LessThan, "10")   // true
//	core.Evaluate("abc", core.LessThan, "10") // false, not numeric
package core
