// Package sql provides lexing and parsing for the MyDB command language.
//
// The grammar is a small fixed set of commands. Keywords are
// case-sensitive and a single trailing `;` is optional.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer(`INSERT INTO items 1 "widget"`)
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Println(token)
//	}
//
// # Parser Usage
//
//	parser := sql.NewParser("SELECT id, name FROM items WHERE id >= 10;")
//	statement, err := parser.Parse()
//	if errors.Is(err, sql.ErrParse) {
//	    log.Fatal(err)
//	}
//
// # Supported Statements
//
//   - CREATE DATABASE name
//   - CREATE TABLE name (type)column[, (type)column]...
//   - USE name, LOAD name
//   - INSERT INTO table value...
//   - SELECT * | column[, column]... FROM table [WHERE column op literal]
//   - DELETE FROM table WHERE column op literal
//   - COMMIT
//   - SHOW DATABASES, SHOW TABLES, DESCRIBE table
package sql
