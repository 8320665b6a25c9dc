package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nickyhof/MyDB/core"
)

var (
	ErrParse                     = errors.New("parse error")
	ErrUnsupportedCommand        = fmt.Errorf("%w: unsupported command", ErrParse)
	ErrMalformedColumnDefinition = fmt.Errorf("%w: malformed column definition", ErrParse)
	ErrMissingFromClause         = fmt.Errorf("%w: missing FROM clause", ErrParse)
	ErrUnexpectedToken           = fmt.Errorf("%w: unexpected token", ErrParse)

	// ErrMissingWhereClause is returned for a DELETE without a WHERE
	// clause. Unconditional deletes are never allowed.
	ErrMissingWhereClause = errors.New("missing WHERE clause")
)

type StatementType int

const (
	SelectStatementType StatementType = iota
	InsertStatementType
	DeleteStatementType
	CreateTableStatementType
	CreateDatabaseStatementType
	UseStatementType
	LoadStatementType
	CommitStatementType
	DescribeStatementType
	ShowDatabasesStatementType
	ShowTablesStatementType
)

func (t StatementType) String() string {
	switch t {
	case SelectStatementType:
		return "SELECT"
	case InsertStatementType:
		return "INSERT"
	case DeleteStatementType:
		return "DELETE"
	case CreateTableStatementType:
		return "CREATE TABLE"
	case CreateDatabaseStatementType:
		return "CREATE DATABASE"
	case UseStatementType:
		return "USE"
	case LoadStatementType:
		return "LOAD"
	case CommitStatementType:
		return "COMMIT"
	case DescribeStatementType:
		return "DESCRIBE"
	case ShowDatabasesStatementType:
		return "SHOW DATABASES"
	case ShowTablesStatementType:
		return "SHOW TABLES"
	default:
		return "UNKNOWN"
	}
}

type Statement interface {
	Type() StatementType
}

type SelectStatement struct {
	Table string
	// Columns is empty for SELECT *.
	Columns []string
	Where   *core.Predicate
}

type InsertStatement struct {
	Table  string
	Values []string
}

type DeleteStatement struct {
	Table string
	Where core.Predicate
}

type CreateTableStatement struct {
	Table   string
	Columns []core.Column
}

type CreateDatabaseStatement struct {
	Database string
}

type UseStatement struct {
	Database string
}

type LoadStatement struct {
	Database string
}

type CommitStatement struct{}

type DescribeStatement struct {
	Table string
}

type ShowDatabasesStatement struct{}

type ShowTablesStatement struct{}

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s InsertStatement) Type() StatementType {
	return InsertStatementType
}

func (s DeleteStatement) Type() StatementType {
	return DeleteStatementType
}

func (s CreateTableStatement) Type() StatementType {
	return CreateTableStatementType
}

func (s CreateDatabaseStatement) Type() StatementType {
	return CreateDatabaseStatementType
}

func (s UseStatement) Type() StatementType {
	return UseStatementType
}

func (s LoadStatement) Type() StatementType {
	return LoadStatementType
}

func (s CommitStatement) Type() StatementType {
	return CommitStatementType
}

func (s DescribeStatement) Type() StatementType {
	return DescribeStatementType
}

func (s ShowDatabasesStatement) Type() StatementType {
	return ShowDatabasesStatementType
}

func (s ShowTablesStatement) Type() StatementType {
	return ShowTablesStatementType
}

type Parser struct {
	lexer *Lexer
}

// NewParser prepares sql for parsing. A single trailing `;` is dropped.
func NewParser(sql string) *Parser {
	sql = strings.TrimRight(sql, " \t\r\n")
	sql = strings.TrimSuffix(sql, ";")
	return &Parser{lexer: NewLexer(sql)}
}

func (parser *Parser) Parse() (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case Select:
		return ParseSelect(parser)
	case Insert:
		return ParseInsert(parser)
	case Delete:
		return ParseDelete(parser)
	case Create:
		return ParseCreate(parser)
	case Use:
		name, err := parser.expectName("database")
		if err != nil {
			return nil, err
		}
		return parser.finish(UseStatement{Database: name})
	case Load:
		name, err := parser.expectName("database")
		if err != nil {
			return nil, err
		}
		return parser.finish(LoadStatement{Database: name})
	case Commit:
		return parser.finish(CommitStatement{})
	case Show:
		return ParseShow(parser)
	case Describe:
		return ParseDescribe(parser)
	case EOF:
		return nil, fmt.Errorf("%w: empty statement", ErrUnsupportedCommand)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCommand, token.Value)
	}
}

func ParseSelect(parser *Parser) (Statement, error) {
	var selectStatement SelectStatement

	token := parser.lexer.NextToken()
	if token.Type == Wildcard {
		selectStatement.Columns = []string{}
		if parser.lexer.NextToken().Type != From {
			return nil, ErrMissingFromClause
		}
	} else {
		for ; token.Type != From; token = parser.lexer.NextToken() {
			switch token.Type {
			case Comma:
			case Identifier:
				selectStatement.Columns = append(selectStatement.Columns, token.Value)
			case EOF:
				return nil, ErrMissingFromClause
			default:
				return nil, unexpected(token, "column name")
			}
		}
		if len(selectStatement.Columns) == 0 {
			return nil, fmt.Errorf("%w: expected column list before FROM", ErrUnexpectedToken)
		}
	}

	table, err := parser.expectName("table")
	if err != nil {
		return nil, err
	}
	selectStatement.Table = table

	token = parser.lexer.NextToken()
	switch token.Type {
	case EOF:
		return selectStatement, nil
	case Where:
		predicate, err := ParseWhere(parser)
		if err != nil {
			return nil, err
		}
		selectStatement.Where = &predicate
		return selectStatement, nil
	default:
		return nil, unexpected(token, "WHERE or end of statement")
	}
}

// ParseWhere reads `column operator literal` after the WHERE keyword.
// Single quotes around the literal are removed; double-quoted literals
// keep their quotes so they compare equal to stored text values.
func ParseWhere(parser *Parser) (core.Predicate, error) {
	var predicate core.Predicate

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return predicate, unexpected(token, "column name in WHERE clause")
	}
	predicate.Column = token.Value

	token = parser.lexer.NextToken()
	if token.Type < Equals || token.Type > GreaterThanOrEqual {
		return predicate, unexpected(token, "comparison operator")
	}
	predicate.Operator, _ = core.ParseOperator(token.Value)

	token = parser.lexer.NextToken()
	switch {
	case token.IsWord(), token.Type == Text, token.Type == String:
		predicate.Literal = token.Value
	default:
		return predicate, unexpected(token, "literal in WHERE clause")
	}

	return predicate, parser.expectEnd()
}

// ParseInsert reads `INTO table value...`. Values are whitespace or
// comma separated; a single-quoted value is stored as double-quoted
// text.
func ParseInsert(parser *Parser) (Statement, error) {
	var insertStatement InsertStatement

	token := parser.lexer.NextToken()
	if token.Type != Into {
		return nil, unexpected(token, "INTO")
	}

	table, err := parser.expectName("table")
	if err != nil {
		return nil, err
	}
	insertStatement.Table = table
	insertStatement.Values = []string{}

	for {
		token = parser.lexer.NextToken()
		switch token.Type {
		case EOF:
			return insertStatement, nil
		case Comma:
		case String:
			insertStatement.Values = append(insertStatement.Values, `"`+token.Value+`"`)
		case ParenOpen, ParenClose:
			return nil, unexpected(token, "value")
		default:
			insertStatement.Values = append(insertStatement.Values, token.Value)
		}
	}
}

func ParseDelete(parser *Parser) (Statement, error) {
	var deleteStatement DeleteStatement

	if parser.lexer.NextToken().Type != From {
		return nil, ErrMissingFromClause
	}

	table, err := parser.expectName("table")
	if err != nil {
		return nil, err
	}
	deleteStatement.Table = table

	token := parser.lexer.NextToken()
	switch token.Type {
	case EOF:
		return nil, ErrMissingWhereClause
	case Where:
	default:
		return nil, unexpected(token, "WHERE")
	}

	predicate, err := ParseWhere(parser)
	if err != nil {
		return nil, err
	}
	deleteStatement.Where = predicate

	return deleteStatement, nil
}

func ParseCreate(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case DatabaseIdentifier:
		return ParseCreateDatabase(parser)
	case TableIdentifier:
		return ParseCreateTable(parser)
	default:
		return nil, fmt.Errorf("%w: CREATE %s", ErrUnsupportedCommand, token.Value)
	}
}

func ParseCreateDatabase(parser *Parser) (Statement, error) {
	name, err := parser.expectName("database")
	if err != nil {
		return nil, err
	}
	return parser.finish(CreateDatabaseStatement{Database: name})
}

// ParseCreateTable reads `name (type)column[, (type)column]...`. Any bad
// definition fails the whole statement.
func ParseCreateTable(parser *Parser) (Statement, error) {
	var createTableStatement CreateTableStatement

	table, err := parser.expectName("table")
	if err != nil {
		return nil, err
	}
	createTableStatement.Table = table

	seen := make(map[string]bool)
	for {
		column, err := parser.parseColumnDefinition()
		if err != nil {
			return nil, err
		}
		if seen[column.Name] {
			return nil, fmt.Errorf("%w: duplicate column %s", ErrMalformedColumnDefinition, column.Name)
		}
		seen[column.Name] = true
		createTableStatement.Columns = append(createTableStatement.Columns, column)

		token := parser.lexer.NextToken()
		if token.Type == EOF {
			break
		}
		if token.Type != Comma {
			return nil, fmt.Errorf("%w: unexpected %s after column %s",
				ErrMalformedColumnDefinition, token.Value, column.Name)
		}
		if parser.lexer.PeekToken().Type == EOF {
			break
		}
	}

	return createTableStatement, nil
}

func ParseShow(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case DatabasesIdentifier:
		return parser.finish(ShowDatabasesStatement{})
	case TablesIdentifier:
		return parser.finish(ShowTablesStatement{})
	default:
		return nil, fmt.Errorf("%w: SHOW %s", ErrUnsupportedCommand, token.Value)
	}
}

func ParseDescribe(parser *Parser) (Statement, error) {
	table, err := parser.expectName("table")
	if err != nil {
		return nil, err
	}
	return parser.finish(DescribeStatement{Table: table})
}

// ParseColumnDefinition parses a single `(type)name` definition, as
// found in a CREATE TABLE statement or a persisted SCHEMA line.
// Surrounding whitespace and a trailing comma are ignored.
func ParseColumnDefinition(definition string) (core.Column, error) {
	definition = strings.TrimSpace(definition)
	definition = strings.TrimSuffix(definition, ",")

	parser := &Parser{lexer: NewLexer(definition)}
	column, err := parser.parseColumnDefinition()
	if err != nil {
		return core.Column{}, err
	}
	if token := parser.lexer.NextToken(); token.Type != EOF {
		return core.Column{}, fmt.Errorf("%w: unexpected %s in %q", ErrMalformedColumnDefinition, token.Value, definition)
	}
	return column, nil
}

func (parser *Parser) parseColumnDefinition() (core.Column, error) {
	if token := parser.lexer.NextToken(); token.Type != ParenOpen {
		return core.Column{}, fmt.Errorf("%w: expected '(' before type, got %s", ErrMalformedColumnDefinition, describe(token))
	}

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return core.Column{}, fmt.Errorf("%w: expected type, got %s", ErrMalformedColumnDefinition, describe(token))
	}
	columnType, ok := core.ParseColumnType(token.Value)
	if !ok {
		return core.Column{}, fmt.Errorf("%w: unknown type %s", ErrMalformedColumnDefinition, token.Value)
	}

	if token := parser.lexer.NextToken(); token.Type != ParenClose {
		return core.Column{}, fmt.Errorf("%w: expected ')' after type, got %s", ErrMalformedColumnDefinition, describe(token))
	}

	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return core.Column{}, fmt.Errorf("%w: expected column name, got %s", ErrMalformedColumnDefinition, describe(token))
	}

	return core.Column{Name: token.Value, Type: columnType}, nil
}

func (parser *Parser) expectName(what string) (string, error) {
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return "", unexpected(token, what+" name")
	}
	return token.Value, nil
}

func (parser *Parser) finish(statement Statement) (Statement, error) {
	if err := parser.expectEnd(); err != nil {
		return nil, err
	}
	return statement, nil
}

func (parser *Parser) expectEnd() error {
	if token := parser.lexer.NextToken(); token.Type != EOF {
		return unexpected(token, "end of statement")
	}
	return nil
}

func unexpected(token Token, expected string) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedToken, expected, describe(token))
}

func describe(token Token) string {
	if token.Type == EOF {
		return "end of statement"
	}
	return token.Value
}
