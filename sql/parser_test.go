package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickyhof/MyDB/core"
)

func TestParser(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected Statement
	}{
		{
			"create database",
			"CREATE DATABASE shop;",
			CreateDatabaseStatement{Database: "shop"},
		},
		{
			"create table",
			"CREATE TABLE items (int)id, (string)name;",
			CreateTableStatement{
				Table: "items",
				Columns: []core.Column{
					{Name: "id", Type: core.IntType},
					{Name: "name", Type: core.TextType},
				},
			},
		},
		{
			"create table all types",
			"CREATE TABLE log (date)day,(float)amount, ( int ) qty",
			CreateTableStatement{
				Table: "log",
				Columns: []core.Column{
					{Name: "day", Type: core.DateType},
					{Name: "amount", Type: core.FloatType},
					{Name: "qty", Type: core.IntType},
				},
			},
		},
		{
			"use",
			"USE shop",
			UseStatement{Database: "shop"},
		},
		{
			"load",
			"LOAD shop;",
			LoadStatement{Database: "shop"},
		},
		{
			"insert",
			`INSERT INTO items 1 "widget";`,
			InsertStatement{Table: "items", Values: []string{"1", `"widget"`}},
		},
		{
			"insert text with spaces and commas",
			`INSERT INTO items 2, "big, red widget", 4.50`,
			InsertStatement{Table: "items", Values: []string{"2", `"big, red widget"`, "4.50"}},
		},
		{
			"insert single quoted",
			"INSERT INTO items 3 'gadget'",
			InsertStatement{Table: "items", Values: []string{"3", `"gadget"`}},
		},
		{
			"select wildcard",
			"SELECT * FROM items;",
			SelectStatement{Table: "items", Columns: []string{}},
		},
		{
			"select columns",
			"SELECT id, name FROM items",
			SelectStatement{Table: "items", Columns: []string{"id", "name"}},
		},
		{
			"select columns without spaces",
			"SELECT id,name FROM items",
			SelectStatement{Table: "items", Columns: []string{"id", "name"}},
		},
		{
			"select with where",
			"SELECT * FROM items WHERE id >= 10",
			SelectStatement{
				Table:   "items",
				Columns: []string{},
				Where:   &core.Predicate{Column: "id", Operator: core.GreaterThanOrEqual, Literal: "10"},
			},
		},
		{
			"select where single quoted",
			"SELECT name FROM items WHERE name <> 'green'",
			SelectStatement{
				Table:   "items",
				Columns: []string{"name"},
				Where:   &core.Predicate{Column: "name", Operator: core.NotEquals, Literal: "green"},
			},
		},
		{
			"select where double quoted",
			`SELECT name FROM items WHERE name = "widget"`,
			SelectStatement{
				Table:   "items",
				Columns: []string{"name"},
				Where:   &core.Predicate{Column: "name", Operator: core.Equals, Literal: `"widget"`},
			},
		},
		{
			"delete",
			"DELETE FROM items WHERE id = 1;",
			DeleteStatement{
				Table: "items",
				Where: core.Predicate{Column: "id", Operator: core.Equals, Literal: "1"},
			},
		},
		{
			"commit",
			"COMMIT;",
			CommitStatement{},
		},
		{
			"show databases",
			"SHOW DATABASES",
			ShowDatabasesStatement{},
		},
		{
			"show tables",
			"SHOW TABLES;",
			ShowTablesStatement{},
		},
		{
			"describe",
			"DESCRIBE items",
			DescribeStatement{Table: "items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, err := NewParser(tt.sql).Parse()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, statement)
			assert.Equal(t, tt.expected.Type(), statement.Type())
		})
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected error
	}{
		{"empty", "", ErrUnsupportedCommand},
		{"unknown keyword", "DROP TABLE items", ErrUnsupportedCommand},
		{"lowercase keyword", "select * from items", ErrUnsupportedCommand},
		{"unsupported create", "CREATE INDEX idx", ErrUnsupportedCommand},
		{"unsupported show", "SHOW INDEXES", ErrUnsupportedCommand},
		{"missing type parens", "CREATE TABLE items int id", ErrMalformedColumnDefinition},
		{"missing close paren", "CREATE TABLE items (int id", ErrMalformedColumnDefinition},
		{"empty type", "CREATE TABLE items ()id", ErrMalformedColumnDefinition},
		{"unknown type", "CREATE TABLE items (blob)data", ErrMalformedColumnDefinition},
		{"missing column name", "CREATE TABLE items (int)", ErrMalformedColumnDefinition},
		{"one bad definition", "CREATE TABLE items (int)id, name", ErrMalformedColumnDefinition},
		{"duplicate column", "CREATE TABLE items (int)id, (string)id", ErrMalformedColumnDefinition},
		{"no definitions", "CREATE TABLE items", ErrMalformedColumnDefinition},
		{"select without from", "SELECT id name", ErrMissingFromClause},
		{"select wildcard without from", "SELECT * items", ErrMissingFromClause},
		{"select no columns", "SELECT FROM items", ErrUnexpectedToken},
		{"select trailing tokens", "SELECT * FROM items LIMIT 1", ErrUnexpectedToken},
		{"bad operator", "SELECT * FROM items WHERE id != 1", ErrUnexpectedToken},
		{"missing literal", "SELECT * FROM items WHERE id =", ErrUnexpectedToken},
		{"delete without from", "DELETE items WHERE id = 1", ErrMissingFromClause},
		{"delete without where", "DELETE FROM items;", ErrMissingWhereClause},
		{"insert without into", "INSERT items 1", ErrUnexpectedToken},
		{"use without name", "USE", ErrUnexpectedToken},
		{"commit with argument", "COMMIT shop", ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, err := NewParser(tt.sql).Parse()
			require.ErrorIs(t, err, tt.expected)
			assert.Nil(t, statement)
		})
	}
}

func TestParseErrorHierarchy(t *testing.T) {
	for _, err := range []error{ErrUnsupportedCommand, ErrMalformedColumnDefinition, ErrMissingFromClause, ErrUnexpectedToken} {
		assert.ErrorIs(t, err, ErrParse)
	}
	assert.NotErrorIs(t, ErrMissingWhereClause, ErrParse)
}

func TestParseColumnDefinition(t *testing.T) {
	column, err := ParseColumnDefinition(" (float)price, ")
	require.NoError(t, err)
	assert.Equal(t, core.Column{Name: "price", Type: core.FloatType}, column)

	_, err = ParseColumnDefinition("price")
	assert.ErrorIs(t, err, ErrMalformedColumnDefinition)

	_, err = ParseColumnDefinition("(int)id extra")
	assert.ErrorIs(t, err, ErrMalformedColumnDefinition)
}
