package core

import (
	"slices"
	"strings"
)

type ColumnType int

const (
	IntType ColumnType = iota
	FloatType
	TextType
	DateType
)

// String returns the type name used in column definitions and on disk.
func (t ColumnType) String() string {
	switch t {
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case TextType:
		return "string"
	case DateType:
		return "date"
	default:
		return "unknown"
	}
}

// ParseColumnType resolves a type token such as "int" or "STRING".
func ParseColumnType(name string) (ColumnType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer":
		return IntType, true
	case "float", "double", "real":
		return FloatType, true
	case "string", "text":
		return TextType, true
	case "date":
		return DateType, true
	default:
		return 0, false
	}
}

type Column struct {
	Name string
	Type ColumnType
}

// TableSchema is the fixed, ordered column layout of a table.
type TableSchema struct {
	Name    string
	Columns []Column
}

// ColumnIndex returns the position of the named column.
func (s TableSchema) ColumnIndex(name string) (int, bool) {
	for i, col := range s.Columns {
		if col.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// Row holds one value per schema column, in schema order.
type Row []Value

// Strings returns the canonical text of every cell.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}

type Table struct {
	Schema TableSchema
	Rows   []Row
}

func NewTable(schema TableSchema) *Table {
	return &Table{Schema: schema}
}

type Database struct {
	Name   string
	Tables map[string]*Table
}

func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		Tables: make(map[string]*Table),
	}
}

// TableNames returns the table names in lexical order.
func (d *Database) TableNames() []string {
	names := make([]string, 0, len(d.Tables))
	for name := range d.Tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Identity identifies who issued a commit.
type Identity struct {
	Name  string
	Email string
}

func (i Identity) String() string {
	if i.Email == "" {
		return i.Name
	}
	return i.Name + " <" + i.Email + ">"
}
