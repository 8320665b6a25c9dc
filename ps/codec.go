package ps

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/sql"
)

const (
	tablePrefix  = "TABLE:"
	schemaPrefix = "SCHEMA:"
)

// Encode writes every table of database as a text block:
//
//	TABLE: items
//	SCHEMA: (int)id, (string)name
//	1	"widget"
//	<blank line>
//
// Tables are written in name order, rows in insertion order. Each value
// is followed by a tab.
func Encode(database *core.Database) []byte {
	var buf bytes.Buffer

	for _, name := range database.TableNames() {
		table := database.Tables[name]

		buf.WriteString(tablePrefix + " " + name + "\n")

		buf.WriteString(schemaPrefix + " ")
		for i, col := range table.Schema.Columns {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString("(" + col.Type.String() + ")" + col.Name)
		}
		buf.WriteByte('\n')

		for _, row := range table.Rows {
			for _, value := range row {
				buf.WriteString(value.String())
				buf.WriteByte('\t')
			}
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// Decode rebuilds the named database from encoded data. Decoding is
// permissive: schema definitions that do not parse are dropped, and row
// lines with the wrong number of values or a value that does not fit
// its column are skipped. Lines outside a table block are ignored.
func Decode(name string, data []byte) *core.Database {
	database := core.NewDatabase(name)

	var current *core.Table
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, tablePrefix):
			tableName := strings.TrimSpace(strings.TrimPrefix(line, tablePrefix))
			if tableName == "" {
				// Rows up to the next header belong to no table.
				current = nil
				continue
			}
			current = core.NewTable(core.TableSchema{Name: tableName})
			database.Tables[tableName] = current

		case strings.HasPrefix(line, schemaPrefix):
			if current == nil {
				continue
			}
			current.Schema.Columns = decodeSchema(strings.TrimPrefix(line, schemaPrefix))

		case strings.TrimSpace(line) == "":

		default:
			if current == nil || len(current.Schema.Columns) == 0 {
				continue
			}
			row, err := current.Schema.Validate(splitRow(line))
			if err != nil {
				continue
			}
			current.Rows = append(current.Rows, row)
		}
	}

	return database
}

func decodeSchema(text string) []core.Column {
	var columns []core.Column
	seen := make(map[string]bool)

	for _, definition := range strings.Split(text, ",") {
		column, err := sql.ParseColumnDefinition(definition)
		if err != nil || seen[column.Name] {
			continue
		}
		seen[column.Name] = true
		columns = append(columns, column)
	}
	return columns
}

// splitRow splits on tabs when the line has any, so text values
// containing spaces survive. Otherwise it splits on whitespace.
func splitRow(line string) []string {
	if !strings.Contains(line, "\t") {
		return strings.Fields(line)
	}

	values := strings.Split(strings.TrimSuffix(line, "\t"), "\t")
	for i := range values {
		values[i] = strings.Trim(values[i], " ")
	}
	return values
}
