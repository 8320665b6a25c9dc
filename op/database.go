package op

import (
	"fmt"

	"github.com/nickyhof/MyDB/core"
)

type DatabaseOp struct {
	Database *core.Database
}

func (op *DatabaseOp) Name() string {
	return op.Database.Name
}

// CreateTable installs a fresh empty table. An existing table of the
// same name is discarded along with its rows; replaced reports whether
// that happened.
func (op *DatabaseOp) CreateTable(schema core.TableSchema) (replaced bool) {
	_, replaced = op.Database.Tables[schema.Name]
	op.Database.Tables[schema.Name] = core.NewTable(schema)
	return replaced
}

func (op *DatabaseOp) GetTable(name string) (*TableOp, error) {
	table, ok := op.Database.Tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return &TableOp{Table: table}, nil
}

func (op *DatabaseOp) TableNames() []string {
	return op.Database.TableNames()
}

// RowCount is the total number of rows across all tables.
func (op *DatabaseOp) RowCount() int {
	n := 0
	for _, table := range op.Database.Tables {
		n += len(table.Rows)
	}
	return n
}
