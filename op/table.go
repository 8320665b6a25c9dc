package op

import (
	"fmt"
	"iter"

	"github.com/nickyhof/MyDB/core"
)

type TableOp struct {
	Table *core.Table
}

func (op *TableOp) Schema() core.TableSchema {
	return op.Table.Schema
}

func (op *TableOp) Count() int {
	return len(op.Table.Rows)
}

// Insert validates values against the schema and appends them as one
// row. Nothing is stored on error. It returns the new row count.
func (op *TableOp) Insert(values []string) (int, error) {
	row, err := op.Table.Schema.Validate(values)
	if err != nil {
		return len(op.Table.Rows), err
	}
	op.Table.Rows = append(op.Table.Rows, row)
	return len(op.Table.Rows), nil
}

// Scan yields every row in insertion order.
func (op *TableOp) Scan() iter.Seq[core.Row] {
	return func(yield func(core.Row) bool) {
		for _, row := range op.Table.Rows {
			if !yield(row) {
				return
			}
		}
	}
}

// ScanWithFilter yields the rows matching where.
func (op *TableOp) ScanWithFilter(where core.Predicate) (iter.Seq[core.Row], error) {
	index, err := op.columnIndex(where.Column)
	if err != nil {
		return nil, err
	}
	return func(yield func(core.Row) bool) {
		for _, row := range op.Table.Rows {
			if core.Evaluate(row[index].String(), where.Operator, where.Literal) && !yield(row) {
				return
			}
		}
	}, nil
}

// Select resolves a projection over the table. An empty columns list
// selects every column. Selected columns keep their declaration order.
func (op *TableOp) Select(columns []string, where *core.Predicate) (*Projection, error) {
	requested := make(map[string]bool, len(columns))
	for _, name := range columns {
		if _, err := op.columnIndex(name); err != nil {
			return nil, err
		}
		requested[name] = true
	}

	projection := &Projection{}
	for i, col := range op.Table.Schema.Columns {
		if len(columns) == 0 || requested[col.Name] {
			projection.Columns = append(projection.Columns, col.Name)
			projection.indexes = append(projection.indexes, i)
		}
	}

	rows := op.Scan()
	if where != nil {
		filtered, err := op.ScanWithFilter(*where)
		if err != nil {
			return nil, err
		}
		rows = filtered
	}
	projection.rows = rows

	return projection, nil
}

// Delete removes every row matching where, keeping survivors in order,
// and returns the number removed.
func (op *TableOp) Delete(where core.Predicate) (int, error) {
	index, err := op.columnIndex(where.Column)
	if err != nil {
		return 0, err
	}

	kept := op.Table.Rows[:0]
	for _, row := range op.Table.Rows {
		if !core.Evaluate(row[index].String(), where.Operator, where.Literal) {
			kept = append(kept, row)
		}
	}
	removed := len(op.Table.Rows) - len(kept)
	clear(op.Table.Rows[len(kept):])
	op.Table.Rows = kept

	return removed, nil
}

func (op *TableOp) columnIndex(name string) (int, error) {
	index, ok := op.Table.Schema.ColumnIndex(name)
	if !ok {
		return -1, fmt.Errorf("%w: %s in table %s", ErrUnknownColumn, name, op.Table.Schema.Name)
	}
	return index, nil
}

// Projection is the lazy result of a Select. Rows are read from the
// table each time All is ranged over.
type Projection struct {
	Columns []string

	indexes []int
	rows    iter.Seq[core.Row]
}

// All yields the projected cell text of each matching row.
func (p *Projection) All() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for row := range p.rows {
			out := make([]string, len(p.indexes))
			for i, index := range p.indexes {
				out[i] = row[index].String()
			}
			if !yield(out) {
				return
			}
		}
	}
}

// Collect materializes every projected row.
func (p *Projection) Collect() [][]string {
	var out [][]string
	for row := range p.All() {
		out = append(out, row)
	}
	return out
}
