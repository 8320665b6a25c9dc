package core

import (
	"errors"
	"fmt"
)

var (
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrColumnCountMismatch = errors.New("column count mismatch")
)

// TypeMismatchError reports the first value that does not conform to
// its column's declared type.
type TypeMismatchError struct {
	Column   string
	Expected ColumnType
	Value    string
}

func (e *TypeMismatchError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Value)
	}
	return fmt.Sprintf("type mismatch: column %s expects %s, got %s", e.Column, e.Expected, e.Value)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

type ColumnCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("column count mismatch: table has %d columns, got %d values", e.Expected, e.Actual)
}

func (e *ColumnCountMismatchError) Is(target error) bool {
	return target == ErrColumnCountMismatch
}
