package core

// Validate checks a candidate row against the schema and returns the
// typed row. The column count is checked first; then values are checked
// left to right and the first failing column is reported.
func (s TableSchema) Validate(values []string) (Row, error) {
	if len(values) != len(s.Columns) {
		return nil, &ColumnCountMismatchError{Expected: len(s.Columns), Actual: len(values)}
	}

	row := make(Row, len(values))
	for i, col := range s.Columns {
		v, err := ParseValue(col.Type, values[i])
		if err != nil {
			return nil, &TypeMismatchError{Column: col.Name, Expected: col.Type, Value: values[i]}
		}
		row[i] = v
	}
	return row, nil
}
