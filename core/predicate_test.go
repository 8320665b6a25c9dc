package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		lhs  string
		op   Operator
		rhs  string
		want bool
	}{
		{"5", Equals, "5", true},
		{"05", Equals, "5", false},
		{`"widget"`, Equals, `"widget"`, true},
		{"a", NotEquals, "b", true},
		{"a", NotEquals, "a", false},
		{"3", LessThan, "10", true},
		{"10", LessThan, "3", false},
		{"10", GreaterThan, "3", true},
		{"3", LessThanOrEqual, "3", true},
		{"3", GreaterThanOrEqual, "4", false},
		{"007", GreaterThanOrEqual, "7", true},
		{"99999999999999999999", GreaterThan, "1", true},
		{"abc", LessThan, "10", false},
		{"9.99", GreaterThan, "5", false},
		{"", LessThan, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.lhs+" "+tt.op.String()+" "+tt.rhs, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.lhs, tt.op, tt.rhs))
		})
	}
}

func TestParseOperator(t *testing.T) {
	for _, s := range []string{"=", "<>", "<", ">", "<=", ">="} {
		op, ok := ParseOperator(s)
		assert.True(t, ok, s)
		assert.Equal(t, s, op.String())
	}

	_, ok := ParseOperator("!=")
	assert.False(t, ok)
}
