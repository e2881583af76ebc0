package eval

import (
	"fmt"

	"src.tally.sh/pkg/eval/errs"
	"src.tally.sh/pkg/parse"
)

// Integers are 64-bit signed. Overflow wraps around, and division truncates
// toward zero.

// ApplyBinary applies an arithmetic operator. The only possible error is
// errs.DivisionByZero.
func ApplyBinary(op parse.Kind, l, r int64) (int64, error) {
	switch op {
	case parse.Plus:
		return l + r, nil
	case parse.Minus:
		return l - r, nil
	case parse.Star:
		return l * r, nil
	case parse.Slash:
		if r == 0 {
			return 0, errs.DivisionByZero{}
		}
		return l / r, nil
	}
	panic(fmt.Sprintf("bad arithmetic operator %v", op))
}

// ApplyComparison applies a comparison operator.
func ApplyComparison(op parse.Kind, l, r int64) bool {
	switch op {
	case parse.Greater:
		return l > r
	case parse.Less:
		return l < r
	}
	panic(fmt.Sprintf("bad comparison operator %v", op))
}

// ApplyUnary applies a sign.
func ApplyUnary(op parse.Kind, v int64) int64 {
	if op == parse.Minus {
		return -v
	}
	return v
}

// BoolToInt converts the result of a comparison to a value: 1 for true and 0
// for false.
func BoolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
