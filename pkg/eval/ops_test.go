package eval

import (
	"math"
	"testing"

	"src.tally.sh/pkg/eval/errs"
	"src.tally.sh/pkg/parse"
	. "src.tally.sh/pkg/tt"
)

func TestApplyBinary(t *testing.T) {
	Test(t, Fn("ApplyBinary", ApplyBinary), Table{
		Args(parse.Plus, int64(2), int64(3)).Rets(int64(5), nil),
		Args(parse.Minus, int64(2), int64(3)).Rets(int64(-1), nil),
		Args(parse.Star, int64(-4), int64(3)).Rets(int64(-12), nil),
		Args(parse.Slash, int64(-7), int64(2)).Rets(int64(-3), nil),
		Args(parse.Slash, int64(1), int64(0)).Rets(int64(0), errs.DivisionByZero{}),
		Args(parse.Plus, int64(math.MaxInt64), int64(1)).Rets(int64(math.MinInt64), nil),
		Args(parse.Slash, int64(math.MinInt64), int64(-1)).Rets(int64(math.MinInt64), nil),
	})
}

func TestApplyComparison(t *testing.T) {
	Test(t, Fn("ApplyComparison", ApplyComparison), Table{
		Args(parse.Less, int64(1), int64(2)).Rets(true),
		Args(parse.Less, int64(2), int64(2)).Rets(false),
		Args(parse.Greater, int64(3), int64(2)).Rets(true),
		Args(parse.Greater, int64(-3), int64(2)).Rets(false),
	})
}

func TestApplyUnary(t *testing.T) {
	Test(t, Fn("ApplyUnary", ApplyUnary), Table{
		Args(parse.Minus, int64(5)).Rets(int64(-5)),
		Args(parse.Plus, int64(5)).Rets(int64(5)),
	})
}
