package testutil

import (
	"testing"

	. "src.tally.sh/pkg/tt"
)

func TestDedent(t *testing.T) {
	Test(t, Fn("Dedent", Dedent), Table{
		Args(" \n  foo\n bar").Rets("\n foo\nbar"),
		// Leading newline
		Args("\n\t\t\ta\n\t\t\t b\n\t\t\tc").Rets("a\n b\nc"),
		// Leading and trailing newline
		Args("\n\t\t\ta\n\t\t\t b\n\t\t\tc\n\t\t\t").Rets("a\n b\nc\n"),
		// Only the common part of the indentation is removed
		Args("\n\t\t\t\ta\n\t\t\tb").Rets("\ta\nb"),
		Args("\n\t a\n\t\tb").Rets(" a\n\tb"),
		// No indentation
		Args("a\n  b").Rets("a\n  b"),
		Args("").Rets(""),
	})
}
