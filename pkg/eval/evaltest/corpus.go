package evaltest

import (
	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/eval"
)

// Corpus is a set of cases that every Runner must pass.
var Corpus = []Case{
	// Arithmetic and precedence.
	That("let x = 2 + 3 * 4;").Binds("x", 14),
	That("let x = (2 + 3) * 4;").Binds("x", 20),
	That("let x = 8 - 2 - 1;").Binds("x", 5),
	That("let x = 100 / 10 / 5;").Binds("x", 2),
	That("let x = 7 / 2; let y = -7 / 2;").Binds("x", 3).Binds("y", -3),
	That("let a = 5; let b = -a; let c = +a; let d = 0 - -3;").
		Binds("b", -5).Binds("c", 5).Binds("d", 3),
	// Integers are 64-bit and wrap around.
	That("let m = 9223372036854775807; let n = m + 1;").
		Binds("n", -9223372036854775808),

	// Assignment forms.
	That("let z = 5;").BindsExactly(eval.Binding{Name: "z", Value: 5}),
	That("let y = 1 < 2 ? 10 : 20;").Binds("y", 10),
	That("let y = 1 > 2 ? 10 : 20;").Binds("y", 20),
	That("let n = 0; let y = n ? 1 : 2;").Binds("y", 2),
	That("let y = 3 > 2 > 0 ? 1 : 0;").Binds("y", 1),
	That("let y = 3 > 2 > 1 ? 1 : 0;").Binds("y", 0),
	That("let a = 1; let a = a + 1; let b = a;").
		BindsExactly(eval.Binding{Name: "a", Value: 2}, eval.Binding{Name: "b", Value: 2}),

	// Ternary evaluates only one branch.
	That("let y = 1 < 2 ? 1 : 1 / 0;").Binds("y", 1),
	That("let u = 1 > 2 ? 1 / 0 : 7;").Binds("u", 7),

	// Conditionals.
	That("if 3 < 2 { let a = 1; } elif 3 > 2 { let a = 2; } else { let a = 3; }").
		Binds("a", 2),
	That("if 1 < 2 { let a = 1; } elif 1 / 0 > 0 { let a = 2; }").Binds("a", 1),
	That("if 2 < 1 { let a = 1; } elif 3 < 1 { let a = 2; } else { let a = 3; }").
		Binds("a", 3),
	That("if 2 < 1 { let a = 1; }").BindsNothing(),
	That("let x = 5; if x { let t = 1; } if x - 5 { let f = 1; }").
		BindsExactly(eval.Binding{Name: "x", Value: 5}, eval.Binding{Name: "t", Value: 1}),

	// Repetition.
	That("let c = 0;", "repeat 3 { let c = c + 1; }").Binds("c", 3),
	That("let c = 0; repeat 0 { let c = c + 1; }").Binds("c", 0),
	That("let c = 0; repeat (0-1) { let c = c + 1; }").
		BindsExactly(eval.Binding{Name: "c", Value: 0}),
	// The count is evaluated once, before the loop begins.
	That("let n = 3; let i = 0; repeat n { let n = n + 1; let i = i + 1; }").
		Binds("i", 3).Binds("n", 6),
	That("let s = 0; repeat 3 { repeat 4 { let s = s + 1; } }").Binds("s", 12),
	// Blocks do not introduce scopes.
	That("repeat 1 { let inner = 1; } let outer = inner;").Binds("outer", 1),
	That(
		"let a = 0; let b = 1; let i = 0;",
		"repeat 10 { let t = a + b; let a = b; let b = t; let i = i + 1; }",
	).Binds("a", 55).Binds("i", 10),
	That(
		"let n = 10; let odd = 0;",
		"repeat n { if n - n / 2 * 2 > 0 { let odd = odd + 1; } let n = n - 1; }",
	).Binds("odd", 5).Binds("n", 0),

	// Expression statements have no effect on the environment.
	That("1 + 2; let a = 3; a * 2;").
		BindsExactly(eval.Binding{Name: "a", Value: 3}).Prints("3\n6\n"),
	That("# comment only").BindsNothing().Prints(""),

	// Runtime errors.
	That("repeat 3 { let c = c + 1; }").Throws(diag.NameErrorType, "c"),
	That("let d = 10 / 0;").Throws(diag.DivisionByZeroErrorType, "10 / 0"),
	That("let z = 0; let d = 1 + 10 / z;").Throws(diag.DivisionByZeroErrorType, "10 / z"),
	That("let a = 1; repeat 5 { let a = a - 1; let b = 10 / a; }").
		Throws(diag.DivisionByZeroErrorType, "10 / a").Binds("a", 0),
	That("let x = 1;\nlet y = x + q;\nlet q = 1;").Throws(diag.NameErrorType, "q"),

	// Lex and parse errors are reported before anything runs.
	That("let x = 1; let y = 2 $ 3;").Throws(diag.LexErrorType, "$"),
	That("let x = 1; let y = 1 < 2;").Throws(diag.ParseErrorType, "1 < 2"),
}
