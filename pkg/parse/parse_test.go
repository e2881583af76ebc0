package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.tally.sh/pkg/diag"
)

func lines(lines ...string) string { return strings.Join(lines, "\n") + "\n" }

var parseTests = []struct {
	name string
	code string
	want string
}{
	{
		name: "empty program",
		code: "",
		want: lines("Program"),
	},
	{
		name: "multiplication binds tighter than addition",
		code: "let x = 2 + 3 * 4;",
		want: lines(
			"Program",
			"  Assignment x",
			"    Binary +",
			"      IntLit 2",
			"      Binary *",
			"        IntLit 3",
			"        IntLit 4",
		),
	},
	{
		name: "arithmetic is left-associative",
		code: "let x = 8 - 2 - 1; let y = 8 / 2 / 2;",
		want: lines(
			"Program",
			"  Assignment x",
			"    Binary -",
			"      Binary -",
			"        IntLit 8",
			"        IntLit 2",
			"      IntLit 1",
			"  Assignment y",
			"    Binary /",
			"      Binary /",
			"        IntLit 8",
			"        IntLit 2",
			"      IntLit 2",
		),
	},
	{
		name: "parentheses",
		code: "let x = (2 + 3) * -y;",
		want: lines(
			"Program",
			"  Assignment x",
			"    Binary *",
			"      Binary +",
			"        IntLit 2",
			"        IntLit 3",
			"      Unary -",
			"        Ident y",
		),
	},
	{
		name: "ternary assignment",
		code: "let y = 1 < 2 ? 10 : 20;",
		want: lines(
			"Program",
			"  Assignment y",
			"    Ternary",
			"      Comparison <",
			"        IntLit 1",
			"        IntLit 2",
			"      IntLit 10",
			"      IntLit 20",
		),
	},
	{
		name: "plain assignment is not a ternary",
		code: "let z = 5;",
		want: lines(
			"Program",
			"  Assignment z",
			"    IntLit 5",
		),
	},
	{
		name: "ternary with a plain condition",
		code: "let z = n ? 1 : 0;",
		want: lines(
			"Program",
			"  Assignment z",
			"    Ternary",
			"      Ident n",
			"      IntLit 1",
			"      IntLit 0",
		),
	},
	{
		name: "comparison chain is left-associative",
		code: "let z = 1 < 2 > 0 ? 1 : 0;",
		want: lines(
			"Program",
			"  Assignment z",
			"    Ternary",
			"      Comparison >",
			"        Comparison <",
			"          IntLit 1",
			"          IntLit 2",
			"        IntLit 0",
			"      IntLit 1",
			"      IntLit 0",
		),
	},
	{
		name: "expression statement",
		code: "x + 1;",
		want: lines(
			"Program",
			"  ExprStmt",
			"    Binary +",
			"      Ident x",
			"      IntLit 1",
		),
	},
	{
		name: "repeat",
		code: "repeat 3 { let c = c + 1; }",
		want: lines(
			"Program",
			"  Repeat",
			"    IntLit 3",
			"    Assignment c",
			"      Binary +",
			"        Ident c",
			"        IntLit 1",
		),
	},
	{
		name: "if elif else",
		code: "if 3 < 2 { let a = 1; } elif 3 > 2 { let a = 2; } else { let a = 3; }",
		want: lines(
			"Program",
			"  If",
			"    CondClause",
			"      Comparison <",
			"        IntLit 3",
			"        IntLit 2",
			"      Assignment a",
			"        IntLit 1",
			"    CondClause",
			"      Comparison >",
			"        IntLit 3",
			"        IntLit 2",
			"      Assignment a",
			"        IntLit 2",
			"    Else",
			"      Assignment a",
			"        IntLit 3",
		),
	},
	{
		name: "nested blocks and empty else",
		code: "repeat n { if x > 0 { } else { } }",
		want: lines(
			"Program",
			"  Repeat",
			"    Ident n",
			"    If",
			"      CondClause",
			"        Comparison >",
			"          Ident x",
			"          IntLit 0",
			"      Else",
		),
	},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := Parse(Source{Name: "[test]", Code: test.code})
			if err != nil {
				t.Fatalf("got error %v", err)
			}
			if diff := cmp.Diff(test.want, PPrintString(tree.Root)); diff != "" {
				t.Errorf("Parse(%q) (-want +got):\n%s", test.code, diff)
			}
		})
	}
}

func TestParse_Ranges(t *testing.T) {
	tree, err := Parse(Source{Name: "[test]", Code: "let x = -y;\nif x < 1 { 2; }"})
	if err != nil {
		t.Fatal(err)
	}
	want := &Program{
		Ranging: diag.Ranging{From: 0, To: 27},
		Stmts: []Stmt{
			&Assignment{
				Ranging:   diag.Ranging{From: 0, To: 11},
				Name:      "x",
				NameRange: diag.Ranging{From: 4, To: 5},
				Value: &Unary{diag.Ranging{From: 8, To: 10}, Minus,
					&Ident{diag.Ranging{From: 9, To: 10}, "y"}},
			},
			&If{
				Ranging: diag.Ranging{From: 12, To: 27},
				Clauses: []*CondClause{{
					Ranging: diag.Ranging{From: 15, To: 27},
					Cond: &Comparison{diag.Ranging{From: 15, To: 20}, Less,
						&Ident{diag.Ranging{From: 15, To: 16}, "x"},
						&IntLit{diag.Ranging{From: 19, To: 20}, 1}},
					Body: []Stmt{
						&ExprStmt{diag.Ranging{From: 23, To: 25},
							&IntLit{diag.Ranging{From: 23, To: 24}, 2}},
					},
				}},
			},
		},
	}
	if diff := cmp.Diff(want, tree.Root); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestParse_IsIdempotent(t *testing.T) {
	src := Source{Name: "[test]", Code: "let a = 1 < 2 ? 3 : 4; repeat a { if a > 1 { a; } }"}
	tree1, err1 := Parse(src)
	tree2, err2 := Parse(src)
	if err1 != nil || err2 != nil {
		t.Fatalf("got errors %v, %v", err1, err2)
	}
	if diff := cmp.Diff(tree1.Root, tree2.Root); diff != "" {
		t.Errorf("trees differ (-first +second):\n%s", diff)
	}
}

func TestParse_Symbols(t *testing.T) {
	tree, err := Parse(Source{Name: "[test]", Code: "let b = 1; let a = b; repeat 2 { let b = a; let c = 0; }"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, tree.Symbols.Names()); diff != "" {
		t.Errorf("Names() (-want +got):\n%s", diff)
	}
	sym, ok := tree.Symbols.Lookup("b")
	if !ok || sym.Range() != (diag.Ranging{From: 4, To: 5}) {
		t.Errorf("Lookup(b) -> %v, %v; want first declaration at 4-5", sym, ok)
	}
	if _, ok := tree.Symbols.Lookup("d"); ok {
		t.Errorf("Lookup(d) found an undeclared symbol")
	}
	if i := tree.Symbols.Index("c"); i != 2 {
		t.Errorf("Index(c) -> %d, want 2", i)
	}
	wantAll := []Symbol{
		{"b", diag.Ranging{From: 4, To: 5}},
		{"a", diag.Ranging{From: 15, To: 16}},
		{"c", diag.Ranging{From: 48, To: 49}},
	}
	if diff := cmp.Diff(wantAll, tree.Symbols.All()); diff != "" {
		t.Errorf("All() (-want +got):\n%s", diff)
	}
}

func TestParse_ElseNilOrEmpty(t *testing.T) {
	parseIf := func(code string) *If {
		t.Helper()
		tree, err := Parse(Source{Name: "[test]", Code: code})
		if err != nil {
			t.Fatal(err)
		}
		return tree.Root.Stmts[0].(*If)
	}
	if n := parseIf("if 1 < 2 { }"); n.Else != nil {
		t.Errorf("no else clause: Else = %#v, want nil", n.Else)
	}
	if n := parseIf("if 1 < 2 { } else { }"); n.Else == nil || len(n.Else) != 0 {
		t.Errorf("empty else clause: Else = %#v, want empty non-nil", n.Else)
	}
}

var parseErrorTests = []struct {
	name    string
	code    string
	wantPos diag.Position
	wantMsg string
}{
	{
		name:    "missing semicolon",
		code:    "let x = 1",
		wantPos: diag.Position{Line: 1, Col: 10},
		wantMsg: "unexpected end of input, should be ';'",
	},
	{
		name:    "missing identifier",
		code:    "let = 1;",
		wantPos: diag.Position{Line: 1, Col: 5},
		wantMsg: "unexpected '=', should be identifier",
	},
	{
		name:    "keyword as identifier",
		code:    "let if = 1;",
		wantPos: diag.Position{Line: 1, Col: 5},
		wantMsg: "unexpected 'if', should be identifier",
	},
	{
		name:    "missing operand",
		code:    "let x = * 2;",
		wantPos: diag.Position{Line: 1, Col: 9},
		wantMsg: "unexpected '*', should be integer, identifier or '('",
	},
	{
		name:    "sign applies to literals and identifiers only",
		code:    "let x = -(1);",
		wantPos: diag.Position{Line: 1, Col: 10},
		wantMsg: "unexpected '(', should be integer or identifier",
	},
	{
		name:    "assigning a comparison",
		code:    "let y = 1 < 2;",
		wantPos: diag.Position{Line: 1, Col: 9},
		wantMsg: errAssignComparison,
	},
	{
		name:    "comparison as statement",
		code:    "1 < 2;",
		wantPos: diag.Position{Line: 1, Col: 1},
		wantMsg: errComparisonStmt,
	},
	{
		name:    "ternary as statement",
		code:    "1 < 2 ? 3 : 4;",
		wantPos: diag.Position{Line: 1, Col: 1},
		wantMsg: errTernaryStmt,
	},
	{
		name:    "comparison inside parentheses",
		code:    "let x = (1 < 2);",
		wantPos: diag.Position{Line: 1, Col: 12},
		wantMsg: errComparisonOperand,
	},
	{
		name:    "comparison in ternary branch",
		code:    "let x = 1 < 2 ? 3 < 4 : 5;",
		wantPos: diag.Position{Line: 1, Col: 19},
		wantMsg: "unexpected '<', should be ':'",
	},
	{
		name:    "ternary as if condition",
		code:    "if 1 < 2 ? 1 : 2 { }",
		wantPos: diag.Position{Line: 1, Col: 10},
		wantMsg: "unexpected '?', should be '{'",
	},
	{
		name:    "unterminated block",
		code:    "repeat 3 {\n  let a = 1;",
		wantPos: diag.Position{Line: 2, Col: 13},
		wantMsg: "unexpected end of input, should be '}'",
	},
	{
		name:    "dangling else",
		code:    "else { }",
		wantPos: diag.Position{Line: 1, Col: 1},
		wantMsg: "unexpected 'else', should be 'let', 'repeat', 'if' or expression",
	},
	{
		name:    "stray closing brace",
		code:    "let a = 1; }",
		wantPos: diag.Position{Line: 1, Col: 12},
		wantMsg: "unexpected '}', should be statement",
	},
	{
		name:    "integer found is quoted",
		code:    "let a 1;",
		wantPos: diag.Position{Line: 1, Col: 7},
		wantMsg: `unexpected integer "1", should be '='`,
	},
}

func TestParse_Errors(t *testing.T) {
	for _, test := range parseErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(Source{Name: "[test]", Code: test.code})
			e, ok := err.(*diag.Error)
			if !ok {
				t.Fatalf("got error %v (%T), want *diag.Error", err, err)
			}
			if e.Type != diag.ParseErrorType {
				t.Errorf("got type %q, want %q", e.Type, diag.ParseErrorType)
			}
			if e.Position() != test.wantPos {
				t.Errorf("got position %v, want %v", e.Position(), test.wantPos)
			}
			if e.Message != test.wantMsg {
				t.Errorf("got message %q, want %q", e.Message, test.wantMsg)
			}
		})
	}
}

func TestParse_LexErrorsPropagateUnchanged(t *testing.T) {
	_, err := Parse(Source{Name: "[test]", Code: "let a = 1 % 2;"})
	if e, ok := err.(*diag.Error); !ok || e.Type != diag.LexErrorType {
		t.Errorf("got error %v, want a lex error", err)
	}
}

func TestParseTokens_RequiresEOF(t *testing.T) {
	_, err := ParseTokens(Source{Name: "[test]"}, nil)
	if err == nil {
		t.Errorf("got nil error for a token sequence without EOF")
	}
}
