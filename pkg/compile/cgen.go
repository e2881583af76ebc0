package compile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/eval/errs"
	"src.tally.sh/pkg/parse"
)

const cPrelude = `#include <stdio.h>
#include <stdlib.h>

typedef long long num;
typedef unsigned long long unum;

static void fail(const char *msg) {
	fprintf(stderr, "%s\n", msg);
	exit(2);
}

static num add(num l, num r) { return (num)((unum)l + (unum)r); }
static num sub(num l, num r) { return (num)((unum)l - (unum)r); }
static num mul(num l, num r) { return (num)((unum)l * (unum)r); }
static num neg(num v) { return (num)(0 - (unum)v); }

static num quo(num l, num r, const char *msg) {
	if (r == 0)
		fail(msg);
	if (r == -1)
		return neg(l);
	return l / r;
}

static num get(int set, num v, const char *msg) {
	if (!set)
		fail(msg);
	return v;
}
`

// EmitC writes a C translation of the tree to w. The C program prints the
// values of expression statements as they are evaluated, and the bound
// variables in declaration order when it finishes. On a runtime error it
// prints the same message as the interpreter and exits with status 2.
//
// The tree is subject to the same static checks as Compile.
func EmitC(w io.Writer, tree parse.Tree) error {
	if _, err := Compile(tree, Config{}); err != nil {
		return err
	}
	g := &cgen{bufio.NewWriter(w), tree.Source, 0}
	fmt.Fprintf(g.w, "/* Generated from %s. */\n", cComment(tree.Source.Name))
	g.w.WriteString(cPrelude)
	g.w.WriteString("\nint main(void) {\n")
	names := tree.Symbols.Names()
	for _, name := range names {
		fmt.Fprintf(g.w, "\tnum v_%s = 0;\n\tint set_%s = 0;\n", name, name)
	}
	g.stmts(tree.Root.Stmts, 1)
	for _, name := range names {
		fmt.Fprintf(g.w, "\tif (set_%s)\n\t\tprintf(\"%s = %%lld\\n\", v_%s);\n",
			name, name, name)
	}
	g.w.WriteString("\treturn 0;\n}\n")
	return g.w.Flush()
}

type cgen struct {
	w     *bufio.Writer
	src   parse.Source
	depth int
}

func (g *cgen) line(indent int, format string, args ...any) {
	g.w.WriteString(strings.Repeat("\t", indent))
	fmt.Fprintf(g.w, format, args...)
	g.w.WriteByte('\n')
}

func (g *cgen) stmts(stmts []parse.Stmt, indent int) {
	for _, stmt := range stmts {
		g.stmt(stmt, indent)
	}
}

func (g *cgen) stmt(stmt parse.Stmt, indent int) {
	switch stmt := stmt.(type) {
	case *parse.ExprStmt:
		g.line(indent, "printf(\"%%lld\\n\", %s);", g.expr(stmt.X))
	case *parse.Assignment:
		g.line(indent, "v_%s = %s;", stmt.Name, g.expr(stmt.Value))
		g.line(indent, "set_%s = 1;", stmt.Name)
	case *parse.Repeat:
		g.depth++
		c := fmt.Sprintf("c%d", g.depth)
		g.line(indent, "for (num %s = %s; %s > 0; %s--) {", c, g.expr(stmt.Count), c, c)
		g.stmts(stmt.Body, indent+1)
		g.line(indent, "}")
		g.depth--
	case *parse.If:
		for i, clause := range stmt.Clauses {
			kw := "if"
			if i > 0 {
				kw = "} else if"
			}
			g.line(indent, "%s (%s) {", kw, g.cond(clause.Cond))
			g.stmts(clause.Body, indent+1)
		}
		if len(stmt.Else) > 0 {
			g.line(indent, "} else {")
			g.stmts(stmt.Else, indent+1)
		}
		g.line(indent, "}")
	default:
		panic(fmt.Sprintf("unknown statement type %T", stmt))
	}
}

func (g *cgen) cond(x parse.Expr) string {
	if cmp, ok := x.(*parse.Comparison); ok {
		return fmt.Sprintf("%s %s %s", g.expr(cmp.Left), cmp.Op.Symbol(), g.expr(cmp.Right))
	}
	return g.expr(x) + " != 0"
}

var cFuncs = map[parse.Kind]string{
	parse.Plus: "add", parse.Minus: "sub", parse.Star: "mul"}

func (g *cgen) expr(x parse.Expr) string {
	switch x := x.(type) {
	case *parse.IntLit:
		if x.Value == math.MinInt64 {
			return "(-9223372036854775807LL - 1)"
		}
		return fmt.Sprintf("%dLL", x.Value)
	case *parse.Ident:
		return fmt.Sprintf("get(set_%s, v_%s, %s)", x.Name, x.Name,
			g.errorMsg(x, errs.NameError{Name: x.Name}))
	case *parse.Unary:
		if x.Op == parse.Minus {
			return "neg(" + g.expr(x.Operand) + ")"
		}
		return g.expr(x.Operand)
	case *parse.Binary:
		l, r := g.expr(x.Left), g.expr(x.Right)
		if x.Op == parse.Slash {
			return fmt.Sprintf("quo(%s, %s, %s)", l, r, g.errorMsg(x, errs.DivisionByZero{}))
		}
		return fmt.Sprintf("%s(%s, %s)", cFuncs[x.Op], l, r)
	case *parse.Comparison:
		return "(num)(" + g.cond(x) + ")"
	case *parse.Ternary:
		return fmt.Sprintf("(%s ? %s : %s)", g.cond(x.Cond), g.expr(x.Then), g.expr(x.Else))
	default:
		panic(fmt.Sprintf("unknown expression type %T", x))
	}
}

// errorMsg returns a C string literal with the message of the runtime error
// cause would raise at r.
func (g *cgen) errorMsg(r diag.Ranger, cause error) string {
	return cQuote(eval.NewRuntimeError(g.src, r, cause).Error())
}

func cQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\%03o`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func cComment(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
