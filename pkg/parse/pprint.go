package parse

import (
	"fmt"
	"io"
	"strings"
)

const indentInc = 2

// PPrint pretty-prints the AST rooted at n to w, one node per line, children
// indented below their parent.
func PPrint(w io.Writer, n Node) {
	pprintRec(w, n, 0)
}

// PPrintString is like PPrint, but returns the output as a string.
func PPrintString(n Node) string {
	var sb strings.Builder
	PPrint(&sb, n)
	return sb.String()
}

func pprintRec(w io.Writer, n Node, indent int) {
	line := func(format string, args ...any) {
		fmt.Fprintf(w, "%*s", indent, "")
		fmt.Fprintf(w, format, args...)
		fmt.Fprintln(w)
	}
	stmts := func(stmts []Stmt) {
		for _, stmt := range stmts {
			pprintRec(w, stmt, indent+indentInc)
		}
	}
	child := func(n Node) { pprintRec(w, n, indent+indentInc) }

	switch n := n.(type) {
	case *Program:
		line("Program")
		stmts(n.Stmts)
	case *ExprStmt:
		line("ExprStmt")
		child(n.X)
	case *Assignment:
		line("Assignment %s", n.Name)
		child(n.Value)
	case *Repeat:
		line("Repeat")
		child(n.Count)
		stmts(n.Body)
	case *If:
		line("If")
		for _, clause := range n.Clauses {
			child(clause)
		}
		if n.Else != nil {
			fmt.Fprintf(w, "%*sElse\n", indent+indentInc, "")
			for _, stmt := range n.Else {
				pprintRec(w, stmt, indent+2*indentInc)
			}
		}
	case *CondClause:
		line("CondClause")
		child(n.Cond)
		stmts(n.Body)
	case *Binary:
		line("Binary %s", n.Op.Symbol())
		child(n.Left)
		child(n.Right)
	case *Comparison:
		line("Comparison %s", n.Op.Symbol())
		child(n.Left)
		child(n.Right)
	case *Ternary:
		line("Ternary")
		child(n.Cond)
		child(n.Then)
		child(n.Else)
	case *Unary:
		line("Unary %s", n.Op.Symbol())
		child(n.Operand)
	case *IntLit:
		line("IntLit %d", n.Value)
	case *Ident:
		line("Ident %s", n.Name)
	default:
		panic(fmt.Sprintf("unknown node type %T", n))
	}
}
