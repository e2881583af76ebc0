package compile

import (
	"fmt"

	"src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/parse"
)

// Optimize returns a copy of the tree with constant subexpressions folded.
// Arithmetic, sign and comparison nodes whose operands are all literals are
// replaced by a literal spanning the same range. A division by zero is left
// alone, so that it fails at run time like it does in the interpreter. The
// original tree is not modified; the symbol table is shared.
func Optimize(tree parse.Tree) parse.Tree {
	root := &parse.Program{Ranging: tree.Root.Ranging, Stmts: foldStmts(tree.Root.Stmts)}
	return parse.Tree{Root: root, Symbols: tree.Symbols, Source: tree.Source}
}

func foldStmts(stmts []parse.Stmt) []parse.Stmt {
	if stmts == nil {
		return nil
	}
	folded := make([]parse.Stmt, len(stmts))
	for i, stmt := range stmts {
		folded[i] = foldStmt(stmt)
	}
	return folded
}

func foldStmt(stmt parse.Stmt) parse.Stmt {
	switch stmt := stmt.(type) {
	case *parse.ExprStmt:
		return &parse.ExprStmt{Ranging: stmt.Ranging, X: fold(stmt.X)}
	case *parse.Assignment:
		a := *stmt
		a.Value = fold(stmt.Value)
		return &a
	case *parse.Repeat:
		return &parse.Repeat{Ranging: stmt.Ranging,
			Count: fold(stmt.Count), Body: foldStmts(stmt.Body)}
	case *parse.If:
		clauses := make([]*parse.CondClause, len(stmt.Clauses))
		for i, c := range stmt.Clauses {
			clauses[i] = &parse.CondClause{Ranging: c.Ranging,
				Cond: fold(c.Cond), Body: foldStmts(c.Body)}
		}
		return &parse.If{Ranging: stmt.Ranging,
			Clauses: clauses, Else: foldStmts(stmt.Else)}
	default:
		panic(fmt.Sprintf("unknown statement type %T", stmt))
	}
}

func fold(x parse.Expr) parse.Expr {
	switch x := x.(type) {
	case *parse.IntLit, *parse.Ident:
		return x
	case *parse.Unary:
		operand := fold(x.Operand)
		if lit, ok := operand.(*parse.IntLit); ok {
			return &parse.IntLit{Ranging: x.Ranging, Value: eval.ApplyUnary(x.Op, lit.Value)}
		}
		return &parse.Unary{Ranging: x.Ranging, Op: x.Op, Operand: operand}
	case *parse.Binary:
		l, r := fold(x.Left), fold(x.Right)
		if ll, rl, ok := literals(l, r); ok {
			if v, err := eval.ApplyBinary(x.Op, ll, rl); err == nil {
				return &parse.IntLit{Ranging: x.Ranging, Value: v}
			}
		}
		return &parse.Binary{Ranging: x.Ranging, Op: x.Op, Left: l, Right: r}
	case *parse.Comparison:
		l, r := fold(x.Left), fold(x.Right)
		if ll, rl, ok := literals(l, r); ok {
			v := eval.BoolToInt(eval.ApplyComparison(x.Op, ll, rl))
			return &parse.IntLit{Ranging: x.Ranging, Value: v}
		}
		return &parse.Comparison{Ranging: x.Ranging, Op: x.Op, Left: l, Right: r}
	case *parse.Ternary:
		return &parse.Ternary{Ranging: x.Ranging,
			Cond: fold(x.Cond), Then: fold(x.Then), Else: fold(x.Else)}
	default:
		panic(fmt.Sprintf("unknown expression type %T", x))
	}
}

func literals(l, r parse.Expr) (int64, int64, bool) {
	ll, ok1 := l.(*parse.IntLit)
	rl, ok2 := r.(*parse.IntLit)
	if ok1 && ok2 {
		return ll.Value, rl.Value, true
	}
	return 0, 0, false
}
