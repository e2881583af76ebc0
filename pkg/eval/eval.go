// Package eval implements the tree-walking interpreter.
//
// The interpreter walks the tree produced by the parse package, threading a
// single explicitly passed Env through every evaluation. It stops at the first
// runtime error, which is always a *diag.Error whose Cause is one of the types
// in the errs package.
package eval

import (
	"errors"
	"fmt"
	"io"

	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/eval/errs"
	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// Config keeps configuration options of the interpreter.
type Config struct {
	// Destination of the values of expression statements, one per line. If
	// nil, the values are discarded.
	Echo io.Writer
}

// Eval evaluates the tree against a fresh, empty Env. It returns the Env in
// the state it was in when evaluation stopped, even if there is an error.
func Eval(tree parse.Tree, cfg Config) (*Env, error) {
	env := NewEnv()
	return env, EvalIn(env, tree, cfg)
}

// EvalIn evaluates the tree against the given Env.
func EvalIn(env *Env, tree parse.Tree, cfg Config) error {
	logger.Printf("evaluating %s", tree.Source.Name)
	ev := &evaler{env, tree.Source, cfg.Echo}
	err := ev.stmts(tree.Root.Stmts)
	if err != nil {
		logger.Printf("%s stopped: %v", tree.Source.Name, err)
	} else {
		logger.Printf("%s done, %d bindings", tree.Source.Name, env.Len())
	}
	return err
}

// EvalSource parses and evaluates the source.
func EvalSource(src parse.Source, cfg Config) (*Env, error) {
	tree, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	return Eval(tree, cfg)
}

// NewRuntimeError wraps a runtime error reason from the errs package with the
// source context it happened in. The type of the returned error is derived
// from the reason.
func NewRuntimeError(src parse.Source, r diag.Ranger, cause error) *diag.Error {
	typ := "runtime error"
	switch {
	case errors.As(cause, new(errs.NameError)):
		typ = diag.NameErrorType
	case errors.As(cause, new(errs.DivisionByZero)):
		typ = diag.DivisionByZeroErrorType
	}
	e := diag.NewError(typ, src.Name, src.Code, r, cause.Error())
	e.Cause = cause
	return e
}

type evaler struct {
	env  *Env
	src  parse.Source
	echo io.Writer
}

func (ev *evaler) errorp(r diag.Ranger, cause error) error {
	return NewRuntimeError(ev.src, r, cause)
}

func (ev *evaler) stmts(stmts []parse.Stmt) error {
	for _, stmt := range stmts {
		if err := ev.stmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ev *evaler) stmt(stmt parse.Stmt) error {
	switch stmt := stmt.(type) {
	case *parse.ExprStmt:
		v, err := ev.expr(stmt.X)
		if err != nil {
			return err
		}
		if ev.echo != nil {
			fmt.Fprintln(ev.echo, v)
		}
		return nil
	case *parse.Assignment:
		v, err := ev.expr(stmt.Value)
		if err != nil {
			return err
		}
		ev.env.Set(stmt.Name, v)
		return nil
	case *parse.Repeat:
		// The count is evaluated once; a count below one runs the body zero
		// times.
		n, err := ev.expr(stmt.Count)
		if err != nil {
			return err
		}
		for i := int64(0); i < n; i++ {
			if err := ev.stmts(stmt.Body); err != nil {
				return err
			}
		}
		return nil
	case *parse.If:
		for _, clause := range stmt.Clauses {
			ok, err := ev.cond(clause.Cond)
			if err != nil {
				return err
			}
			if ok {
				return ev.stmts(clause.Body)
			}
		}
		return ev.stmts(stmt.Else)
	default:
		panic(fmt.Sprintf("unknown statement type %T", stmt))
	}
}

// cond evaluates the condition of a clause or a ternary. A comparison is true
// if it holds; any other expression is true if it is non-zero.
func (ev *evaler) cond(x parse.Expr) (bool, error) {
	if cmp, ok := x.(*parse.Comparison); ok {
		l, r, err := ev.operands(cmp.Left, cmp.Right)
		if err != nil {
			return false, err
		}
		return ApplyComparison(cmp.Op, l, r), nil
	}
	v, err := ev.expr(x)
	return v != 0, err
}

func (ev *evaler) operands(left, right parse.Expr) (int64, int64, error) {
	l, err := ev.expr(left)
	if err != nil {
		return 0, 0, err
	}
	r, err := ev.expr(right)
	return l, r, err
}

func (ev *evaler) expr(x parse.Expr) (int64, error) {
	switch x := x.(type) {
	case *parse.IntLit:
		return x.Value, nil
	case *parse.Ident:
		v, ok := ev.env.Get(x.Name)
		if !ok {
			return 0, ev.errorp(x, errs.NameError{Name: x.Name})
		}
		return v, nil
	case *parse.Unary:
		v, err := ev.expr(x.Operand)
		if err != nil {
			return 0, err
		}
		return ApplyUnary(x.Op, v), nil
	case *parse.Binary:
		l, r, err := ev.operands(x.Left, x.Right)
		if err != nil {
			return 0, err
		}
		v, err := ApplyBinary(x.Op, l, r)
		if err != nil {
			return 0, ev.errorp(x, err)
		}
		return v, nil
	case *parse.Comparison:
		ok, err := ev.cond(x)
		return BoolToInt(ok), err
	case *parse.Ternary:
		ok, err := ev.cond(x.Cond)
		if err != nil {
			return 0, err
		}
		if ok {
			return ev.expr(x.Then)
		}
		return ev.expr(x.Else)
	default:
		panic(fmt.Sprintf("unknown expression type %T", x))
	}
}
