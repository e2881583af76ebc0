// Package compile lowers a parsed tally program to bytecode for the stack
// machine in the vm package.
//
// A compiled Program does not refer to the AST. Every instruction carries the
// source range of the node it was generated from, so the vm can report errors
// at the same positions as the interpreter. The package also provides
// constant folding, a disassembler, a YAML object format and a C back end.
package compile

import (
	"fmt"

	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/eval/errs"
	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/parse"
)

var logger = logutil.GetLogger("[compile] ")

// Config keeps configuration options of the compiler.
type Config struct {
	// Whether to fold constants before generating code.
	Optimize bool
}

// compiler maintains the state needed when compiling a single tree.
type compiler struct {
	src     parse.Source
	symbols *parse.Symbols
	code    []Instr
	// Depth of the innermost enclosing repeat, which is also the number of
	// hidden slots in use.
	depth  int
	hidden int
}

// Compile compiles a tree. Reading a variable that no assignment anywhere in
// the program declares is an error; whether a declared variable has been
// assigned by the time it is read is only known when running.
func Compile(tree parse.Tree, cfg Config) (p *Program, err error) {
	if cfg.Optimize {
		tree = Optimize(tree)
	}
	cp := &compiler{src: tree.Source, symbols: tree.Symbols}
	defer func() {
		r := recover()
		if r == nil {
			return
		} else if e := GetCompilationError(r); e != nil {
			err = e
		} else {
			panic(r)
		}
	}()
	cp.stmts(tree.Root.Stmts)
	cp.emit(OpHalt, 0, diag.PointRanging(len(tree.Source.Code)))
	p = &Program{tree.Source, tree.Symbols.Names(), cp.hidden, cp.code}
	logger.Printf("compiled %s: %d instructions, %d slots",
		tree.Source.Name, len(p.Code), p.NumSlots())
	return p, nil
}

// CompileSource parses and compiles the source.
func CompileSource(src parse.Source, cfg Config) (*Program, error) {
	tree, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(tree, cfg)
}

type compilationError struct{ e *diag.Error }

// GetCompilationError returns a *diag.Error if the given value is an error
// raised by the compiler. Otherwise it returns nil.
func GetCompilationError(r any) *diag.Error {
	if r, ok := r.(compilationError); ok {
		return r.e
	}
	return nil
}

func (cp *compiler) errorp(r diag.Ranger, typ string, cause error) {
	e := diag.NewError(typ, cp.src.Name, cp.src.Code, r, cause.Error())
	e.Cause = cause
	// The panic is caught by the recover in Compile.
	panic(compilationError{e})
}

func (cp *compiler) emit(op Op, arg int64, r diag.Ranger) int {
	cp.code = append(cp.code, Instr{op, arg, r.Range()})
	return len(cp.code) - 1
}

// patch sets the target of the jump at addr to the next address.
func (cp *compiler) patch(addr int) {
	cp.code[addr].Arg = int64(len(cp.code))
}

func (cp *compiler) stmts(stmts []parse.Stmt) {
	for _, stmt := range stmts {
		cp.stmt(stmt)
	}
}

func (cp *compiler) stmt(stmt parse.Stmt) {
	switch stmt := stmt.(type) {
	case *parse.ExprStmt:
		cp.expr(stmt.X)
		cp.emit(OpEcho, 0, stmt)
	case *parse.Assignment:
		cp.expr(stmt.Value)
		cp.emit(OpStore, int64(cp.symbols.Index(stmt.Name)), stmt)
	case *parse.Repeat:
		cp.repeat(stmt)
	case *parse.If:
		var ends []int
		for _, clause := range stmt.Clauses {
			cp.expr(clause.Cond)
			next := cp.emit(OpJz, 0, clause)
			cp.stmts(clause.Body)
			ends = append(ends, cp.emit(OpJmp, 0, clause))
			cp.patch(next)
		}
		cp.stmts(stmt.Else)
		for _, addr := range ends {
			cp.patch(addr)
		}
	default:
		panic(fmt.Sprintf("unknown statement type %T", stmt))
	}
}

// repeat lowers a repeat statement to a loop over a hidden counter slot:
//
//	<count>; store c
//	L: load c; push 0; gt; jz End
//	<body>
//	load c; push 1; sub; store c; jmp L
//	End:
//
// Sibling loops share counters; nested loops use one counter per level.
func (cp *compiler) repeat(stmt *parse.Repeat) {
	cp.expr(stmt.Count)
	c := int64(cp.symbols.Len() + cp.depth)
	cp.depth++
	if cp.depth > cp.hidden {
		cp.hidden = cp.depth
	}
	cp.emit(OpStore, c, stmt)
	loop := cp.emit(OpLoad, c, stmt)
	cp.emit(OpPush, 0, stmt)
	cp.emit(OpGt, 0, stmt)
	end := cp.emit(OpJz, 0, stmt)
	cp.stmts(stmt.Body)
	cp.emit(OpLoad, c, stmt)
	cp.emit(OpPush, 1, stmt)
	cp.emit(OpSub, 0, stmt)
	cp.emit(OpStore, c, stmt)
	cp.emit(OpJmp, int64(loop), stmt)
	cp.patch(end)
	cp.depth--
}

var binaryOps = map[parse.Kind]Op{
	parse.Plus: OpAdd, parse.Minus: OpSub, parse.Star: OpMul, parse.Slash: OpDiv,
	parse.Less: OpLt, parse.Greater: OpGt,
}

// expr leaves the value of x on the stack. A comparison leaves 1 or 0, which
// is also how conditions are tested, so conditions need no special casing.
func (cp *compiler) expr(x parse.Expr) {
	switch x := x.(type) {
	case *parse.IntLit:
		cp.emit(OpPush, x.Value, x)
	case *parse.Ident:
		slot := cp.symbols.Index(x.Name)
		if slot < 0 {
			cp.errorp(x, diag.NameErrorType, errs.NameError{Name: x.Name})
		}
		cp.emit(OpLoad, int64(slot), x)
	case *parse.Unary:
		cp.expr(x.Operand)
		if x.Op == parse.Minus {
			cp.emit(OpNeg, 0, x)
		}
	case *parse.Binary:
		cp.expr(x.Left)
		cp.expr(x.Right)
		cp.emit(binaryOps[x.Op], 0, x)
	case *parse.Comparison:
		cp.expr(x.Left)
		cp.expr(x.Right)
		cp.emit(binaryOps[x.Op], 0, x)
	case *parse.Ternary:
		cp.expr(x.Cond)
		elseAddr := cp.emit(OpJz, 0, x)
		cp.expr(x.Then)
		end := cp.emit(OpJmp, 0, x)
		cp.patch(elseAddr)
		cp.expr(x.Else)
		cp.patch(end)
	default:
		panic(fmt.Sprintf("unknown expression type %T", x))
	}
}
