package parse

import "src.tally.sh/pkg/diag"

// Node is implemented by all AST nodes. The set of node types is closed: only
// this package can add to it, so consumers can switch exhaustively over them.
type Node interface {
	diag.Ranger
	isNode()
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	isStmt()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	isExpr()
}

// Program = { Stmt }
type Program struct {
	diag.Ranging
	Stmts []Stmt
}

// ExprStmt = Expr ';'
type ExprStmt struct {
	diag.Ranging
	X Expr
}

// Assignment = 'let' identifier '=' ( Expr | Ternary ) ';'
type Assignment struct {
	diag.Ranging
	Name      string
	NameRange diag.Ranging
	Value     Expr
}

// Repeat = 'repeat' Expr '{' { Stmt } '}'
type Repeat struct {
	diag.Ranging
	Count Expr
	Body  []Stmt
}

// If = 'if' CondClause { 'elif' CondClause } [ 'else' '{' { Stmt } '}' ]
//
// Clauses[0] is the 'if' clause; the rest are the 'elif' clauses in order.
// Else is nil when there is no 'else' clause, and non-nil (possibly empty)
// otherwise.
type If struct {
	diag.Ranging
	Clauses []*CondClause
	Else    []Stmt
}

// CondClause = comp_expr '{' { Stmt } '}'
type CondClause struct {
	diag.Ranging
	Cond Expr
	Body []Stmt
}

// Binary is an arithmetic operation; Op is one of Plus, Minus, Star and Slash.
type Binary struct {
	diag.Ranging
	Op          Kind
	Left, Right Expr
}

// Comparison is a comparison; Op is one of Greater and Less.
type Comparison struct {
	diag.Ranging
	Op          Kind
	Left, Right Expr
}

// Ternary = comp_expr '?' Expr ':' Expr
type Ternary struct {
	diag.Ranging
	Cond, Then, Else Expr
}

// Unary is a sign applied to a literal or an identifier; Op is one of Plus and
// Minus.
type Unary struct {
	diag.Ranging
	Op      Kind
	Operand Expr
}

// IntLit is an integer literal.
type IntLit struct {
	diag.Ranging
	Value int64
}

// Ident is a reference to a variable.
type Ident struct {
	diag.Ranging
	Name string
}

func (*Program) isNode()    {}
func (*ExprStmt) isNode()   {}
func (*Assignment) isNode() {}
func (*Repeat) isNode()     {}
func (*If) isNode()         {}
func (*CondClause) isNode() {}
func (*Binary) isNode()     {}
func (*Comparison) isNode() {}
func (*Ternary) isNode()    {}
func (*Unary) isNode()      {}
func (*IntLit) isNode()     {}
func (*Ident) isNode()      {}

func (*ExprStmt) isStmt()   {}
func (*Assignment) isStmt() {}
func (*Repeat) isStmt()     {}
func (*If) isStmt()         {}

func (*Binary) isExpr()     {}
func (*Comparison) isExpr() {}
func (*Ternary) isExpr()    {}
func (*Unary) isExpr()      {}
func (*IntLit) isExpr()     {}
func (*Ident) isExpr()      {}
