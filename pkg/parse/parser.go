package parse

import (
	"fmt"
	"strconv"
	"strings"

	"src.tally.sh/pkg/diag"
)

// parser maintains the mutable state of parsing: the token sequence, one token
// of lookahead and the table of declared symbols.
type parser struct {
	src     Source
	tokens  []Token
	pos     int
	symbols *Symbols
}

func (ps *parser) peek() Token { return ps.tokens[ps.pos] }

func (ps *parser) next() Token {
	tok := ps.tokens[ps.pos]
	if tok.Kind != EOF {
		ps.pos++
	}
	return tok
}

// Returns the end offset of the last consumed token.
func (ps *parser) end() int {
	if ps.pos == 0 {
		return 0
	}
	return ps.tokens[ps.pos-1].To
}

// expect consumes a token of one of the given kinds, or fails.
func (ps *parser) expect(kinds ...Kind) Token {
	tok := ps.peek()
	for _, k := range kinds {
		if tok.Kind == k {
			return ps.next()
		}
	}
	ps.unexpected(tok, kinds...)
	panic("unreachable")
}

func (ps *parser) unexpected(tok Token, shouldbe ...Kind) {
	names := make([]string, len(shouldbe))
	for i, k := range shouldbe {
		names[i] = k.String()
	}
	ps.errorpf(tok, "%s", newError("unexpected "+tok.Describe(), names...))
}

func (ps *parser) errorpf(r diag.Ranger, format string, args ...any) {
	// The panic is caught by the recover in ParseTokens.
	panic(diag.NewError(diag.ParseErrorType, ps.src.Name, ps.src.Code, r,
		fmt.Sprintf(format, args...)))
}

func newError(text string, shouldbe ...string) string {
	if len(shouldbe) == 0 {
		return text
	}
	var sb strings.Builder
	if len(text) > 0 {
		sb.WriteString(text + ", ")
	}
	sb.WriteString("should be " + shouldbe[0])
	for i, opt := range shouldbe[1:] {
		if i == len(shouldbe)-2 {
			sb.WriteString(" or ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(opt)
	}
	return sb.String()
}

// program = { statement } EOF
func (ps *parser) program() *Program {
	stmts := ps.statements()
	if tok := ps.peek(); tok.Kind != EOF {
		ps.errorpf(tok, "%s", newError("unexpected "+tok.Describe(), "statement"))
	}
	return &Program{diag.Ranging{From: 0, To: len(ps.src.Code)}, stmts}
}

// statements = { statement }, stopping before '}' or end of input.
func (ps *parser) statements() []Stmt {
	var stmts []Stmt
	for {
		switch ps.peek().Kind {
		case RBrace, EOF:
			return stmts
		}
		stmts = append(stmts, ps.statement())
	}
}

func startsExpr(k Kind) bool {
	switch k {
	case Integer, Identifier, LParen, Plus, Minus:
		return true
	}
	return false
}

// statement = expr ';' | assignment ';' | repeat_stmt | if_stmt
func (ps *parser) statement() Stmt {
	tok := ps.peek()
	switch {
	case tok.Kind == KwLet:
		a := ps.assignment()
		ps.expect(Semicolon)
		a.To = ps.end()
		return a
	case tok.Kind == KwRepeat:
		return ps.repeat()
	case tok.Kind == KwIf:
		return ps.ifStmt()
	case startsExpr(tok.Kind):
		x := ps.condOrTernary()
		switch x := x.(type) {
		case *Comparison:
			ps.errorpf(x, errComparisonStmt)
		case *Ternary:
			ps.errorpf(x, errTernaryStmt)
		}
		ps.expect(Semicolon)
		return &ExprStmt{diag.Ranging{From: tok.From, To: ps.end()}, x}
	default:
		ps.errorpf(tok, "%s", newError("unexpected "+tok.Describe(),
			KwLet.String(), KwRepeat.String(), KwIf.String(), "expression"))
		panic("unreachable")
	}
}

// assignment = 'let' identifier '=' ( expr | ternary )
func (ps *parser) assignment() *Assignment {
	begin := ps.expect(KwLet).From
	name := ps.expect(Identifier)
	ps.expect(Equal)
	value := ps.condOrTernary()
	if cmp, ok := value.(*Comparison); ok {
		ps.errorpf(cmp, errAssignComparison)
	}
	ps.symbols.Declare(name.Lexeme, name)
	return &Assignment{
		Ranging:   diag.Ranging{From: begin, To: ps.end()},
		Name:      name.Lexeme,
		NameRange: name.Ranging,
		Value:     value,
	}
}

// condOrTernary parses a comparison chain, and commits to a ternary if it is
// followed by '?'. The result is a *Ternary, a *Comparison if at least one
// comparison operator was consumed, or a plain expression otherwise. Callers
// that only accept a plain expression check the dynamic type.
func (ps *parser) condOrTernary() Expr {
	cond := ps.compExpr()
	if ps.peek().Kind != Question {
		return cond
	}
	ps.next()
	then := ps.expr()
	ps.expect(Colon)
	els := ps.expr()
	return &Ternary{diag.MixedRanging(cond, els), cond, then, els}
}

// comp_expr = expr { ( '>' | '<' ) expr }
func (ps *parser) compExpr() Expr {
	x := ps.expr()
	for {
		op := ps.peek().Kind
		if op != Greater && op != Less {
			return x
		}
		ps.next()
		right := ps.expr()
		x = &Comparison{diag.MixedRanging(x, right), op, x, right}
	}
}

// expr = mult { ( '+' | '-' ) mult }
func (ps *parser) expr() Expr {
	x := ps.mult()
	for {
		op := ps.peek().Kind
		if op != Plus && op != Minus {
			return x
		}
		ps.next()
		right := ps.mult()
		x = &Binary{diag.MixedRanging(x, right), op, x, right}
	}
}

// mult = factor { ( '*' | '/' ) factor }
func (ps *parser) mult() Expr {
	x := ps.factor()
	for {
		op := ps.peek().Kind
		if op != Star && op != Slash {
			return x
		}
		ps.next()
		right := ps.factor()
		x = &Binary{diag.MixedRanging(x, right), op, x, right}
	}
}

// factor = [ '+' | '-' ] ( integer | identifier ) | '(' expr ')'
func (ps *parser) factor() Expr {
	tok := ps.peek()
	switch tok.Kind {
	case LParen:
		ps.next()
		x := ps.expr()
		if k := ps.peek().Kind; k == Greater || k == Less {
			ps.errorpf(ps.peek(), errComparisonOperand)
		}
		ps.expect(RParen)
		return x
	case Plus, Minus:
		ps.next()
		if k := ps.peek().Kind; k != Integer && k != Identifier {
			ps.unexpected(ps.peek(), Integer, Identifier)
		}
		operand := ps.operand()
		return &Unary{diag.MixedRanging(tok, operand), tok.Kind, operand}
	case Integer, Identifier:
		return ps.operand()
	}
	ps.unexpected(tok, Integer, Identifier, LParen)
	panic("unreachable")
}

// operand = integer | identifier
//
// The caller has checked the kind of the next token.
func (ps *parser) operand() Expr {
	tok := ps.next()
	if tok.Kind == Identifier {
		return &Ident{tok.Ranging, tok.Lexeme}
	}
	// The lexer has checked that the literal is in range.
	v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
	return &IntLit{tok.Ranging, v}
}

// repeat_stmt = 'repeat' expr '{' statements '}'
func (ps *parser) repeat() *Repeat {
	begin := ps.expect(KwRepeat).From
	count := ps.expr()
	body := ps.block()
	return &Repeat{diag.Ranging{From: begin, To: ps.end()}, count, body}
}

// if_stmt = 'if' cond_stmt
// cond_stmt = comp_expr '{' statements '}' { 'elif' cond_stmt } [ 'else' '{' statements '}' ]
//
// The elif chain is flattened into If.Clauses.
func (ps *parser) ifStmt() *If {
	begin := ps.expect(KwIf).From
	n := &If{}
	n.Clauses = append(n.Clauses, ps.condClause())
	for ps.peek().Kind == KwElif {
		ps.next()
		n.Clauses = append(n.Clauses, ps.condClause())
	}
	if ps.peek().Kind == KwElse {
		ps.next()
		n.Else = ps.block()
		if n.Else == nil {
			n.Else = []Stmt{}
		}
	}
	n.Ranging = diag.Ranging{From: begin, To: ps.end()}
	return n
}

func (ps *parser) condClause() *CondClause {
	cond := ps.compExpr()
	body := ps.block()
	return &CondClause{diag.Ranging{From: cond.Range().From, To: ps.end()}, cond, body}
}

// block = '{' statements '}'
func (ps *parser) block() []Stmt {
	ps.expect(LBrace)
	stmts := ps.statements()
	ps.expect(RBrace)
	return stmts
}
