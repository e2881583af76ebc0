// Package parse implements the lexer and the recursive-descent parser of the
// language.
//
// The parser builds an abstract syntax tree made of the node types in this
// package, and a table of the identifiers declared with 'let'. It fails on the
// first grammar violation and does not attempt to recover.
package parse

import (
	"fmt"

	"src.tally.sh/pkg/diag"
)

// Tree represents a parsed tree.
type Tree struct {
	Root    *Program
	Symbols *Symbols
	Source  Source
}

// Parse lexes and parses the given source. If the error is not nil, it is a
// *diag.Error of type diag.LexErrorType or diag.ParseErrorType.
func Parse(src Source) (Tree, error) {
	tokens, err := Lex(src)
	if err != nil {
		return Tree{}, err
	}
	return ParseTokens(src, tokens)
}

// ParseTokens parses a token sequence produced by Lex from src.
func ParseTokens(src Source, tokens []Token) (tree Tree, err error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		return Tree{}, fmt.Errorf("token sequence of %s not terminated by EOF", src.Name)
	}
	ps := &parser{src: src, tokens: tokens, symbols: NewSymbols()}
	defer func() {
		r := recover()
		if r == nil {
			return
		} else if e := GetParseError(r); e != nil {
			// Save the parse error and stop the panic.
			err = e
		} else {
			// Resume the panic; it is not supposed to be handled here.
			panic(r)
		}
	}()
	root := ps.program()
	return Tree{root, ps.symbols, src}, nil
}

// GetParseError returns a *diag.Error if the given value is a parse error.
// Otherwise it returns nil.
func GetParseError(e any) *diag.Error {
	if e, ok := e.(*diag.Error); ok && e.Type == diag.ParseErrorType {
		return e
	}
	return nil
}

// Errors that do not depend on the offending token.
const (
	errAssignComparison  = "cannot assign a comparison; use a ternary to choose a value"
	errComparisonStmt    = "comparison cannot be used as a statement"
	errTernaryStmt       = "ternary cannot be used as a statement"
	errComparisonOperand = "comparison cannot be used here, should be expression"
)
