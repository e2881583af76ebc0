package parse

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"src.tally.sh/pkg/diag"
)

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Lex converts the source into a sequence of tokens, terminated by exactly one
// EOF token. Whitespace and comments, which run from '#' to the end of the
// line, are skipped. If the error is not nil, it is a *diag.Error of type
// diag.LexErrorType describing the first offending character.
func Lex(src Source) ([]Token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		lx.tokens = append(lx.tokens, tok)
		if tok.Kind == EOF {
			return lx.tokens, nil
		}
	}
}

// lexer maintains the mutable state of lexing.
type lexer struct {
	src       Source
	pos       int
	line, col int
	tokens    []Token
}

func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.src.Code) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(lx.src.Code[lx.pos:])
	return r
}

const eof rune = -1

func (lx *lexer) advance() {
	r, size := utf8.DecodeRuneInString(lx.src.Code[lx.pos:])
	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
}

func (lx *lexer) skipSpacesAndComments() {
	for {
		r := lx.peek()
		switch {
		case r == '#':
			for r := lx.peek(); r != eof && r != '\n'; r = lx.peek() {
				lx.advance()
			}
		case r != eof && unicode.IsSpace(r):
			lx.advance()
		default:
			return
		}
	}
}

func (lx *lexer) next() (Token, error) {
	lx.skipSpacesAndComments()
	begin, pos := lx.pos, diag.Position{Line: lx.line, Col: lx.col}
	token := func(k Kind) Token {
		return Token{k, lx.src.Code[begin:lx.pos], diag.Ranging{From: begin, To: lx.pos}, pos}
	}

	r := lx.peek()
	switch {
	case r == eof:
		return token(EOF), nil
	case isDigit(r):
		for isDigit(lx.peek()) {
			lx.advance()
		}
		tok := token(Integer)
		if _, err := strconv.ParseInt(tok.Lexeme, 10, 64); err != nil {
			return Token{}, lx.errorf(tok, "integer literal %s out of range", tok.Lexeme)
		}
		return tok, nil
	case isIdentStart(r):
		for isIdentChar(lx.peek()) {
			lx.advance()
		}
		tok := token(Identifier)
		if kw, ok := keywords[tok.Lexeme]; ok {
			tok.Kind = kw
		}
		return tok, nil
	}

	if r < utf8.RuneSelf {
		if kind, ok := punctuations[byte(r)]; ok {
			lx.advance()
			return token(kind), nil
		}
	}
	lx.advance()
	return Token{}, lx.errorf(token(EOF), "unexpected character %q", r)
}

func (lx *lexer) errorf(r diag.Ranger, format string, args ...any) error {
	return diag.NewError(diag.LexErrorType, lx.src.Name, lx.src.Code, r,
		fmt.Sprintf(format, args...))
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isIdentChar(r rune) bool { return isIdentStart(r) || isDigit(r) }
