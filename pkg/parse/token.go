package parse

import (
	"fmt"

	"src.tally.sh/pkg/diag"
)

// Kind is the kind of a Token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Integer
	Identifier

	// Keywords.
	KwLet
	KwRepeat
	KwIf
	KwElif
	KwElse

	// Punctuation and operators.
	Plus
	Minus
	Star
	Slash
	Greater
	Less
	Question
	Colon
	Equal
	Semicolon
	LBrace
	RBrace
	LParen
	RParen
)

var kindNames = [...]string{
	EOF:        "end of input",
	Integer:    "integer",
	Identifier: "identifier",

	KwLet:    "'let'",
	KwRepeat: "'repeat'",
	KwIf:     "'if'",
	KwElif:   "'elif'",
	KwElse:   "'else'",

	Plus:      "'+'",
	Minus:     "'-'",
	Star:      "'*'",
	Slash:     "'/'",
	Greater:   "'>'",
	Less:      "'<'",
	Question:  "'?'",
	Colon:     "':'",
	Equal:     "'='",
	Semicolon: "';'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LParen:    "'('",
	RParen:    "')'",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Symbol returns the source text of an operator or punctuation kind, and ""
// for other kinds.
func (k Kind) Symbol() string {
	if Plus <= k && k <= RParen {
		s := kindNames[k]
		return s[1 : len(s)-1]
	}
	return ""
}

var keywords = map[string]Kind{
	"let":    KwLet,
	"repeat": KwRepeat,
	"if":     KwIf,
	"elif":   KwElif,
	"else":   KwElse,
}

// Keywords returns all the keywords of the language, in no particular order.
func Keywords() []string {
	kws := make([]string, 0, len(keywords))
	for kw := range keywords {
		kws = append(kws, kw)
	}
	return kws
}

var punctuations = map[byte]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'>': Greater,
	'<': Less,
	'?': Question,
	':': Colon,
	'=': Equal,
	';': Semicolon,
	'{': LBrace,
	'}': RBrace,
	'(': LParen,
	')': RParen,
}

// Token is a classified, positioned fragment of source text. The Ranging
// field holds byte offsets; Pos holds the human-oriented position of the start
// of the token.
type Token struct {
	Kind   Kind
	Lexeme string
	diag.Ranging
	Pos diag.Position
}

// Describe returns a description of the token suitable for error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Integer, Identifier:
		return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
	default:
		return t.Kind.String()
	}
}
