package diag

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Error kinds used across the pipeline.
const (
	LexErrorType            = "lex error"
	ParseErrorType          = "parse error"
	CompilationErrorType    = "compilation error"
	NameErrorType           = "name error"
	DivisionByZeroErrorType = "division by zero error"
)

// Error represents an error with context that can be showed. Type names the
// kind of the error, and Cause optionally holds a structured reason that can
// be retrieved with errors.As.
type Error struct {
	Type    string
	Message string
	Context Context
	Cause   error
}

// NewError creates an Error of the given type at the range r of the source.
func NewError(typ, name, source string, r Ranger, msg string) *Error {
	return &Error{Type: typ, Message: msg, Context: *NewContext(name, source, r)}
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s:%s: %s",
		e.Type, e.Context.Name, e.Context.Position(), e.Message)
}

// Unwrap returns the structured cause of the error, if any.
func (e *Error) Unwrap() error { return e.Cause }

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Position returns the line and column where the error starts.
func (e *Error) Position() Position {
	return e.Context.Position()
}

// Variables controlling the style of the message.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Show shows the error.
func (e *Error) Show(indent string) string {
	return e.show(indent, true)
}

// ShowPlain is like Show, but does not use any styling.
func (e *Error) ShowPlain(indent string) string {
	return e.show(indent, false)
}

func (e *Error) show(indent string, styled bool) string {
	mStart, mEnd, cStart, cEnd := messageStart, messageEnd, culpritStart, culpritEnd
	if !styled {
		mStart, mEnd, cStart, cEnd = "", "", "", ""
	}
	header := fmt.Sprintf("%s: %s%s%s\n", title(e.Type), mStart, e.Message, mEnd)
	return header + indent + "  " + e.Context.showCompact(indent+"  ", cStart, cEnd)
}

func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}
