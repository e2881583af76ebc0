package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position is a human-oriented location in a source. Both fields are 1-based;
// Col counts codepoints, not bytes.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// PositionOf returns the Position of the byte offset idx in src. An offset
// past the end of src is clamped to the end.
func PositionOf(src string, idx int) Position {
	if idx > len(src) {
		idx = len(src)
	}
	if idx < 0 {
		idx = 0
	}
	before := src[:idx]
	line := strings.Count(before, "\n") + 1
	col := utf8.RuneCountInString(lastLine(before)) + 1
	return Position{line, col}
}
