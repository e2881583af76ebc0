package diag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"src.tally.sh/pkg/sys"
)

// Shower wraps the Show method.
type Shower interface {
	// Show renders the value, prefixing continuation lines with indent.
	Show(indent string) string
}

// ShowError shows an error to w. If w is a terminal, the error is shown with
// styling; otherwise it is shown as plain text. It uses the Show method if the
// error is or wraps an *Error, uses the Show method if it implements Shower,
// and prints the error message otherwise.
func ShowError(w io.Writer, err error) {
	styled := isTerminal(w)
	var e *Error
	switch {
	case errors.As(err, &e):
		if styled {
			fmt.Fprintln(w, e.Show(""))
		} else {
			fmt.Fprintln(w, e.ShowPlain(""))
		}
	default:
		if shower, ok := err.(Shower); ok {
			fmt.Fprintln(w, shower.Show(""))
		} else if styled {
			fmt.Fprintf(w, "%s%s%s\n", messageStart, err.Error(), messageEnd)
		} else {
			fmt.Fprintln(w, err.Error())
		}
	}
}

// Can be overridden in tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && sys.IsATTY(f.Fd())
}
