// Package evaltest provides a framework for testing programs end to end.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T, a Runner and any number of test cases. The same cases can be
// run against the interpreter and against the compiler and the virtual
// machine, which is how the two are kept in agreement.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t, Interpreter,
//	    That("let x = 2 + 3 * 4;").Binds("x", 14),
//	    That("let d = 10 / 0;").Throws(diag.DivisionByZeroErrorType, "10 / 0"))
package evaltest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/parse"
)

// Runner runs a source, writing the values of expression statements to echo,
// and returns the final environment.
type Runner func(src parse.Source, echo io.Writer) (*eval.Env, error)

// Interpreter is a Runner using the tree-walking interpreter.
func Interpreter(src parse.Source, echo io.Writer) (*eval.Env, error) {
	return eval.EvalSource(src, eval.Config{Echo: echo})
}

// Case is a test case that can be used in Test.
type Case struct {
	code     string
	bindings []eval.Binding
	exact    bool
	echo     *string
	errType  string
	culprit  string
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines.
func That(lines ...string) Case {
	return Case{code: strings.Join(lines, "\n")}
}

// Code returns the source code of the Case, for runners that cannot be
// driven through Test.
func (c Case) Code() string { return c.code }

// Binds returns an altered Case that requires name to be bound to v when the
// program finishes.
func (c Case) Binds(name string, v int64) Case {
	c.bindings = append(append([]eval.Binding(nil), c.bindings...), eval.Binding{Name: name, Value: v})
	return c
}

// BindsExactly returns an altered Case that requires the final environment to
// be exactly the given bindings, in the order they were first bound.
func (c Case) BindsExactly(bindings ...eval.Binding) Case {
	c.bindings = bindings
	c.exact = true
	return c
}

// BindsNothing returns an altered Case that requires the final environment to
// be empty.
func (c Case) BindsNothing() Case {
	return c.BindsExactly()
}

// Prints returns an altered Case that requires the values of expression
// statements to be output as s.
func (c Case) Prints(s string) Case {
	c.echo = &s
	return c
}

// Throws returns an altered Case that requires the program to fail with a
// *diag.Error of the given type, whose range covers exactly culprit.
func (c Case) Throws(typ, culprit string) Case {
	c.errType = typ
	c.culprit = culprit
	return c
}

// Test runs the given cases with the Runner.
func Test(t *testing.T, run Runner, tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			t.Helper()
			var echo strings.Builder
			env, err := run(parse.Source{Name: "[test]", Code: tc.code}, &echo)

			if tc.errType == "" {
				if err != nil {
					t.Fatalf("got error %v, want none", err)
				}
			} else {
				checkError(t, tc, err)
			}

			if tc.exact {
				var got []eval.Binding
				if env != nil {
					got = env.Bindings()
				}
				if diff := cmp.Diff(tc.bindings, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("bindings (-want +got):\n%s", diff)
				}
			} else {
				for _, b := range tc.bindings {
					if env == nil {
						t.Errorf("no environment, want %s = %d", b.Name, b.Value)
						continue
					}
					got, ok := env.Get(b.Name)
					if !ok {
						t.Errorf("%s is not bound, want %d", b.Name, b.Value)
					} else if got != b.Value {
						t.Errorf("%s = %d, want %d", b.Name, got, b.Value)
					}
				}
			}

			if tc.echo != nil && echo.String() != *tc.echo {
				t.Errorf("printed %q, want %q", echo.String(), *tc.echo)
			}
		})
	}
}

func checkError(t *testing.T, tc Case, err error) {
	t.Helper()
	var e *diag.Error
	if !errors.As(err, &e) {
		t.Fatalf("got error %v, want %s", err, tc.errType)
	}
	if e.Type != tc.errType {
		t.Errorf("got error type %q, want %q", e.Type, tc.errType)
	}
	r := e.Range()
	if culprit := tc.code[r.From:r.To]; culprit != tc.culprit {
		t.Errorf("got culprit %q, want %q", culprit, tc.culprit)
	}
}
