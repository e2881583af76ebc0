// Package errs contains reusable error types describing why a program failed
// at run time.
package errs

import "fmt"

// NameError is returned when a variable is read before it is bound.
type NameError struct {
	Name string
}

// Error implements the error interface.
func (e NameError) Error() string {
	return fmt.Sprintf("variable %s is not bound", e.Name)
}

// DivisionByZero is returned when the right operand of '/' evaluates to zero.
type DivisionByZero struct{}

// Error implements the error interface.
func (DivisionByZero) Error() string {
	return "division by zero"
}
