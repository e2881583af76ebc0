// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"errors"

	"src.tally.sh/pkg/compile"
	"src.tally.sh/pkg/eval"
)

// ErrNoProgram is returned by Program when there is no program with the
// given name.
var ErrNoProgram = errors.New("no such program")

// ErrNoState is returned by State when there is no state with the given name.
var ErrNoState = errors.New("no such state")

// Store is an interface satisfied by the storage service. It keeps compiled
// programs, and the final states of runs, both by name.
type Store interface {
	PutProgram(name string, p *compile.Program) error
	Program(name string) (*compile.Program, error)
	Programs() ([]string, error)
	DelProgram(name string) error

	PutState(name string, env *eval.Env) error
	State(name string) (*eval.Env, error)
	DelState(name string) error
}
