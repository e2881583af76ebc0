// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"src.tally.sh/pkg/compile"
	"src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/parse"
	"src.tally.sh/pkg/store/storedefs"
)

// TestPrograms tests the program functionality of a Store.
func TestPrograms(t *testing.T, store storedefs.Store) {
	t.Helper()

	if _, err := store.Program("missing"); err != storedefs.ErrNoProgram {
		t.Errorf("Program(missing) -> %v, want ErrNoProgram", err)
	}

	progs := map[string]string{
		"count": "let c = 0; repeat 3 { let c = c + 1; }",
		"abs":   "let x = 0 - 4; let y = x < 0 ? -x : x;",
	}
	for name, code := range progs {
		p, err := compile.CompileSource(parse.Source{Name: name, Code: code}, compile.Config{})
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		if err := store.PutProgram(name, p); err != nil {
			t.Errorf("PutProgram(%s) -> %v", name, err)
		}
		got, err := store.Program(name)
		if err != nil {
			t.Errorf("Program(%s) -> %v", name, err)
		}
		if diff := cmp.Diff(p, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Program(%s) (-want +got):\n%s", name, diff)
		}
	}

	names, err := store.Programs()
	if err != nil || !cmp.Equal(names, []string{"abs", "count"}) {
		t.Errorf("Programs() -> %v, %v, want [abs count], nil", names, err)
	}

	if err := store.DelProgram("abs"); err != nil {
		t.Errorf("DelProgram(abs) -> %v", err)
	}
	if _, err := store.Program("abs"); err != storedefs.ErrNoProgram {
		t.Errorf("Program(abs) after DelProgram -> %v, want ErrNoProgram", err)
	}
}

// TestStates tests the state functionality of a Store.
func TestStates(t *testing.T, store storedefs.Store) {
	t.Helper()

	if _, err := store.State("missing"); err != storedefs.ErrNoState {
		t.Errorf("State(missing) -> %v, want ErrNoState", err)
	}

	env := eval.NewEnv()
	env.Set("z", 1)
	env.Set("a", -9223372036854775808)
	if err := store.PutState("run", env); err != nil {
		t.Errorf("PutState -> %v", err)
	}
	got, err := store.State("run")
	if err != nil {
		t.Errorf("State(run) -> %v", err)
	} else if diff := cmp.Diff(env.Bindings(), got.Bindings()); diff != "" {
		t.Errorf("State(run) (-want +got):\n%s", diff)
	}

	if err := store.PutState("empty", eval.NewEnv()); err != nil {
		t.Errorf("PutState(empty) -> %v", err)
	}
	if got, err := store.State("empty"); err != nil || got.Len() != 0 {
		t.Errorf("State(empty) -> %v, %v", got, err)
	}

	if err := store.DelState("run"); err != nil {
		t.Errorf("DelState(run) -> %v", err)
	}
	if _, err := store.State("run"); err != storedefs.ErrNoState {
		t.Errorf("State(run) after DelState -> %v, want ErrNoState", err)
	}
}
