package eval_test

import (
	"errors"
	"strings"
	"testing"

	"src.tally.sh/pkg/diag"
	. "src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/eval/errs"
	. "src.tally.sh/pkg/eval/evaltest"
	"src.tally.sh/pkg/parse"
)

func TestEval(t *testing.T) {
	Test(t, Interpreter,
		// Unreachable reads of names that are never declared are fine for the
		// interpreter.
		That("let y = 1 > 2 ? undefined : 7;").Binds("y", 7),
		That("if 1 > 2 { let a = nothing; }").BindsNothing(),
		// A failing run keeps the state it had reached.
		That("let a = 1; let z = a - 1; let b = a / z; let c = 3;").
			Throws(diag.DivisionByZeroErrorType, "a / z").
			BindsExactly(Binding{Name: "a", Value: 1}, Binding{Name: "z", Value: 0}),
	)
}

func TestEval_ErrorCarriesCause(t *testing.T) {
	_, err := EvalSource(parse.Source{Name: "[test]", Code: "let x = 1;\nlet y = zz;"}, Config{})

	var nameErr errs.NameError
	if !errors.As(err, &nameErr) || nameErr.Name != "zz" {
		t.Errorf("got error %v, want errs.NameError for zz", err)
	}
	var e *diag.Error
	if !errors.As(err, &e) {
		t.Fatalf("got error %v, want *diag.Error", err)
	}
	if pos := e.Position(); pos != (diag.Position{Line: 2, Col: 9}) {
		t.Errorf("got position %v, want 2:9", pos)
	}
	if want := "name error: [test]:2:9: variable zz is not bound"; err.Error() != want {
		t.Errorf("got message %q, want %q", err.Error(), want)
	}
}

func TestEvalIn_UsesGivenEnv(t *testing.T) {
	env := NewEnv()
	env.Set("seed", 41)
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: "let answer = seed + 1;"})
	if err != nil {
		t.Fatal(err)
	}
	if err := EvalIn(env, tree, Config{}); err != nil {
		t.Fatal(err)
	}
	if v, _ := env.Get("answer"); v != 42 {
		t.Errorf("answer = %d, want 42", v)
	}
}

func TestEval_NoEchoByDefault(t *testing.T) {
	// Must not panic with a nil Echo.
	env, err := EvalSource(parse.Source{Name: "[test]", Code: "1; 2;"}, Config{})
	if err != nil || env.Len() != 0 {
		t.Errorf("got %v, %v", env, err)
	}
}

func TestEval_EachRunHasItsOwnEnv(t *testing.T) {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: "let c = 0; repeat 2 { let c = c + 1; }"})
	if err != nil {
		t.Fatal(err)
	}
	env1, _ := Eval(tree, Config{})
	env2, _ := Eval(tree, Config{})
	if env1 == env2 || env1.String() != env2.String() {
		t.Errorf("runs share state or differ: %q vs %q", env1, env2)
	}
	if !strings.Contains(env1.String(), "c = 2") {
		t.Errorf("env = %q, want c = 2", env1)
	}
}
