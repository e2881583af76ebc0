package vm_test

import (
	"io"
	"strings"
	"testing"

	"src.tally.sh/pkg/compile"
	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/eval/evaltest"
	"src.tally.sh/pkg/parse"
	. "src.tally.sh/pkg/vm"
)

func compiled(ccfg compile.Config) evaltest.Runner {
	return func(src parse.Source, echo io.Writer) (*eval.Env, error) {
		return RunSource(src, ccfg, Config{Echo: echo})
	}
}

// Goes through the object format between compiling and running.
func viaObject(src parse.Source, echo io.Writer) (*eval.Env, error) {
	p, err := compile.CompileSource(src, compile.Config{})
	if err != nil {
		return nil, err
	}
	data, err := compile.Marshal(p)
	if err != nil {
		return nil, err
	}
	p, err = compile.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Run(p, Config{Echo: echo})
}

func TestRun_Corpus(t *testing.T) {
	evaltest.Test(t, compiled(compile.Config{}), evaltest.Corpus...)
}

func TestRun_CorpusOptimized(t *testing.T) {
	evaltest.Test(t, compiled(compile.Config{Optimize: true}), evaltest.Corpus...)
}

func TestRun_CorpusViaObject(t *testing.T) {
	evaltest.Test(t, viaObject, evaltest.Corpus...)
}

func TestRun_AgreesWithInterpreterOnEnvString(t *testing.T) {
	code := "let b = 2; let a = 1; repeat 3 { let b = b * 2; } if b > 10 { let c = b; }"
	src := parse.Source{Name: "[test]", Code: code}
	want, err := eval.EvalSource(src, eval.Config{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := RunSource(src, compile.Config{}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != want.String() {
		t.Errorf("vm gives\n%s\ninterpreter gives\n%s", got, want)
	}
}

func TestRun_MalformedPrograms(t *testing.T) {
	src := parse.Source{Name: "[test]", Code: "1;"}
	at := diag.Ranging{From: 0, To: 1}
	tests := []struct {
		name    string
		p       *compile.Program
		wantMsg string
	}{
		{
			"stack underflow",
			&compile.Program{Source: src, Code: []compile.Instr{
				{Op: compile.OpEcho, Ranging: at}, {Op: compile.OpHalt, Ranging: at}}},
			"instruction 0: stack underflow",
		},
		{
			"jump out of range",
			&compile.Program{Source: src, Code: []compile.Instr{
				{Op: compile.OpJmp, Arg: 9, Ranging: at}, {Op: compile.OpHalt, Ranging: at}}},
			"jump target 9 out of range",
		},
		{
			"unset counter",
			&compile.Program{Source: src, Hidden: 1, Code: []compile.Instr{
				{Op: compile.OpLoad, Arg: 0, Ranging: at}, {Op: compile.OpHalt, Ranging: at}}},
			"variable counter 0 is not bound",
		},
		{
			"no halt",
			&compile.Program{Source: src},
			"does not end with halt",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Run(test.p, Config{})
			if err == nil || !strings.Contains(err.Error(), test.wantMsg) {
				t.Errorf("got error %v, want one containing %q", err, test.wantMsg)
			}
		})
	}
}
