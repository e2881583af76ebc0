// Package vm runs programs compiled by the compile package.
//
// The machine has a value stack and one slot per variable or loop counter.
// It does not look at the AST; it reports errors at the source ranges
// recorded in the instructions, with the same types and causes as the
// interpreter.
package vm

import (
	"fmt"
	"io"

	"src.tally.sh/pkg/compile"
	"src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/eval/errs"
	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/parse"
)

var logger = logutil.GetLogger("[vm] ")

// Config keeps configuration options of the machine.
type Config struct {
	// Destination of echoed values, one per line. If nil, they are discarded.
	Echo io.Writer
}

// Run runs the program to completion or until the first error. It returns
// the values of the named variables that have been assigned, in the order
// they were first assigned, even when there is an error.
func Run(p *compile.Program, cfg Config) (*eval.Env, error) {
	env := eval.NewEnv()
	if err := p.Check(); err != nil {
		return env, err
	}
	m := &machine{
		p: p, env: env, echo: cfg.Echo,
		slots: make([]int64, p.NumSlots()),
		bound: make([]bool, p.NumSlots()),
	}
	logger.Printf("running %s", p.Source.Name)
	err := m.run()
	if err != nil {
		logger.Printf("%s stopped after %d steps: %v", p.Source.Name, m.steps, err)
	} else {
		logger.Printf("%s done after %d steps", p.Source.Name, m.steps)
	}
	return env, err
}

// RunSource parses, compiles and runs the source.
func RunSource(src parse.Source, ccfg compile.Config, cfg Config) (*eval.Env, error) {
	p, err := compile.CompileSource(src, ccfg)
	if err != nil {
		return nil, err
	}
	return Run(p, cfg)
}

type machine struct {
	p     *compile.Program
	env   *eval.Env
	echo  io.Writer
	stack []int64
	slots []int64
	bound []bool
	steps int
}

var binaryKinds = map[compile.Op]parse.Kind{
	compile.OpAdd: parse.Plus, compile.OpSub: parse.Minus,
	compile.OpMul: parse.Star, compile.OpDiv: parse.Slash,
	compile.OpLt: parse.Less, compile.OpGt: parse.Greater,
}

func (m *machine) run() error {
	code := m.p.Code
	for pc := 0; ; m.steps++ {
		in := code[pc]
		pc++
		switch in.Op {
		case compile.OpPush:
			m.push(in.Arg)
		case compile.OpLoad:
			if !m.bound[in.Arg] {
				return eval.NewRuntimeError(m.p.Source, in, errs.NameError{Name: m.slotName(in.Arg)})
			}
			m.push(m.slots[in.Arg])
		case compile.OpStore:
			v, err := m.pop(pc)
			if err != nil {
				return err
			}
			m.slots[in.Arg], m.bound[in.Arg] = v, true
			if in.Arg < int64(len(m.p.Names)) {
				m.env.Set(m.p.Names[in.Arg], v)
			}
		case compile.OpAdd, compile.OpSub, compile.OpMul, compile.OpDiv:
			l, r, err := m.pop2(pc)
			if err != nil {
				return err
			}
			v, err := eval.ApplyBinary(binaryKinds[in.Op], l, r)
			if err != nil {
				return eval.NewRuntimeError(m.p.Source, in, err)
			}
			m.push(v)
		case compile.OpLt, compile.OpGt:
			l, r, err := m.pop2(pc)
			if err != nil {
				return err
			}
			m.push(eval.BoolToInt(eval.ApplyComparison(binaryKinds[in.Op], l, r)))
		case compile.OpNeg:
			v, err := m.pop(pc)
			if err != nil {
				return err
			}
			m.push(-v)
		case compile.OpJmp:
			pc = int(in.Arg)
		case compile.OpJz:
			v, err := m.pop(pc)
			if err != nil {
				return err
			}
			if v == 0 {
				pc = int(in.Arg)
			}
		case compile.OpEcho:
			v, err := m.pop(pc)
			if err != nil {
				return err
			}
			if m.echo != nil {
				fmt.Fprintln(m.echo, v)
			}
		case compile.OpHalt:
			return nil
		default:
			panic(fmt.Sprintf("unknown opcode %v", in.Op))
		}
	}
}

func (m *machine) slotName(slot int64) string {
	if slot < int64(len(m.p.Names)) {
		return m.p.Names[slot]
	}
	return fmt.Sprintf("counter %d", slot-int64(len(m.p.Names)))
}

func (m *machine) push(v int64) { m.stack = append(m.stack, v) }

// pop pops a value. The stack can only underflow if the program was not
// produced by the compiler; next is the address after the faulting
// instruction.
func (m *machine) pop(next int) (int64, error) {
	n := len(m.stack)
	if n == 0 {
		return 0, fmt.Errorf("%s: instruction %d: stack underflow", m.p.Source.Name, next-1)
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

func (m *machine) pop2(next int) (int64, int64, error) {
	r, err := m.pop(next)
	if err != nil {
		return 0, 0, err
	}
	l, err := m.pop(next)
	return l, r, err
}
