package compile

import (
	"fmt"
	"strings"

	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/parse"
)

// Program is a compiled program. Slots 0 to len(Names)-1 hold the variables
// named by Names; the following Hidden slots hold loop counters. The source is
// kept so that errors raised while running the program can show their
// context.
type Program struct {
	Source parse.Source
	Names  []string
	Hidden int
	Code   []Instr
}

// NumSlots returns the total number of slots.
func (p *Program) NumSlots() int { return len(p.Names) + p.Hidden }

// Check checks that every slot and jump target referenced by the code is in
// range and that the code ends with a halt. Programs produced by Compile
// always pass; programs read back from an object may not.
func (p *Program) Check() error {
	if p.Hidden < 0 {
		return fmt.Errorf("negative number of hidden slots %d", p.Hidden)
	}
	if len(p.Code) == 0 || p.Code[len(p.Code)-1].Op != OpHalt {
		return fmt.Errorf("code does not end with halt")
	}
	for addr, in := range p.Code {
		var bad string
		switch in.Op {
		case OpLoad, OpStore:
			if in.Arg < 0 || in.Arg >= int64(p.NumSlots()) {
				bad = fmt.Sprintf("slot %d out of range", in.Arg)
			}
		case OpJmp, OpJz:
			if in.Arg < 0 || in.Arg >= int64(len(p.Code)) {
				bad = fmt.Sprintf("jump target %d out of range", in.Arg)
			}
		default:
			if in.Op < 0 || in.Op >= numOps {
				bad = fmt.Sprintf("unknown opcode %d", int(in.Op))
			}
		}
		if bad != "" {
			if in.From < 0 || in.To > len(p.Source.Code) || in.From > in.To {
				return fmt.Errorf("instruction %d: %s", addr, bad)
			}
			return diag.NewError(diag.CompilationErrorType,
				p.Source.Name, p.Source.Code, in.Ranging,
				fmt.Sprintf("instruction %d: %s", addr, bad))
		}
	}
	return nil
}

// Disassemble returns a listing of the program, one instruction per line.
// Loads and stores of named slots are annotated with the variable name.
func (p *Program) Disassemble() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; %s\n", p.Source.Name)
	fmt.Fprintf(&sb, "; names: %s\n", strings.Join(p.Names, " "))
	fmt.Fprintf(&sb, "; hidden: %d\n", p.Hidden)
	for addr, in := range p.Code {
		fmt.Fprintf(&sb, "%4d  %s", addr, in.Op)
		if in.Op.HasArg() {
			fmt.Fprintf(&sb, " %d", in.Arg)
		}
		if (in.Op == OpLoad || in.Op == OpStore) && in.Arg >= 0 {
			if in.Arg < int64(len(p.Names)) {
				fmt.Fprintf(&sb, " ; %s", p.Names[in.Arg])
			} else {
				sb.WriteString(" ; counter")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
