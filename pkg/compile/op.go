package compile

import (
	"fmt"

	"src.tally.sh/pkg/diag"
)

// Op is an opcode of the stack machine.
type Op int

// All opcodes. The values are not part of the object format, which uses the
// names.
const (
	// Push Arg.
	OpPush Op = iota
	// Push the value of slot Arg. Fails with a name error if the slot has never
	// been stored to.
	OpLoad
	// Pop a value into slot Arg.
	OpStore
	// Pop r, pop l, push l op r. OpDiv fails if r is zero.
	OpAdd
	OpSub
	OpMul
	OpDiv
	// Negate the top of the stack.
	OpNeg
	// Pop r, pop l, push 1 if the comparison holds and 0 otherwise.
	OpLt
	OpGt
	// Continue at address Arg.
	OpJmp
	// Pop; continue at address Arg if the value is zero.
	OpJz
	// Pop and write the value to the echo output.
	OpEcho
	// Stop.
	OpHalt
	numOps
)

var opNames = [...]string{
	OpPush: "push", OpLoad: "load", OpStore: "store",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpNeg: "neg",
	OpLt: "lt", OpGt: "gt", OpJmp: "jmp", OpJz: "jz",
	OpEcho: "echo", OpHalt: "halt",
}

func (op Op) String() string {
	if 0 <= op && op < numOps {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// OpFromString looks up an opcode by name.
func OpFromString(s string) (Op, bool) {
	for op, name := range opNames {
		if name == s {
			return Op(op), true
		}
	}
	return 0, false
}

// HasArg returns whether the instruction uses its Arg.
func (op Op) HasArg() bool {
	switch op {
	case OpPush, OpLoad, OpStore, OpJmp, OpJz:
		return true
	}
	return false
}

// Instr is a single instruction. The range is that of the source node the
// instruction was generated from; runtime errors are reported there.
type Instr struct {
	Op  Op
	Arg int64
	diag.Ranging
}
