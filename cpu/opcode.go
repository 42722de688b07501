package cpu

import (
	"fmt"
)

// Op is an instruction operation code.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADDRESS        = Op(0) // ADDRESS
	OP_LOAD           = Op(1) // LOAD
	OP_STORE          = Op(2) // STORE
	OP_ADD            = Op(3) // ADD
	OP_SUB            = Op(4) // SUB
	OP_SETIMM         = Op(5) // SETIMM
	OP_BRANCH         = Op(6) // BRANCH
	OP_BRANCH_IF_ZERO = Op(7) // BRANCH_IF_ZERO
)

// opMap maps mnemonics to operation codes.
var opMap = map[string]Op{
	"ADDRESS":        OP_ADDRESS,
	"LOAD":           OP_LOAD,
	"STORE":          OP_STORE,
	"ADD":            OP_ADD,
	"SUB":            OP_SUB,
	"SETIMM":         OP_SETIMM,
	"BRANCH":         OP_BRANCH,
	"BRANCH_IF_ZERO": OP_BRANCH_IF_ZERO,
}

// Instruction is a single resolved instruction. Operand fields not
// used by the operation are zero.
type Instruction struct {
	Op   Op
	Dst  int   // Destination register, STORE source, or tested register.
	Src1 int   // First source register; LOAD/STORE base register.
	Src2 int   // Second source register.
	Imm  int32 // Immediate value; LOAD/STORE address offset.
	Addr int   // Resolved symbol address; branch instruction index.
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() (out string) {
	switch inst.Op {
	case OP_ADDRESS:
		out = fmt.Sprintf("%v X%d, @%d", inst.Op, inst.Dst, inst.Addr)
	case OP_LOAD, OP_STORE:
		out = fmt.Sprintf("%v X%d, X%d, %d", inst.Op, inst.Dst, inst.Src1, inst.Imm)
	case OP_ADD, OP_SUB:
		out = fmt.Sprintf("%v X%d, X%d, X%d", inst.Op, inst.Dst, inst.Src1, inst.Src2)
	case OP_SETIMM:
		out = fmt.Sprintf("%v X%d, %d", inst.Op, inst.Dst, inst.Imm)
	case OP_BRANCH:
		out = fmt.Sprintf("%v @%d", inst.Op, inst.Addr)
	case OP_BRANCH_IF_ZERO:
		out = fmt.Sprintf("%v X%d, @%d", inst.Op, inst.Dst, inst.Addr)
	default:
		out = inst.Op.String()
	}

	return
}
