package cpu

import (
	"fmt"
	"log"
	"slices"
)

// REGISTER_COUNT is the size of the register file (X0..X7). The
// register namespace is a declared constant, not inferred per program.
const REGISTER_COUNT = 8

// Cpu is the execution context for a resolved program: the register
// file, linear memory, and program counter.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]int32 // Register file.
	Memory   []int32               // Linear word-addressable memory.
	Pc       int                   // Current program counter.
	Ticks    int                   // Executed instruction counter.

	program *Program
}

// NewCpu creates a new CPU for a resolved program.
func NewCpu(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{
		program: prog,
	}
	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers and the PC.
// - Zeros the tick counter.
// - Reloads the initial memory image from the .data declarations.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory = slices.Clone(cpu.program.Memory)
	cpu.Pc = 0
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("%5s: %v\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("%5s: %v\n", fmt.Sprintf("X%d", n), val)
	}
	for addr, val := range cpu.Memory {
		text += fmt.Sprintf("%5s: %v\n", fmt.Sprintf("[%d]", addr), val)
	}

	return
}

// Done reports whether the PC has passed the end of the instruction
// sequence. There is no halt opcode; this is normal termination.
func (cpu *Cpu) Done() bool {
	return cpu.Pc >= len(cpu.program.Statements)
}

// Step fetches and executes a single instruction.
// Returns done == true once the PC has passed the end of .text.
func (cpu *Cpu) Step() (done bool, err error) {
	if cpu.Done() {
		done = true
		return
	}

	err = cpu.Execute(cpu.program.Statements[cpu.Pc].Inst)
	if err != nil {
		return
	}

	cpu.Ticks += 1
	done = cpu.Done()

	return
}

// Execute applies a single instruction's effect and updates the PC.
// Arithmetic is 32-bit two's-complement with wraparound on overflow.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Pc, inst)
	}

	next_pc := cpu.Pc + 1

	switch inst.Op {
	case OP_ADDRESS:
		cpu.Register[inst.Dst] = int32(inst.Addr)
	case OP_LOAD:
		var value int32
		value, err = cpu.load(cpu.Register[inst.Src1], inst.Imm)
		if err != nil {
			return
		}
		cpu.Register[inst.Dst] = value
	case OP_STORE:
		err = cpu.store(cpu.Register[inst.Src1], inst.Imm, cpu.Register[inst.Dst])
		if err != nil {
			return
		}
	case OP_ADD:
		cpu.Register[inst.Dst] = cpu.Register[inst.Src1] + cpu.Register[inst.Src2]
	case OP_SUB:
		cpu.Register[inst.Dst] = cpu.Register[inst.Src1] - cpu.Register[inst.Src2]
	case OP_SETIMM:
		cpu.Register[inst.Dst] = inst.Imm
	case OP_BRANCH:
		next_pc = inst.Addr
	case OP_BRANCH_IF_ZERO:
		if cpu.Register[inst.Dst] == 0 {
			next_pc = inst.Addr
		}
	default:
		err = ErrOpcodeDecode
		return
	}

	cpu.Pc = next_pc

	return
}

// load reads the memory cell at base+offset.
func (cpu *Cpu) load(base int32, offset int32) (value int32, err error) {
	addr := int(base) + int(offset)
	if addr < 0 || addr >= len(cpu.Memory) {
		err = &ErrMemoryFault{Pc: cpu.Pc, Addr: addr}
		return
	}

	value = cpu.Memory[addr]

	return
}

// store writes the memory cell at base+offset.
func (cpu *Cpu) store(base int32, offset int32, value int32) (err error) {
	addr := int(base) + int(offset)
	if addr < 0 || addr >= len(cpu.Memory) {
		err = &ErrMemoryFault{Pc: cpu.Pc, Addr: addr}
		return
	}

	cpu.Memory[addr] = value

	return
}
