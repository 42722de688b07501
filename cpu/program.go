package cpu

import (
	"iter"
	"maps"

	"github.com/ezrec/ikea/internal"
)

// Statement is one assembled line of .text with its source location.
type Statement struct {
	LineNo int
	Pc     int
	Words  []string
	Inst   Instruction
	Symbol string // Symbolic operand, resolved into Inst.Addr during linking.
}

// Program is the resolved output of the assembler. It is immutable
// once produced; the interpreter keeps its own mutable copy of Memory.
type Program struct {
	Statements []Statement
	Labels     map[string]int // Code labels to instruction indexes.
	Data       map[string]int // Data symbols to memory addresses.
	Memory     []int32        // Initial memory image, one cell per .data line.
}

type Debug struct {
	*Statement
	Index int
}

// Debug maps an instruction index to the statement that produced it.
func (prog *Program) Debug(pc int) (dbg Debug) {
	if pc >= 0 && pc < len(prog.Statements) {
		dbg = Debug{
			Statement: &prog.Statements[pc],
			Index:     pc,
		}
	}

	return
}

// Instructions iterates the resolved instruction sequence in PC order.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(pc int, inst Instruction) bool) {
		for _, stmt := range prog.Statements {
			if !yield(stmt.Pc, stmt.Inst) {
				return
			}
		}
	}
}

// Symbols iterates the unified symbol table: code labels bound to
// instruction indexes, and data symbols bound to memory addresses.
func (prog *Program) Symbols() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(prog.Labels), maps.All(prog.Data))
}
