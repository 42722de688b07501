// Package cpu implements the assembler and virtual machine for the
// IKEA register instruction set.
//
// The machine consists of a program counter, eight 32-bit signed
// registers (X0-X7), and a linear word-addressable memory initialized
// from the program's .data section. The assembler translates the
// two-section textual format (.text instructions, .data cells) into a
// resolved Program in two passes, so labels and data symbols may be
// referenced before they are declared.
package cpu
