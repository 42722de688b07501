// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}

// Assembler is a two pass assembler for the IKEA instruction set.
// Pass 1 scans both sections, parses every statement, and collects the
// symbol table; pass 2 links symbolic operands against the completed
// table, so forward references resolve the same as backward ones.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of parsed statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of code labels to instruction indexes.
	Data      map[string]int    // Map of data symbols to memory addresses.
	Memory    []int32           // Initial memory image, one cell per .data line.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register file indexes.
var regMap = map[string]int{
	"X0": 0,
	"X1": 1,
	"X2": 2,
	"X3": 3,
	"X4": 4,
	"X5": 5,
	"X6": 6,
	"X7": 7,
}

// symbolRe matches a bare label or data identifier.
var symbolRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// valueOf parses a base-10, optionally signed, integer literal.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int32(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 int32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > math.MaxInt32 || st_int64 < math.MinInt32 {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

// defined reports whether a name is already bound as a label or data symbol.
func (asm *Assembler) defined(name string) (ok bool) {
	_, ok = asm.Label[name]
	if !ok {
		_, ok = asm.Data[name]
	}
	return
}

// parseLine parses a single .text line into statement words.
// Handles $() evaluation, .equ definitions, equate substitution, and
// label bindings; labels bind to the index of the next instruction and
// consume no instruction slot.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !symbolRe.MatchString(label) {
			err = ErrSymbolInvalid
			return
		}
		if asm.defined(label) {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = len(asm.Statement)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// operands validates the operand count for a fixed mnemonic shape.
func (asm *Assembler) operands(args []string, count int) (err error) {
	if len(args) < count {
		err = ErrOpcodeValueMissing
	} else if len(args) > count {
		err = ErrOpcodeExtraArgs
	}
	return
}

// register parses a register name operand.
func (asm *Assembler) register(word string) (reg int, err error) {
	reg, ok := regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// symbol parses a label or data identifier operand.
func (asm *Assembler) symbol(word string) (name string, err error) {
	_, is_reg := regMap[word]
	if is_reg || !symbolRe.MatchString(word) {
		err = ErrSymbolInvalid
		return
	}
	name = word
	return
}

// parseWords evaluates the words in a line of instruction text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	stmt := Statement{
		LineNo: lineno,
		Pc:     len(asm.Statement),
		Words:  slices.Clone(words),
		Inst:   Instruction{Op: op},
	}
	args := words[1:]

	switch op {
	case OP_ADDRESS:
		// ADDRESS Xd, symbol
		err = asm.operands(args, 2)
		if err != nil {
			return
		}
		stmt.Inst.Dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		stmt.Symbol, err = asm.symbol(args[1])
		if err != nil {
			return
		}
	case OP_LOAD, OP_STORE:
		// LOAD Xd, Xbase, imm / STORE Xsrc, Xbase, imm
		err = asm.operands(args, 3)
		if err != nil {
			return
		}
		stmt.Inst.Dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		stmt.Inst.Src1, err = asm.register(args[1])
		if err != nil {
			return
		}
		stmt.Inst.Imm, err = asm.valueOf(args[2])
		if err != nil {
			return
		}
	case OP_ADD, OP_SUB:
		// ADD Xd, Xa, Xb
		err = asm.operands(args, 3)
		if err != nil {
			return
		}
		stmt.Inst.Dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		stmt.Inst.Src1, err = asm.register(args[1])
		if err != nil {
			return
		}
		stmt.Inst.Src2, err = asm.register(args[2])
		if err != nil {
			return
		}
	case OP_SETIMM:
		// SETIMM Xd, imm
		err = asm.operands(args, 2)
		if err != nil {
			return
		}
		stmt.Inst.Dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		stmt.Inst.Imm, err = asm.valueOf(args[1])
		if err != nil {
			return
		}
	case OP_BRANCH:
		// BRANCH label
		err = asm.operands(args, 1)
		if err != nil {
			return
		}
		stmt.Symbol, err = asm.symbol(args[0])
		if err != nil {
			return
		}
	case OP_BRANCH_IF_ZERO:
		// BRANCH_IF_ZERO Xcond, label
		err = asm.operands(args, 2)
		if err != nil {
			return
		}
		stmt.Inst.Dst, err = asm.register(args[0])
		if err != nil {
			return
		}
		stmt.Symbol, err = asm.symbol(args[1])
		if err != nil {
			return
		}
	}

	asm.Statement = append(asm.Statement, stmt)

	return
}

// parseData parses a single .data line, 'identifier: integer-literal'.
// Declarations are assigned memory addresses in declaration order,
// one cell per declaration, starting at 0.
func (asm *Assembler) parseData(line string, lineno int) (err error) {
	colon := strings.Index(line, ":")
	if colon <= 0 {
		err = ErrDataSyntax
		return
	}

	name := strings.TrimSpace(line[:colon])
	literal := strings.TrimSpace(line[colon+1:])

	if !symbolRe.MatchString(name) {
		err = ErrDataSyntax
		return
	}
	if asm.defined(name) {
		err = ErrDataDuplicate
		return
	}

	value, err := asm.valueOf(literal)
	if err != nil {
		return
	}

	asm.Data[name] = len(asm.Memory)
	asm.Memory = append(asm.Memory, value)

	return
}

// resolve resolves a symbolic operand against the completed symbol
// table. ADDRESS prefers data symbols; branches only accept code labels.
func (asm *Assembler) resolve(op Op, name string) (addr int, err error) {
	var ok bool

	if op == OP_ADDRESS {
		addr, ok = asm.Data[name]
		if ok {
			return
		}
	}
	addr, ok = asm.Label[name]
	if ok {
		return
	}

	err = ErrSymbolMissing(name)

	return
}

// Parse parses an input stream into a resolved Program.
// On any error, no program is produced.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Statement = asm.Statement[:0]
	asm.Memory = asm.Memory[:0]
	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	if asm.Data == nil {
		asm.Data = make(map[string]int, 16)
	}
	clear(asm.Data)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	var section string

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, "#")
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		switch line {
		case ".text", ".data":
			section = line
			continue
		}

		switch section {
		case ".text":
			var words []string
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				return
			}
		case ".data":
			err = asm.parseData(line, lineno)
			if err != nil {
				return
			}
		default:
			err = ErrSectionMissing
			return
		}
	}

	// Final linking of symbolic operands.
	for n := range asm.Statement {
		stmt := &asm.Statement[n]

		if len(stmt.Symbol) == 0 {
			continue
		}
		lineno = stmt.LineNo
		line = strings.Join(stmt.Words, " ")

		stmt.Inst.Addr, err = asm.resolve(stmt.Inst.Op, stmt.Symbol)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
		Labels:     maps.Clone(asm.Label),
		Data:       maps.Clone(asm.Data),
		Memory:     slices.Clone(asm.Memory),
	}

	return
}
