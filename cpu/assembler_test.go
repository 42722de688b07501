package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// referenceSource is the canonical two-section test program: compares
// two data cells and rewrites the first with their sum or difference.
func referenceSource(donut, jumbo string) string {
	return strings.Join([]string{
		".text",
		"ADDRESS X0, donut      # X0 = &donut",
		"ADDRESS X1, jumbo      # X1 = &jumbo",
		"LOAD X2, X0, 0",
		"LOAD X3, X1, 0",
		"SUB X4, X3, X2",
		"BRANCH_IF_ZERO X4, _amogus",
		"STORE X4, X0, 0",
		"BRANCH _end",
		"_amogus:",
		"ADD X5, X2, X3",
		"STORE X5, X0, 0",
		"_end:",
		"SETIMM X6, 8",
		".data",
		"donut: " + donut,
		"jumbo: " + jumbo,
	}, "\n")
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))
	assert.Equal(0, len(prog.Memory))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("8", asm.Equate["REGISTER_COUNT"])
}

func TestAssemblerReference(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(referenceSource("5", "5")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(11, len(prog.Statements))
	assert.Equal(map[string]int{"_amogus": 8, "_end": 10}, prog.Labels)
	assert.Equal(map[string]int{"donut": 0, "jumbo": 1}, prog.Data)
	assert.Equal([]int32{5, 5}, prog.Memory)

	assert.Equal(Instruction{Op: OP_ADDRESS, Dst: 0, Addr: 0}, prog.Statements[0].Inst)
	assert.Equal(Instruction{Op: OP_ADDRESS, Dst: 1, Addr: 1}, prog.Statements[1].Inst)
	assert.Equal(Instruction{Op: OP_LOAD, Dst: 2, Src1: 0}, prog.Statements[2].Inst)
	assert.Equal(Instruction{Op: OP_SUB, Dst: 4, Src1: 3, Src2: 2}, prog.Statements[4].Inst)
	assert.Equal(Instruction{Op: OP_BRANCH_IF_ZERO, Dst: 4, Addr: 8}, prog.Statements[5].Inst)
	assert.Equal(Instruction{Op: OP_BRANCH, Addr: 10}, prog.Statements[7].Inst)
	assert.Equal(Instruction{Op: OP_SETIMM, Dst: 6, Imm: 8}, prog.Statements[10].Inst)

	// Statements keep their source locations.
	assert.Equal(2, prog.Statements[0].LineNo)
	assert.Equal(14, prog.Statements[10].LineNo)
}

func TestAssemblerLabelOrder(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// 'done' is a forward reference, 'loop' a backward one. Both
	// resolve against the completed table.
	program := []string{
		".text",
		"loop:",
		"SETIMM X0, 0",
		"BRANCH_IF_ZERO X0, done",
		"BRANCH loop",
		"done:",
		"SETIMM X1, 1",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(0, prog.Labels["loop"])
	assert.Equal(3, prog.Labels["done"])
	assert.Equal(3, prog.Statements[1].Inst.Addr)
	assert.Equal(0, prog.Statements[2].Inst.Addr)
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".text",
		".equ CONST_10 10",
		"SETIMM X0, CONST_10",
		"SETIMM X1, $(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"SETIMM X2, CONST_30",
		"LOAD X3, X0, $(CONST_10 - 10)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(4, len(prog.Statements))
	assert.Equal(int32(10), prog.Statements[0].Inst.Imm)
	assert.Equal(int32(20), prog.Statements[1].Inst.Imm)
	assert.Equal(int32(30), prog.Statements[2].Inst.Imm)
	assert.Equal(int32(0), prog.Statements[3].Inst.Imm)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("START", "5")

	prog, err := asm.Parse(strings.NewReader(".text\nSETIMM X0, START\n"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(int32(5), prog.Statements[0].Inst.Imm)
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".data",
		"first: 1",
		"second:-7",
		"third: 2147483647    # comments are stripped here too",
		".text",
		"ADDRESS X0, third",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]int32{1, -7, 2147483647}, prog.Memory)
	assert.Equal(map[string]int{"first": 0, "second": 1, "third": 2}, prog.Data)
	assert.Equal(2, prog.Statements[0].Inst.Addr)
}

func TestAssemblerUndefinedSymbol(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(".text\nBRANCH _nowhere\n"))
	assert.Nil(prog)
	assert.Error(err)

	var esm ErrSymbolMissing
	assert.True(errors.As(err, &esm))
	assert.Equal("_nowhere", string(esm))
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{".text\nDUP:\nDUP:\nSETIMM X0, 1\n", 3},
		{".text\nSETIMM X0, 1\n.data\nA: 1\nA: 2\n", 5},
		{".text\nA:\nSETIMM X0, 1\n.data\nA: 1\n", 5},
		{"SETIMM X0, 1\n", 1},
		{".data\ndonut: 5\nSETIMM X0, 1\n", 3},
		{".text\nNOP\n", 2},
		{".text\nADD X0, X1\n", 2},
		{".text\nADD X0, X1, X2, X3\n", 2},
		{".text\nADD X0, X1, 5\n", 2},
		{".text\nADD X9, X1, X2\n", 2},
		{".text\nSETIMM X0, lots\n", 2},
		{".text\nSETIMM X0, 9999999999\n", 2},
		{".text\nBRANCH X0\n", 2},
		{".text\nBRANCH_IF_ZERO X0, X1\n", 2},
		{".text\nADDRESS X0, 12\n", 2},
		{".text\n.equ\n", 2},
		{".text\n.equ A\n", 2},
		{".text\n.equ A 1\n.equ A 2\n", 3},
		{".text\nSETIMM X0, $(\"aaa\")\n", 2},
		{".text\nSETIMM X0, $(more(\"aaa\"))\n", 2},
		{".text\nSETIMM X0, $(99999999999999)\n", 2},
		{".data\n: 5\n", 2},
		{".data\nfoo 5\n", 2},
		{".data\nfoo: bar\n", 2},
		{".data\nfoo: 5 5\n", 2},
		{".text\nBRANCH nowhere\n", 2},
		{".text\nSETIMM X0, 1\nBRANCH nowhere\n", 3},
		{".text\nADDRESS X0, nothing\n", 2},
	}

	for _, entry := range table {
		prog, err := asm.Parse(strings.NewReader(entry.prog))
		assert.Nil(prog, entry.prog)
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// State from a prior parse must not leak into the next.
	prog, err := asm.Parse(strings.NewReader(referenceSource("5", "5")))
	assert.NoError(err)
	assert.Equal(11, len(prog.Statements))

	prog, err = asm.Parse(strings.NewReader(".text\nSETIMM X0, 1\n"))
	assert.NoError(err)
	assert.Equal(1, len(prog.Statements))
	assert.Equal(0, len(prog.Labels))
	assert.Equal(0, len(prog.Memory))
}
