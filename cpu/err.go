package cpu

import (
	"errors"

	"github.com/ezrec/ikea/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOpcodeDecode = errors.New(f("decode"))

	// Assembler errors
	ErrSectionMissing     = errors.New(f("statement outside .text or .data"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrDataDuplicate      = errors.New(f("data symbol duplicated"))
	ErrDataSyntax         = errors.New(f(".data syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrSymbolInvalid      = errors.New(f("symbol invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

type ErrSymbolMissing string

func (es ErrSymbolMissing) Error() string {
	return f("symbol %v missing", string(es))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrMemoryFault is a runtime fault: a LOAD or STORE computed an
// address outside the allocated memory range.
type ErrMemoryFault struct {
	Pc   int // Index of the faulting instruction.
	Addr int // Offending address.
}

func (err *ErrMemoryFault) Error() string {
	return f("memory fault at pc %d, address %d", err.Pc, err.Addr)
}

func (err *ErrMemoryFault) Is(target error) (ok bool) {
	_, ok = target.(*ErrMemoryFault)
	return
}
