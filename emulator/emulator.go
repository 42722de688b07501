// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/ikea/cpu"
)

// Emulator wraps a CPU with host policy that is not part of the
// instruction semantics: a step budget to guard against runaway
// branching, and source line attribution for runtime faults.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Program  *cpu.Program // Reference to the currently running program listing.
	MaxSteps int          // Step budget per Run; 0 means unlimited.
}

// NewEmulator creates a new emulator for a resolved program.
func NewEmulator(prog *cpu.Program) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(prog),
		Program: prog,
	}

	return
}

// Reset the machine state.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// LineNo returns the current line number for the executing statement.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.Statement.LineNo
}

// Cell returns the current value of a named .data cell.
func (emu *Emulator) Cell(name string) (value int32, ok bool) {
	addr, ok := emu.Program.Data[name]
	if !ok {
		return
	}

	value = emu.Cpu.Memory[addr]

	return
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Cpu.Step()

	return
}

// Run executes until the program halts, faults, or exceeds MaxSteps.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		if done {
			return
		}
		if emu.MaxSteps > 0 && emu.Cpu.Ticks >= emu.MaxSteps {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrStepLimit}
			return
		}
	}
}
