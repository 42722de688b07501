// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/ikea/cpu"
	"github.com/ezrec/ikea/emulator"
)

func main() {
	var compile string
	var steps int
	var verbose bool

	asm := &cpu.Assembler{}

	flag.StringVar(&compile, "c", "", ".ikea file to assemble and run")
	flag.IntVar(&steps, "n", 0, "Step limit (0 for unlimited)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("D", "Predefine a NAME=VALUE equate", func(def string) error {
		name, value, ok := strings.Cut(def, "=")
		if !ok {
			return fmt.Errorf("expected NAME=VALUE, got %q", def)
		}
		asm.Predefine(name, value)
		return nil
	})

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		log.Fatalf("%v: No input file", os.Args[0])
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	asm.Verbose = verbose
	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	emu := emulator.NewEmulator(prog)
	emu.Verbose = verbose
	emu.MaxSteps = steps

	emu.Reset()
	err = emu.Run()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(emu.Cpu.String())

	// Data cells by name, in address order.
	names := make([]string, len(emu.Cpu.Memory))
	for name, addr := range prog.Data {
		names[addr] = name
	}
	for addr, name := range names {
		fmt.Printf("%v: %v\n", name, emu.Cpu.Memory[addr])
	}
}
