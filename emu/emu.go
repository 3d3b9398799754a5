// Package emu assembles the pieces — an architecture, a pipeline register,
// a memory, and a kernel — into a single-hart machine that can run to
// completion or be stepped one cycle at a time by a debugger.
package emu

import (
	"errors"
	"fmt"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/kernel"
	"github.com/quietvm/rv5sim/memory"
	"github.com/quietvm/rv5sim/pipeline"
)

// Emulator owns everything one hart needs to run: its architecture
// configuration, its pipeline register, its address space, and the kernel
// its ECALLs trap into.
type Emulator struct {
	Arch     arch.Arch
	Register *pipeline.Register
	Memory   *memory.Memory
	Kernel   kernel.Kernel
}

// New constructs an Emulator starting execution at pc.
func New(a arch.Arch, mem *memory.Memory, k kernel.Kernel, pc arch.XWord) *Emulator {
	return &Emulator{
		Arch:     a,
		Register: pipeline.NewRegister(pc),
		Memory:   mem,
		Kernel:   k,
	}
}

// Cycle runs fetch, decode, execute, memory and writeback once. A
// SyscallException raised by decode is not returned to the caller: it is
// handed to the Kernel, and the cycle completes normally from there
// (skipping execute/memory/writeback, since an ECALL carries no further
// work for those stages). The Kernel's return value is its own business —
// the core never places it in a register; a kernel that wants to return
// something to the guest writes it to a0 itself. Any other stage error
// aborts the cycle without calling Advance, leaving the register in the
// state it failed in for a debugger to inspect.
func (e *Emulator) Cycle() error {
	reg := e.Register

	if err := pipeline.Fetch(reg, e.Memory, e.Arch); err != nil {
		return err
	}

	if err := pipeline.Decode(reg, e.Arch); err != nil {
		var pe *pipeline.Error
		if errors.As(err, &pe) && pe.Kind == pipeline.SyscallExceptionKind {
			return e.handleSyscall(pe)
		}
		return err
	}

	if err := pipeline.Execute(reg, e.Arch); err != nil {
		return err
	}
	if err := pipeline.MemAccess(reg, e.Memory, e.Arch); err != nil {
		return err
	}
	if err := pipeline.Writeback(reg); err != nil {
		return err
	}

	reg.Advance()
	return nil
}

func (e *Emulator) handleSyscall(pe *pipeline.Error) error {
	reg := e.Register
	if _, err := e.Kernel.Syscall(pe.SyscallNo, e.Memory, reg); err != nil {
		return fmt.Errorf("emu: syscall %d: %w", pe.SyscallNo, err)
	}
	if reg.Exit {
		return nil
	}
	reg.Advance()
	return nil
}

// Reset discards all execution state and restarts the hart at pc, keeping
// the same memory and kernel. A debugger's "reset" command does this
// rather than rebuilding the Emulator from scratch.
func (e *Emulator) Reset(pc arch.XWord) {
	e.Register = pipeline.NewRegister(pc)
}

// Run cycles the machine until it exits or an error occurs. maxCycles
// bounds a runaway guest program; 0 means unbounded.
func (e *Emulator) Run(maxCycles arch.XWord) error {
	var cycles arch.XWord
	for !e.Register.Exit {
		if maxCycles != 0 && cycles >= maxCycles {
			return fmt.Errorf("emu: exceeded max cycle count %d", maxCycles)
		}
		if err := e.Cycle(); err != nil {
			return err
		}
		cycles++
	}
	return nil
}
