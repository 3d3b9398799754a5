// Package pipeline implements the five-stage fetch/decode/execute/memory/
// writeback cycle: one Register threaded through a sequence of stage
// functions, each reading and extending the fields the stage before it
// produced.
package pipeline

import (
	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
)

// Register is the pipeline register. Registers, Exit, ExitCode and
// Reservation persist across cycles; every other field is transient,
// produced by one stage and consumed by a later one within the same cycle,
// and is cleared by Advance.
type Register struct {
	Registers   [32]arch.XWord
	Exit        bool
	ExitCode    arch.XWord
	Reservation *arch.XWord

	PC     arch.XWord
	NextPC arch.XWord

	InstructionRaw *uint32
	Instruction    *isa.Instruction

	RS1Value  *arch.XWord
	RS2Value  *arch.XWord
	Immediate *arch.XWord
	RD        *uint8

	ALUResult *arch.XWord
	Memory    *arch.XWord
}

// NewRegister returns a Register with the program counter at pc and every
// other field zeroed.
func NewRegister(pc arch.XWord) *Register {
	return &Register{PC: pc, NextPC: pc}
}

// Advance resets every transient field to its zero value and moves PC to
// NextPC, ready for the next cycle's fetch stage. Registers, Exit,
// ExitCode and Reservation survive.
func (r *Register) Advance() {
	r.PC = r.NextPC
	r.InstructionRaw = nil
	r.Instruction = nil
	r.RS1Value = nil
	r.RS2Value = nil
	r.Immediate = nil
	r.RD = nil
	r.ALUResult = nil
	r.Memory = nil
}

// EffectiveAddress computes RS1Value + Immediate, the address used by
// loads and stores. It reports false if either operand is missing.
func (r *Register) EffectiveAddress() (arch.XWord, bool) {
	if r.RS1Value == nil || r.Immediate == nil {
		return 0, false
	}
	return *r.RS1Value + *r.Immediate, true
}

// SetRegister writes v to register index r, except that writes to x0 are
// always discarded: it is hardwired to zero.
func (reg *Register) SetRegister(r uint8, v arch.XWord) {
	if r == arch.RegZero {
		return
	}
	reg.Registers[r] = v
}

func ptr[T any](v T) *T { return &v }
