package pipeline

import (
	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
)

// Decode turns the raw word fetched this cycle into an isa.Instruction,
// populates the operand fields its opcode calls for, and raises a
// SyscallException the moment an ECALL is recognized — before execute ever
// runs. The syscall number is read from a7.
func Decode(reg *Register, a arch.Arch) error {
	if reg.InstructionRaw == nil {
		return missingState("instruction_raw")
	}

	instruction, err := isa.Decode(*reg.InstructionRaw, a)
	if err != nil {
		return decodeError(err)
	}
	reg.Instruction = &instruction

	if rs1, ok := instruction.RS1(); ok {
		reg.RS1Value = ptr(reg.Registers[rs1])
	}
	if rs2, ok := instruction.RS2(); ok {
		reg.RS2Value = ptr(reg.Registers[rs2])
	}
	if rd, ok := instruction.RD(); ok {
		reg.RD = ptr(rd)
	}
	if imm, ok := instruction.Immediate(); ok {
		reg.Immediate = ptr(imm)
	}

	if instruction.IsSystemCall() {
		return SyscallException(reg.Registers[arch.RegA7])
	}
	return nil
}
