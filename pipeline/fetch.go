package pipeline

import (
	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
	"github.com/quietvm/rv5sim/memory"
)

// Fetch reads the instruction word at the program counter and advances
// NextPC by 2 or 4, depending on whether the fetched word's low bits mark
// it as a compressed encoding.
func Fetch(reg *Register, mem *memory.Memory, a arch.Arch) error {
	raw, err := mem.GetWord(reg.PC)
	if err != nil {
		return memoryError(err)
	}
	reg.InstructionRaw = ptr(raw)

	step := arch.XWord(4)
	if a.C && isa.IsCompressed(raw) {
		step = 2
	}
	reg.NextPC = reg.PC + step
	return nil
}
