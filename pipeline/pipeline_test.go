package pipeline_test

import (
	"testing"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
	"github.com/quietvm/rv5sim/memory"
	"github.com/quietvm/rv5sim/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCycle(t *testing.T, reg *pipeline.Register, mem *memory.Memory, a arch.Arch) error {
	t.Helper()
	if err := pipeline.Fetch(reg, mem, a); err != nil {
		return err
	}
	if err := pipeline.Decode(reg, a); err != nil {
		return err
	}
	if err := pipeline.Execute(reg, a); err != nil {
		return err
	}
	if err := pipeline.MemAccess(reg, mem, a); err != nil {
		return err
	}
	return pipeline.Writeback(reg)
}

func encodeIType(opcode, funct3, rd, rs1 uint8, imm int32) uint32 {
	return uint32(opcode) | uint32(rd)<<7 | uint32(funct3)<<12 | uint32(rs1)<<15 | (uint32(imm)&0xFFF)<<20
}

func TestWritesToX0AreNoOps(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	mem.SetWord(0, encodeIType(0b0010011, 0, arch.RegZero, arch.RegZero, 5)) // addi x0, x0, 5

	require.NoError(t, runCycle(t, reg, mem, arch.RV64))
	assert.Equal(t, arch.XWord(0), reg.Registers[arch.RegZero])
}

func TestAddiChain(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	mem.SetWord(0, encodeIType(0b0010011, 0, arch.RegA0, arch.RegZero, 5))
	mem.SetWord(4, encodeIType(0b0010011, 0, arch.RegA0, arch.RegA0, 7))

	for i := 0; i < 2; i++ {
		require.NoError(t, runCycle(t, reg, mem, arch.RV64))
		reg.Advance()
	}
	assert.Equal(t, arch.XWord(12), reg.Registers[arch.RegA0])
}

func TestPostCycleTransientFieldsCleared(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	mem.SetWord(0, encodeIType(0b0010011, 0, arch.RegA0, arch.RegZero, 5))

	require.NoError(t, runCycle(t, reg, mem, arch.RV64))
	reg.Advance()

	assert.Nil(t, reg.InstructionRaw)
	assert.Nil(t, reg.Instruction)
	assert.Nil(t, reg.RS1Value)
	assert.Nil(t, reg.RS2Value)
	assert.Nil(t, reg.Immediate)
	assert.Nil(t, reg.RD)
	assert.Nil(t, reg.ALUResult)
	assert.Nil(t, reg.Memory)
}

func TestDivisionByZeroIsNotAnError(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	// div a0, a1, a2 ; a1=10, a2=0
	reg.Registers[arch.RegA1] = 10
	reg.Registers[arch.RegA2] = 0
	word := uint32(0b0110011) | uint32(arch.RegA0)<<7 | uint32(4)<<12 |
		uint32(arch.RegA1)<<15 | uint32(arch.RegA2)<<20 | uint32(1)<<25

	a := arch.RV64
	a.M = true

	mem.SetWord(0, word)
	require.NoError(t, runCycle(t, reg, mem, a))
	assert.Equal(t, arch.RV64.WordMask(), reg.Registers[arch.RegA0])
}

func TestLoadStoreCrossPageWordSignExtended(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	addr := arch.XWord(memory.PageSize - 2)

	reg.Registers[arch.RegA0] = addr
	reg.Registers[arch.RegA1] = 0xFFFFFFFF // -1 truncated to word on store
	sw := uint32(0b0100011) | uint32(0)<<7 | uint32(2)<<12 | uint32(arch.RegA0)<<15 | uint32(arch.RegA1)<<20
	mem.SetWord(0, sw)
	require.NoError(t, runCycle(t, reg, mem, arch.RV64))
	reg.Advance()

	lw := encodeIType(0b0000011, 2, arch.RegA2, arch.RegA0, 0)
	mem.SetWord(reg.PC, lw)
	require.NoError(t, runCycle(t, reg, mem, arch.RV64))
	assert.Equal(t, arch.XWord(0xFFFFFFFFFFFFFFFF), reg.Registers[arch.RegA2])
}

func TestLrScReservation(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	addr := arch.XWord(0x1000)
	mem.SetWord(addr, 42)
	reg.Registers[arch.RegA0] = addr
	reg.Registers[arch.RegA1] = 99

	a := arch.RV64
	a.A = true

	// lr.w a2, (a0): funct7 top5=0b00010, funct3=010
	lr := uint32(0b0101111) | uint32(arch.RegA2)<<7 | uint32(0b010)<<12 | uint32(arch.RegA0)<<15 | uint32(0b00010)<<27
	mem.SetWord(0, lr)
	require.NoError(t, runCycle(t, reg, mem, a))
	reg.Advance()
	assert.Equal(t, arch.XWord(42), reg.Registers[arch.RegA2])
	require.NotNil(t, reg.Reservation)
	assert.Equal(t, addr, *reg.Reservation)

	// sc.w a3, a1, (a0): funct7 top5=0b00011
	sc := uint32(0b0101111) | uint32(arch.RegA3)<<7 | uint32(0b010)<<12 | uint32(arch.RegA0)<<15 | uint32(arch.RegA1)<<20 | uint32(0b00011)<<27
	mem.SetWord(reg.PC, sc)
	require.NoError(t, runCycle(t, reg, mem, a))
	assert.Equal(t, arch.XWord(0), reg.Registers[arch.RegA3])
	assert.Nil(t, reg.Reservation)

	v, err := mem.GetWord(addr)
	require.NoError(t, err)
	assert.Equal(t, uint32(99), v)
}

func TestEcallRaisesSyscallExceptionFromA7(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	reg.Registers[arch.RegA7] = 93
	reg.Registers[arch.RegZero] = 0
	mem.SetWord(0, 0b1110011) // ecall: all fields zero

	err := pipeline.Fetch(reg, mem, arch.RV64)
	require.NoError(t, err)
	err = pipeline.Decode(reg, arch.RV64)
	require.Error(t, err)

	var pe *pipeline.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pipeline.SyscallExceptionKind, pe.Kind)
	assert.Equal(t, arch.XWord(93), pe.SyscallNo)
}

func TestTakenBranchSetsNextPC(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	reg.Registers[arch.RegA0] = 1
	reg.Registers[arch.RegA1] = 1
	// beq a0, a1, 8
	imm := uint32(8)
	word := uint32(0b1100011) |
		((imm>>11)&1)<<7 | ((imm>>1)&0xF)<<8 | uint32(0)<<12 |
		uint32(arch.RegA0)<<15 | uint32(arch.RegA1)<<20 | ((imm>>5)&0x3F)<<25 | ((imm>>12)&1)<<31
	mem.SetWord(0, word)

	require.NoError(t, runCycle(t, reg, mem, arch.RV64))
	assert.Equal(t, arch.XWord(8), reg.NextPC)
}

func TestCompressedAddiMatchesExpansion(t *testing.T) {
	a := arch.RV64
	a.C = true
	mem := memory.New()
	reg := pipeline.NewRegister(0)

	// c.li a0, 5
	instr := uint16(0)
	instr |= 0b01
	instr |= 0b010 << 13
	instr |= uint16(arch.RegA0) << 7
	instr |= 5 << 2
	mem.SetHalfword(0, instr)
	mem.SetHalfword(2, 0) // upper half of the word fetched at pc=0

	require.NoError(t, runCycle(t, reg, mem, a))
	assert.Equal(t, arch.XWord(5), reg.Registers[arch.RegA0])
	assert.Equal(t, arch.XWord(2), reg.NextPC)
}

func TestDecodeInvalidOpcodeFails(t *testing.T) {
	reg := pipeline.NewRegister(0)
	mem := memory.New()
	mem.SetWord(0, 0b1111111) // not a valid base opcode

	require.NoError(t, pipeline.Fetch(reg, mem, arch.RV64))
	err := pipeline.Decode(reg, arch.RV64)
	require.Error(t, err)
	var pe *pipeline.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pipeline.InstructionDecodeErrorKind, pe.Kind)
	var de *isa.DecodeError
	require.ErrorAs(t, err, &de)
}
