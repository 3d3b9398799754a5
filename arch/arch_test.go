package arch_test

import (
	"testing"

	"github.com/quietvm/rv5sim/arch"
	"github.com/stretchr/testify/assert"
)

func TestShiftMask(t *testing.T) {
	assert.Equal(t, uint64(0x1F), arch.RV32.ShiftMask())
	assert.Equal(t, uint64(0x3F), arch.RV64.ShiftMask())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, arch.XWord(0xFFFFFFFF), arch.RV32.Truncate(0xFFFFFFFFFFFFFFFF))
	assert.Equal(t, arch.XWord(0xFFFFFFFFFFFFFFFF), arch.RV64.Truncate(0xFFFFFFFFFFFFFFFF))
}

func TestSignBit(t *testing.T) {
	assert.Equal(t, uint(31), arch.RV32.SignBit())
	assert.Equal(t, uint(63), arch.RV64.SignBit())
}

func TestRegisterName(t *testing.T) {
	assert.Equal(t, "zero", arch.RegisterName(arch.RegZero))
	assert.Equal(t, "a7", arch.RegisterName(arch.RegA7))
	assert.Equal(t, "t6", arch.RegisterName(arch.RegT6))
	assert.Equal(t, "?", arch.RegisterName(32))
}
