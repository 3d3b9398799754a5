package elfload_test

import (
	"encoding/binary"
	"testing"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/elfload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildELF64 hand-assembles a minimal 64-bit ELF image with a single
// PT_LOAD segment, since debug/elf only parses, never writes.
func buildELF64(t *testing.T, vaddr, entry uint64, fileData []byte, memsz uint64) []byte {
	t.Helper()
	const ehdrSize = 64
	const phdrSize = 56
	offset := uint64(ehdrSize + phdrSize)

	buf := make([]byte, offset+uint64(len(fileData)))

	copy(buf[0:4], []byte{0x7f, 'E', 'L', 'F'})
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1 // EV_CURRENT
	le := binary.LittleEndian
	le.PutUint16(buf[16:18], 2)   // ET_EXEC
	le.PutUint16(buf[18:20], 243) // EM_RISCV
	le.PutUint32(buf[20:24], 1)   // e_version
	le.PutUint64(buf[24:32], entry)
	le.PutUint64(buf[32:40], ehdrSize) // e_phoff
	le.PutUint16(buf[52:54], ehdrSize)
	le.PutUint16(buf[54:56], phdrSize)
	le.PutUint16(buf[56:58], 1) // e_phnum

	ph := buf[ehdrSize : ehdrSize+phdrSize]
	le.PutUint32(ph[0:4], 1)      // PT_LOAD
	le.PutUint32(ph[4:8], 5)      // PF_R | PF_X
	le.PutUint64(ph[8:16], offset) // p_offset
	le.PutUint64(ph[16:24], vaddr)
	le.PutUint64(ph[24:32], vaddr)
	le.PutUint64(ph[32:40], uint64(len(fileData))) // p_filesz
	le.PutUint64(ph[40:48], memsz)                 // p_memsz
	le.PutUint64(ph[48:56], 0x1000)                // p_align

	copy(buf[offset:], fileData)
	return buf
}

func TestLoadZeroFillsBssTail(t *testing.T) {
	raw := buildELF64(t, 0x10000, 0x10000, []byte{1, 2, 3, 4}, 8)

	mem, entry, err := elfload.Load(raw, arch.RV64)
	require.NoError(t, err)
	assert.Equal(t, arch.XWord(0x10000), entry)

	data, err := mem.ReadMemoryRange(0x10000, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, data)
}

func TestLoadRejectsHighAddress(t *testing.T) {
	raw := buildELF64(t, 1<<47, 1<<47, []byte{1}, 1)
	_, _, err := elfload.Load(raw, arch.RV64)
	require.Error(t, err)
}
