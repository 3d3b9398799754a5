// Package elfload loads a static ELF image into a fresh paged address
// space, the way a minimal embedded loader would: enough program-header
// handling to run a statically linked RISC-V binary, nothing more.
package elfload

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/memory"
)

// ptRiscvAttributes is PT_LOPROC + 3, the RISC-V attributes segment type.
// It carries toolchain metadata, not loadable content, and is always
// skipped.
const ptRiscvAttributes = 0x70000003

// maxAddress is the exclusive bound on the end of a segment: a segment
// whose end reaches 2^47, the top of the canonical sv48 address space, is
// rejected.
const maxAddress = uint64(1) << 47

// Load parses raw as an ELF image and copies every program segment except
// the RISC-V attributes segment into a fresh Memory, whatever its type,
// returning it along with the entry point truncated to the architecture's
// native width.
func Load(raw []byte, a arch.Arch) (*memory.Memory, arch.XWord, error) {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("elfload: parse: %w", err)
	}
	defer f.Close()

	mem := memory.New()

	for _, prog := range f.Progs {
		if uint32(prog.Type) == ptRiscvAttributes {
			continue
		}

		data, err := segmentData(prog)
		if err != nil {
			return nil, 0, fmt.Errorf("elfload: segment at 0x%x: %w", prog.Vaddr, err)
		}

		end := prog.Vaddr + prog.Memsz
		if end >= maxAddress {
			return nil, 0, fmt.Errorf("elfload: segment at 0x%x extends to 0x%x, past the supported address space", prog.Vaddr, end)
		}

		mem.SetMemoryRange(prog.Vaddr, data)
	}

	return mem, a.Truncate(f.Entry), nil
}

// segmentData returns the bytes a program header should contribute to
// memory: its file content, zero-padded out to Memsz when Filesz < Memsz.
// A mismatch in any other direction, or for any non-PT_LOAD segment, is
// rejected — this loader only understands the zero-fill-on-load idiom.
func segmentData(prog *elf.Prog) ([]byte, error) {
	if prog.Filesz == prog.Memsz {
		data := make([]byte, prog.Filesz)
		if _, err := io.ReadFull(prog.Open(), data); err != nil {
			return nil, fmt.Errorf("read segment contents: %w", err)
		}
		return data, nil
	}

	if prog.Type != elf.PT_LOAD || prog.Filesz > prog.Memsz {
		return nil, fmt.Errorf("filesz (%d) and memsz (%d) disagree and segment is not zero-fillable", prog.Filesz, prog.Memsz)
	}

	data := make([]byte, prog.Memsz)
	if _, err := io.ReadFull(prog.Open(), data[:prog.Filesz]); err != nil {
		return nil, fmt.Errorf("read segment contents: %w", err)
	}
	return data, nil
}
