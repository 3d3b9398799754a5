package emu

import (
	"fmt"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/elfload"
	"github.com/quietvm/rv5sim/kernel"
	"github.com/quietvm/rv5sim/memory"
)

// Builder assembles an Emulator step by step, the way a linker script
// assembles a running image: an architecture, a memory (usually from an
// ELF image), a starting pc, and a kernel. The first error in the chain is
// kept, later steps are skipped, and Build returns it, so callers can write
// the whole chain without checking each step.
type Builder struct {
	arch   arch.Arch
	pc     arch.XWord
	memory *memory.Memory
	kernel kernel.Kernel
	err    error
}

// NewBuilder starts a Builder for the given architecture.
func NewBuilder(a arch.Arch) *Builder {
	return &Builder{arch: a}
}

// WithELF loads raw as an ELF image, setting both the memory and the
// starting program counter from it.
func (b *Builder) WithELF(raw []byte) *Builder {
	if b.err != nil {
		return b
	}
	mem, entry, err := elfload.Load(raw, b.arch)
	if err != nil {
		b.err = err
		return b
	}
	b.memory = mem
	b.pc = entry
	return b
}

// WithPC overrides the starting program counter.
func (b *Builder) WithPC(pc arch.XWord) *Builder {
	b.pc = pc
	return b
}

// WithMemory overrides the memory, independent of WithELF.
func (b *Builder) WithMemory(mem *memory.Memory) *Builder {
	b.memory = mem
	return b
}

// WithKernel sets the kernel ECALLs trap into.
func (b *Builder) WithKernel(k kernel.Kernel) *Builder {
	b.kernel = k
	return b
}

// Build validates the accumulated configuration and returns an Emulator.
// Unlike the reference builder this does not panic on a missing memory or
// kernel: both are reported as an error, since a debugger or CLI driving
// this builder needs to recover and report them cleanly.
func (b *Builder) Build() (*Emulator, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.memory == nil {
		return nil, fmt.Errorf("emu: builder: no memory configured")
	}
	if b.kernel == nil {
		return nil, fmt.Errorf("emu: builder: no kernel configured")
	}
	return New(b.arch, b.memory, b.kernel, b.pc), nil
}
