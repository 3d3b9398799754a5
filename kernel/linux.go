package kernel

import (
	"fmt"
	"io"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/memory"
	"github.com/quietvm/rv5sim/pipeline"
)

// Linux syscall numbers this kernel recognizes, matching the generic Linux
// RISC-V ABI.
const (
	SysWrite = 64
	SysExit  = 93
)

const (
	fdStdout = 1
	fdStderr = 2
)

// negErrno is the value every failed syscall returns in a0 rather than as
// a Go error. It is always -1; no specific errno is encoded.
const negErrno = ^arch.XWord(0) // -1 as two's complement

// Linux is a reference Kernel covering the two syscalls a freestanding
// RISC-V test program typically needs: write, for output, and exit, to end
// the run. Anything else returns -1 to the guest in a0 rather than
// aborting the host.
type Linux struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewLinux returns a Linux kernel that writes fd 1 to stdout and fd 2 to
// stderr.
func NewLinux(stdout, stderr io.Writer) *Linux {
	return &Linux{Stdout: stdout, Stderr: stderr}
}

// Syscall dispatches sysno to the matching handler. The returned XWord is
// not used by the caller; write and exit place whatever the guest should
// see in a0 themselves.
func (k *Linux) Syscall(sysno arch.XWord, mem *memory.Memory, reg *pipeline.Register) (arch.XWord, error) {
	switch sysno {
	case SysWrite:
		return k.write(mem, reg)
	case SysExit:
		return k.exit(reg)
	default:
		reg.SetRegister(arch.RegA0, negErrno)
		return negErrno, nil
	}
}

func (k *Linux) exit(reg *pipeline.Register) (arch.XWord, error) {
	reg.Exit = true
	reg.ExitCode = reg.Registers[arch.RegA0]
	return 0, nil
}

func (k *Linux) write(mem *memory.Memory, reg *pipeline.Register) (arch.XWord, error) {
	fd := reg.Registers[arch.RegA0]
	buf := reg.Registers[arch.RegA1]
	count := reg.Registers[arch.RegA2]

	var w io.Writer
	switch fd {
	case fdStdout:
		w = k.Stdout
	case fdStderr:
		w = k.Stderr
	default:
		reg.SetRegister(arch.RegA0, negErrno)
		return negErrno, nil
	}
	if w == nil {
		reg.SetRegister(arch.RegA0, negErrno)
		return negErrno, nil
	}

	data, err := mem.ReadMemoryRange(buf, int(count))
	if err != nil {
		return 0, fmt.Errorf("kernel: write syscall read guest buffer: %w", err)
	}

	n, err := w.Write(data)
	if err != nil {
		return 0, fmt.Errorf("kernel: write syscall host write: %w", err)
	}
	reg.SetRegister(arch.RegA0, arch.XWord(n))
	return arch.XWord(n), nil
}
