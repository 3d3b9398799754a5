// Package kernel defines the trap surface a pipeline cycle hands control to
// on ECALL, and ships a minimal Linux-like reference implementation.
//
// Two kinds of failure are possible here, and they are never confused with
// each other. A Go error return means the host itself cannot continue —
// a buffer address the guest passed doesn't resolve to mapped memory, for
// instance — and aborts the run. An operation that the guest itself could
// have predicted failing (writing to a closed file descriptor, say) is not
// a Go error at all: it is reported the way Linux reports it, as a
// negative return value handed back to the guest's a0 register.
package kernel

import (
	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/memory"
	"github.com/quietvm/rv5sim/pipeline"
)

// Kernel services the syscall a pipeline cycle traps into. sysno is a7 at
// the moment of the ECALL; reg is mutable so Exit/ExitCode can be set and a0
// written with a result, and a single call may also mutate mem (a write
// into a guest buffer, say). The core treats the returned arch.XWord as
// opaque and never places it in any register itself; a Syscall
// implementation that wants the guest to see a result sets a0 before
// returning.
type Kernel interface {
	Syscall(sysno arch.XWord, mem *memory.Memory, reg *pipeline.Register) (arch.XWord, error)
}
