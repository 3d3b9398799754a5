package pipeline

import (
	"fmt"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
	"github.com/quietvm/rv5sim/memory"
)

// ErrorKind distinguishes the ways a pipeline stage can fail to complete a
// cycle.
type ErrorKind int

const (
	// MissingState means a later stage needed a transient field an
	// earlier stage should have populated; this indicates a pipeline
	// wiring bug, not a guest-program fault.
	MissingState ErrorKind = iota
	// InstructionDecodeErrorKind wraps a failure from the isa package.
	InstructionDecodeErrorKind
	// MemoryErrorKind wraps a failure from the memory package.
	MemoryErrorKind
	// SyscallExceptionKind is not an error in the usual sense: it is how
	// the decode stage hands control to the kernel. The cycle driver
	// intercepts it and never lets it reach a caller as a real failure.
	SyscallExceptionKind
	// BadAmoSize means an AMO's funct3 encoded a size other than word or
	// doubleword.
	BadAmoSize
	// UnalignedAmo means an AMO's address was not aligned to its
	// operand size.
	UnalignedAmo
)

// Error reports why a pipeline stage could not complete.
type Error struct {
	Kind ErrorKind

	Field        string
	DecodeErr    *isa.DecodeError
	MemoryErr    *memory.Error
	SyscallNo    arch.XWord
	AmoFunct3    uint8
	AmoAddress   arch.XWord
}

func (e *Error) Error() string {
	switch e.Kind {
	case MissingState:
		return fmt.Sprintf("pipeline: missing state: %s", e.Field)
	case InstructionDecodeErrorKind:
		return fmt.Sprintf("pipeline: decode error: %v", e.DecodeErr)
	case MemoryErrorKind:
		return fmt.Sprintf("pipeline: memory error: %v", e.MemoryErr)
	case SyscallExceptionKind:
		return fmt.Sprintf("pipeline: syscall exception (a7=%d)", e.SyscallNo)
	case BadAmoSize:
		return fmt.Sprintf("pipeline: bad amo size (funct3=%d)", e.AmoFunct3)
	case UnalignedAmo:
		return fmt.Sprintf("pipeline: unaligned amo at 0x%x", e.AmoAddress)
	default:
		return "pipeline: error"
	}
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case InstructionDecodeErrorKind:
		return e.DecodeErr
	case MemoryErrorKind:
		return e.MemoryErr
	default:
		return nil
	}
}

func missingState(field string) *Error {
	return &Error{Kind: MissingState, Field: field}
}

func decodeError(err error) *Error {
	de, _ := err.(*isa.DecodeError)
	return &Error{Kind: InstructionDecodeErrorKind, DecodeErr: de}
}

func memoryError(err error) *Error {
	me, _ := err.(*memory.Error)
	return &Error{Kind: MemoryErrorKind, MemoryErr: me}
}

// SyscallException reports the a7 value captured at decode time; it is
// handled by the cycle driver, never surfaced as a normal error.
func SyscallException(a7 arch.XWord) *Error {
	return &Error{Kind: SyscallExceptionKind, SyscallNo: a7}
}
