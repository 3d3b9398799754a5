package memory

import (
	"fmt"

	"github.com/quietvm/rv5sim/arch"
)

// ErrorKind distinguishes the ways an address-space access can fail.
type ErrorKind int

const (
	// PageNotFound means a read touched a page that was never allocated.
	// Reads never allocate; only writes do.
	PageNotFound ErrorKind = iota
	// UnalignedAccess means a scalar access's address was not a multiple
	// of its width. No accessor in this package returns it: unaligned
	// scalar accesses are always allowed.
	UnalignedAccess
)

// Error reports why a Memory operation failed.
type Error struct {
	Kind    ErrorKind
	Address arch.XWord
}

func (e *Error) Error() string {
	switch e.Kind {
	case PageNotFound:
		return fmt.Sprintf("memory: page not found for address 0x%x", e.Address)
	case UnalignedAccess:
		return fmt.Sprintf("memory: unaligned access at address 0x%x", e.Address)
	default:
		return fmt.Sprintf("memory: error at address 0x%x", e.Address)
	}
}
