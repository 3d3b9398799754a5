package debugger

import (
	"fmt"
	"sync"

	"github.com/quietvm/rv5sim/arch"
)

// Breakpoint represents a breakpoint at a specific pc.
type Breakpoint struct {
	ID        int
	Address   arch.XWord
	Enabled   bool
	Temporary bool // auto-delete after first hit
	HitCount  int
}

// BreakpointManager manages all breakpoints for one running emulator.
type BreakpointManager struct {
	mu          sync.RWMutex
	breakpoints map[arch.XWord]*Breakpoint
	nextID      int
}

// NewBreakpointManager creates an empty breakpoint manager.
func NewBreakpointManager() *BreakpointManager {
	return &BreakpointManager{
		breakpoints: make(map[arch.XWord]*Breakpoint),
		nextID:      1,
	}
}

// AddBreakpoint adds a breakpoint at address. If one already exists there,
// it is re-enabled and its Temporary flag updated in place, keeping its ID
// and hit count.
func (bm *BreakpointManager) AddBreakpoint(address arch.XWord, temporary bool) *Breakpoint {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bp, exists := bm.breakpoints[address]; exists {
		bp.Enabled = true
		bp.Temporary = temporary
		return bp
	}

	bp := &Breakpoint{
		ID:        bm.nextID,
		Address:   address,
		Enabled:   true,
		Temporary: temporary,
	}

	bm.breakpoints[address] = bp
	bm.nextID++

	return bp
}

// DeleteBreakpoint removes a breakpoint by ID.
func (bm *BreakpointManager) DeleteBreakpoint(id int) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	for addr, bp := range bm.breakpoints {
		if bp.ID == id {
			delete(bm.breakpoints, addr)
			return nil
		}
	}

	return fmt.Errorf("breakpoint %d not found", id)
}

// DeleteBreakpointAt removes a breakpoint at a specific address.
func (bm *BreakpointManager) DeleteBreakpointAt(address arch.XWord) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if _, exists := bm.breakpoints[address]; !exists {
		return fmt.Errorf("no breakpoint at address 0x%x", address)
	}

	delete(bm.breakpoints, address)
	return nil
}

// EnableBreakpoint enables a breakpoint by ID.
func (bm *BreakpointManager) EnableBreakpoint(id int) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	for _, bp := range bm.breakpoints {
		if bp.ID == id {
			bp.Enabled = true
			return nil
		}
	}

	return fmt.Errorf("breakpoint %d not found", id)
}

// DisableBreakpoint disables a breakpoint by ID.
func (bm *BreakpointManager) DisableBreakpoint(id int) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	for _, bp := range bm.breakpoints {
		if bp.ID == id {
			bp.Enabled = false
			return nil
		}
	}

	return fmt.Errorf("breakpoint %d not found", id)
}

// GetBreakpoint returns the breakpoint at address, or nil.
func (bm *BreakpointManager) GetBreakpoint(address arch.XWord) *Breakpoint {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	return bm.breakpoints[address]
}

// GetBreakpointByID returns the breakpoint with the given ID, or nil.
func (bm *BreakpointManager) GetBreakpointByID(id int) *Breakpoint {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	for _, bp := range bm.breakpoints {
		if bp.ID == id {
			return bp
		}
	}

	return nil
}

// GetAllBreakpoints returns every breakpoint, in no particular order.
func (bm *BreakpointManager) GetAllBreakpoints() []*Breakpoint {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	result := make([]*Breakpoint, 0, len(bm.breakpoints))
	for _, bp := range bm.breakpoints {
		result = append(result, bp)
	}

	return result
}

// Clear removes all breakpoints.
func (bm *BreakpointManager) Clear() {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.breakpoints = make(map[arch.XWord]*Breakpoint)
}

// HasBreakpoint reports whether a breakpoint exists at address.
func (bm *BreakpointManager) HasBreakpoint(address arch.XWord) bool {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	_, exists := bm.breakpoints[address]
	return exists
}

// Count returns the number of breakpoints.
func (bm *BreakpointManager) Count() int {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	return len(bm.breakpoints)
}

// ProcessHit increments the hit count for the breakpoint at address and
// removes it if temporary, returning a snapshot safe to use after the
// lock is released.
func (bm *BreakpointManager) ProcessHit(address arch.XWord) *Breakpoint {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bp, exists := bm.breakpoints[address]
	if !exists {
		return nil
	}

	bp.HitCount++
	result := *bp

	if bp.Temporary {
		delete(bm.breakpoints, address)
	}

	return &result
}
