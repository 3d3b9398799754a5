// Package memory implements a sparse, paged address space: pages are
// allocated lazily on first write, so a 2^64 address space costs nothing
// until a program actually touches it.
package memory

import "github.com/quietvm/rv5sim/arch"

// PageAddressSize is the number of low bits of an address that select a
// byte within a page; the remaining high bits select the page itself.
const PageAddressSize = 12

// PageSize is the number of bytes in one page, 1<<PageAddressSize.
const PageSize = 1 << PageAddressSize

// PageAddressMask isolates the in-page offset bits of an address.
const PageAddressMask = PageSize - 1

// Page is one fixed-size, zero-initialized block of the address space.
type Page [PageSize]byte

// PageIndex identifies a page by its address shifted right by
// PageAddressSize.
type PageIndex = arch.XWord

// Memory is a sparse page table over the full XWord address space. The
// zero value is ready to use.
type Memory struct {
	pages map[PageIndex]*Page
}

// New returns an empty Memory with no pages allocated.
func New() *Memory {
	return &Memory{pages: make(map[PageIndex]*Page)}
}

func pageIndex(addr arch.XWord) PageIndex {
	return addr >> PageAddressSize
}

func pageOffset(addr arch.XWord) int {
	return int(addr & PageAddressMask)
}

// PageCount returns the number of pages currently allocated.
func (m *Memory) PageCount() int {
	return len(m.pages)
}

// Alloc returns the page at index idx, allocating and zero-filling it if it
// does not yet exist.
func (m *Memory) Alloc(idx PageIndex) *Page {
	if m.pages == nil {
		m.pages = make(map[PageIndex]*Page)
	}
	p, ok := m.pages[idx]
	if !ok {
		p = &Page{}
		m.pages[idx] = p
	}
	return p
}

// Page returns the page at index idx, or nil if it has not been allocated.
func (m *Memory) Page(idx PageIndex) *Page {
	return m.pages[idx]
}
