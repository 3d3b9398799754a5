package memory

import (
	"encoding/binary"
	"fmt"

	"github.com/quietvm/rv5sim/arch"
)

// readSpan copies n bytes starting at addr into a fresh slice without
// allocating any page. It splits the read across the page boundary when
// addr+n does not fit in a single page, and fails the instant it touches a
// page that was never written. Used only by the range reader; the scalar
// getters use readSpanZeroed instead, since an unmapped page is a valid
// all-zero read for them.
func (m *Memory) readSpan(addr arch.XWord, n int) ([]byte, error) {
	out := make([]byte, n)
	read := 0
	for read < n {
		cur := addr + arch.XWord(read)
		idx := pageIndex(cur)
		off := pageOffset(cur)
		p := m.Page(idx)
		if p == nil {
			return nil, &Error{Kind: PageNotFound, Address: cur}
		}
		chunk := n - read
		if room := PageSize - off; chunk > room {
			chunk = room
		}
		copy(out[read:read+chunk], p[off:off+chunk])
		read += chunk
	}
	return out, nil
}

// readSpanZeroed copies n bytes starting at addr into a fresh slice without
// allocating any page, treating every unmapped page it touches as zero
// bytes rather than failing. Used by the scalar getters.
func (m *Memory) readSpanZeroed(addr arch.XWord, n int) []byte {
	out := make([]byte, n)
	read := 0
	for read < n {
		cur := addr + arch.XWord(read)
		idx := pageIndex(cur)
		off := pageOffset(cur)
		chunk := n - read
		if room := PageSize - off; chunk > room {
			chunk = room
		}
		if p := m.Page(idx); p != nil {
			copy(out[read:read+chunk], p[off:off+chunk])
		}
		read += chunk
	}
	return out
}

// writeSpan writes data starting at addr, allocating whichever pages it
// touches, splitting across the page boundary as needed.
func (m *Memory) writeSpan(addr arch.XWord, data []byte) {
	written := 0
	for written < len(data) {
		cur := addr + arch.XWord(written)
		idx := pageIndex(cur)
		off := pageOffset(cur)
		p := m.Alloc(idx)
		chunk := len(data) - written
		if room := PageSize - off; chunk > room {
			chunk = room
		}
		copy(p[off:off+chunk], data[written:written+chunk])
		written += chunk
	}
}

// GetByte reads one byte at addr. A byte on an unmapped page reads as
// zero, as with every scalar getter; the range reader instead fails on an
// unmapped page.
func (m *Memory) GetByte(addr arch.XWord) (byte, error) {
	return m.readSpanZeroed(addr, 1)[0], nil
}

// SetByte writes one byte at addr, allocating its page if needed.
func (m *Memory) SetByte(addr arch.XWord, v byte) {
	m.writeSpan(addr, []byte{v})
}

// GetHalfword reads a little-endian 16-bit value at addr. A halfword on an
// unmapped page reads as zero.
func (m *Memory) GetHalfword(addr arch.XWord) (uint16, error) {
	return binary.LittleEndian.Uint16(m.readSpanZeroed(addr, 2)), nil
}

// SetHalfword writes a little-endian 16-bit value at addr.
func (m *Memory) SetHalfword(addr arch.XWord, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	m.writeSpan(addr, b[:])
}

// GetWord reads a little-endian 32-bit value at addr. A word on an
// unmapped page reads as zero.
func (m *Memory) GetWord(addr arch.XWord) (uint32, error) {
	return binary.LittleEndian.Uint32(m.readSpanZeroed(addr, 4)), nil
}

// SetWord writes a little-endian 32-bit value at addr.
func (m *Memory) SetWord(addr arch.XWord, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	m.writeSpan(addr, b[:])
}

// GetDoubleword reads a little-endian 64-bit value at addr. A doubleword
// on an unmapped page reads as zero.
func (m *Memory) GetDoubleword(addr arch.XWord) (uint64, error) {
	return binary.LittleEndian.Uint64(m.readSpanZeroed(addr, 8)), nil
}

// SetDoubleword writes a little-endian 64-bit value at addr.
func (m *Memory) SetDoubleword(addr arch.XWord, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	m.writeSpan(addr, b[:])
}

// SetMemoryRange copies data into the address space starting at addr,
// allocating pages as needed. Used by the ELF loader to place segment
// contents.
func (m *Memory) SetMemoryRange(addr arch.XWord, data []byte) {
	m.writeSpan(addr, data)
}

// ReadMemoryRange copies length bytes starting at addr out of the address
// space. Unlike the scalar getters, it never allocates; it fails the
// instant it reaches a page that was never written.
func (m *Memory) ReadMemoryRange(addr arch.XWord, length int) ([]byte, error) {
	return m.readSpan(addr, length)
}

// Usage formats the memory currently resident (PageCount * PageSize) as a
// human-readable byte count.
func (m *Memory) Usage() string {
	bytes := float64(m.PageCount()) * PageSize
	units := []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	i := 0
	for bytes >= 1024 && i < len(units)-1 {
		bytes /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", bytes, units[i])
	}
	return fmt.Sprintf("%.2f %s", bytes, units[i])
}
