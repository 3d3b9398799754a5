// Package arch holds the machine-width and ABI constants shared by every
// other package: register numbering, the XLEN-dependent word types, and the
// masks derived from a running configuration's bit width.
package arch

// XWord is the machine word: wide enough to hold either an RV32 or an RV64
// register value. Callers mask to 32 bits themselves when Arch.XLen == 32;
// the type itself is always 64 bits wide, per the single-build design (see
// Arch).
type XWord = uint64

// SXWord is the signed counterpart of XWord, used wherever RISC-V specifies
// signed comparison or arithmetic (Slt, Div, Amomax, branch comparisons).
type SXWord = int64

// Byte-width masks, named after the RISC-V field widths they bound.
const (
	ByteMask       = 0xFF
	HalfWordMask   = 0xFFFF
	WordMask       = 0xFFFFFFFF
	DoubleWordMask = 0xFFFFFFFFFFFFFFFF
)

// Arch is the runtime machine configuration. Where the reference
// implementation selects X_LEN and the extension set at compile time via
// Cargo features, this build supports the union of RV32 and RV64 and
// decides at decode time which opcodes are legal, per the single-binary
// design called for by the specification this module implements.
type Arch struct {
	// XLen is 32 or 64. No other value is valid.
	XLen int
	// M enables the multiply/divide extension.
	M bool
	// A enables the atomic-memory-operation extension.
	A bool
	// C enables the compressed (16-bit) instruction extension.
	C bool
}

// ShiftMask returns the mask applied to shift amounts: 0x1F for RV32 (5 bits
// address a 32-bit register), 0x3F for RV64 (6 bits address a 64-bit
// register).
func (a Arch) ShiftMask() uint64 {
	if a.XLen == 64 {
		return 0x3F
	}
	return 0x1F
}

// WordMask returns the mask that truncates an XWord down to the
// architecture's native register width.
func (a Arch) WordMask() uint64 {
	if a.XLen == 64 {
		return DoubleWordMask
	}
	return WordMask
}

// Truncate masks v down to the architecture's native register width.
func (a Arch) Truncate(v XWord) XWord {
	return v & a.WordMask()
}

// SignBit returns the index of the sign bit of a native-width register: 31
// for RV32, 63 for RV64.
func (a Arch) SignBit() uint {
	if a.XLen == 64 {
		return 63
	}
	return 31
}

// Signed reinterprets v, truncated to the architecture's native width, as a
// signed value sign-extended to the full 64-bit SXWord.
func (a Arch) Signed(v XWord) SXWord {
	v = a.Truncate(v)
	if v&(XWord(1)<<a.SignBit()) != 0 {
		return SXWord(v | ^a.WordMask())
	}
	return SXWord(v)
}

// RV32 and RV64 are the two supported base configurations without any
// extensions enabled; callers typically copy one of these and set M/A/C.
var (
	RV32 = Arch{XLen: 32}
	RV64 = Arch{XLen: 64}
)

// Register file indices, per the standard RISC-V calling convention. Names
// follow the ABI mnemonics rather than the raw x0..x31 numbering, matching
// how the reference implementation and every RISC-V disassembler label
// them.
const (
	RegZero = 0
	RegRA   = 1
	RegSP   = 2
	RegGP   = 3
	RegTP   = 4
	RegT0   = 5
	RegT1   = 6
	RegT2   = 7
	RegS0FP = 8
	RegS1   = 9
	RegA0   = 10
	RegA1   = 11
	RegA2   = 12
	RegA3   = 13
	RegA4   = 14
	RegA5   = 15
	RegA6   = 16
	RegA7   = 17
	RegS2   = 18
	RegS3   = 19
	RegS4   = 20
	RegS5   = 21
	RegS6   = 22
	RegS7   = 23
	RegS8   = 24
	RegS9   = 25
	RegS10  = 26
	RegS11  = 27
	RegT3   = 28
	RegT4   = 29
	RegT5   = 30
	RegT6   = 31
)

// RegisterNames maps a register index to its ABI mnemonic, for
// disassembly and the debugger's register panel.
var RegisterNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterName returns the ABI mnemonic for r, or "?" if r is out of range.
func RegisterName(r uint8) string {
	if int(r) >= len(RegisterNames) {
		return "?"
	}
	return RegisterNames[r]
}
