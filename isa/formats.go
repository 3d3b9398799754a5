package isa

import "github.com/quietvm/rv5sim/bits"

// RType holds the fields of an R-type (register-register) instruction.
type RType struct {
	RD     uint8
	Funct3 uint8
	RS1    uint8
	RS2    uint8
	Funct7 uint8
}

// DecodeRType extracts the R-type fields from a raw 32-bit instruction word.
func DecodeRType(word uint32) RType {
	v := uint64(word)
	return RType{
		RD:     uint8(bits.Bits(v, 7, 12)),
		Funct3: uint8(bits.Bits(v, 12, 15)),
		RS1:    uint8(bits.Bits(v, 15, 20)),
		RS2:    uint8(bits.Bits(v, 20, 25)),
		Funct7: uint8(bits.Bits(v, 25, 32)),
	}
}

// IType holds the fields of an I-type (immediate) instruction.
type IType struct {
	RD     uint8
	Funct3 uint8
	RS1    uint8
	Imm    int64
}

// DecodeIType extracts the I-type fields, sign-extending the immediate.
func DecodeIType(word uint32) IType {
	v := uint64(word)
	imm := bits.SignExtend(bits.Bits(v, 20, 32), 11)
	return IType{
		RD:     uint8(bits.Bits(v, 7, 12)),
		Funct3: uint8(bits.Bits(v, 12, 15)),
		RS1:    uint8(bits.Bits(v, 15, 20)),
		Imm:    int64(imm),
	}
}

// SType holds the fields of an S-type (store) instruction.
type SType struct {
	Funct3 uint8
	RS1    uint8
	RS2    uint8
	Imm    int64
}

// DecodeSType extracts the S-type fields, sign-extending the split immediate.
func DecodeSType(word uint32) SType {
	v := uint64(word)
	imm := bits.SignExtend(bits.Twiddle(v, bits.R(25, 32), bits.R(7, 12)), 11)
	return SType{
		Funct3: uint8(bits.Bits(v, 12, 15)),
		RS1:    uint8(bits.Bits(v, 15, 20)),
		RS2:    uint8(bits.Bits(v, 20, 25)),
		Imm:    int64(imm),
	}
}

// BType holds the fields of a B-type (branch) instruction.
type BType struct {
	Funct3 uint8
	RS1    uint8
	RS2    uint8
	Imm    int64
}

// DecodeBType extracts the B-type fields. The immediate is encoded as a
// scrambled, left-shifted-by-1 field, reassembled here and sign-extended
// from bit 12.
func DecodeBType(word uint32) BType {
	v := uint64(word)
	imm := bits.SignExtend(bits.Twiddle(v, bits.R(31, 32), bits.R(7, 8), bits.R(25, 31), bits.R(8, 12))<<1, 12)
	return BType{
		Funct3: uint8(bits.Bits(v, 12, 15)),
		RS1:    uint8(bits.Bits(v, 15, 20)),
		RS2:    uint8(bits.Bits(v, 20, 25)),
		Imm:    int64(imm),
	}
}

// UType holds the fields of a U-type (upper-immediate) instruction.
type UType struct {
	RD  uint8
	Imm int64
}

// DecodeUType extracts the U-type fields.
func DecodeUType(word uint32) UType {
	v := uint64(word)
	imm := bits.SignExtend(bits.Bits(v, 12, 32)<<12, 31)
	return UType{
		RD:  uint8(bits.Bits(v, 7, 12)),
		Imm: int64(imm),
	}
}

// JType holds the fields of a J-type (jump) instruction.
type JType struct {
	RD  uint8
	Imm int64
}

// DecodeJType extracts the J-type fields. Like BType, the immediate is
// scrambled and shifted left by 1 before reassembly.
func DecodeJType(word uint32) JType {
	v := uint64(word)
	imm := bits.SignExtend(bits.Twiddle(v, bits.R(31, 32), bits.R(12, 20), bits.R(20, 21), bits.R(21, 31))<<1, 20)
	return JType{
		RD:  uint8(bits.Bits(v, 7, 12)),
		Imm: int64(imm),
	}
}
