package isa

import (
	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/bits"
)

// CRegOffset is added to a compressed instruction's 3-bit register field to
// recover the full x8..x15 register number.
const CRegOffset = 8

// mapCReg widens a compressed 3-bit register field to a full register
// number.
func mapCReg(r uint8) uint8 { return r + CRegOffset }

// IsCompressed reports whether the low two bits of a fetched word mark it
// as a 16-bit compressed encoding rather than a 32-bit one.
func IsCompressed(word uint32) bool {
	return word&0b11 != 0b11
}

func cbits(instr uint16, lo, hi uint) uint16 {
	return uint16((uint64(instr) >> lo) & ((1 << (hi - lo)) - 1))
}

// DecodeCompressed expands a 16-bit compressed instruction into the
// equivalent fully decoded Instruction, losslessly, per the standard RVC
// encoding tables.
func DecodeCompressed(instr uint16, a arch.Arch) (Instruction, error) {
	quadrant := instr & 0b11
	funct3 := cbits(instr, 13, 16)

	switch quadrant {
	case 0b00:
		return decodeC0(instr, funct3, a)
	case 0b01:
		return decodeC1(instr, funct3, a)
	case 0b10:
		return decodeC2(instr, funct3, a)
	default:
		return Instruction{}, &DecodeError{Kind: InvalidFunction, QA: uint8(funct3), QB: uint8(quadrant)}
	}
}

func reserved(funct3 uint16, quadrant uint8) error {
	return &DecodeError{Kind: InvalidFunction, QA: uint8(funct3), QB: quadrant}
}

func addiInstr(rd, rs1 uint8, imm int64) Instruction {
	return Instruction{Op: OpImmediateArithmetic, ImmediateArithmetic: &ImmediateArithmeticInstr{RD: rd, RS1: rs1, Imm: imm, Function: Addi}}
}

func decodeC0(instr, funct3 uint16, a arch.Arch) (Instruction, error) {
	switch funct3 {
	case 0b000: // C.ADDI4SPN
		rd := mapCReg(uint8(cbits(instr, 2, 5)))
		nzuimm := (uint64(cbits(instr, 7, 11)) << 6) | (uint64(cbits(instr, 11, 13)) << 4) |
			(uint64(cbits(instr, 5, 6)) << 3) | (uint64(cbits(instr, 6, 7)) << 2)
		if nzuimm == 0 {
			return Instruction{}, reserved(funct3, 0)
		}
		return addiInstr(rd, arch.RegSP, int64(nzuimm)), nil

	case 0b010: // C.LW
		rd := mapCReg(uint8(cbits(instr, 2, 5)))
		rs1 := mapCReg(uint8(cbits(instr, 7, 10)))
		imm := (uint64(cbits(instr, 5, 6)) << 6) | (uint64(cbits(instr, 10, 13)) << 3) | (uint64(cbits(instr, 6, 7)) << 2)
		return Instruction{Op: OpMemoryLoad, MemoryLoad: &MemoryLoadInstr{RD: rd, RS1: rs1, Imm: int64(imm), Function: Lw}}, nil

	case 0b011: // C.LD (RV64 only)
		if a.XLen != 64 {
			return Instruction{}, reserved(funct3, 0)
		}
		rd := mapCReg(uint8(cbits(instr, 2, 5)))
		rs1 := mapCReg(uint8(cbits(instr, 7, 10)))
		imm := (uint64(cbits(instr, 5, 7)) << 6) | (uint64(cbits(instr, 10, 13)) << 3)
		return Instruction{Op: OpMemoryLoad, MemoryLoad: &MemoryLoadInstr{RD: rd, RS1: rs1, Imm: int64(imm), Function: Ld}}, nil

	case 0b110: // C.SW
		rs1 := mapCReg(uint8(cbits(instr, 7, 10)))
		rs2 := mapCReg(uint8(cbits(instr, 2, 5)))
		imm := (uint64(cbits(instr, 5, 6)) << 6) | (uint64(cbits(instr, 10, 13)) << 3) | (uint64(cbits(instr, 6, 7)) << 2)
		return Instruction{Op: OpMemoryStore, MemoryStore: &MemoryStoreInstr{RS1: rs1, RS2: rs2, Imm: int64(imm), Function: Sw}}, nil

	case 0b111: // C.SD (RV64 only)
		if a.XLen != 64 {
			return Instruction{}, reserved(funct3, 0)
		}
		rs1 := mapCReg(uint8(cbits(instr, 7, 10)))
		rs2 := mapCReg(uint8(cbits(instr, 2, 5)))
		imm := (uint64(cbits(instr, 5, 7)) << 6) | (uint64(cbits(instr, 10, 13)) << 3)
		return Instruction{Op: OpMemoryStore, MemoryStore: &MemoryStoreInstr{RS1: rs1, RS2: rs2, Imm: int64(imm), Function: Sd}}, nil

	default:
		return Instruction{}, reserved(funct3, 0)
	}
}

func decodeC1(instr, funct3 uint16, a arch.Arch) (Instruction, error) {
	switch funct3 {
	case 0b000: // C.NOP / C.ADDI
		rd := uint8(cbits(instr, 7, 12))
		imm := int64(sixBitImm(instr))
		return addiInstr(rd, rd, imm), nil

	case 0b001: // C.JAL (RV32) / C.ADDIW (RV64)
		if a.XLen == 64 {
			rd := uint8(cbits(instr, 7, 12))
			if rd == 0 {
				return Instruction{}, reserved(funct3, 1)
			}
			imm := int64(sixBitImm(instr))
			return Instruction{Op: OpImmediateArithmeticWord, ImmediateArithmeticWord: &ImmediateArithmeticWordInstr{RD: rd, RS1: rd, Imm: imm, Function: Addiw}}, nil
		}
		imm := cjTarget(instr)
		return Instruction{Op: OpJal, Jal: &JalInstr{RD: arch.RegRA, Imm: imm}}, nil

	case 0b010: // C.LI
		rd := uint8(cbits(instr, 7, 12))
		imm := int64(sixBitImm(instr))
		return addiInstr(rd, arch.RegZero, imm), nil

	case 0b011:
		rd := uint8(cbits(instr, 7, 12))
		if rd == arch.RegSP {
			// C.ADDI16SP
			raw := (uint64(cbits(instr, 12, 13)) << 9) | (uint64(cbits(instr, 6, 7)) << 4) |
				(uint64(cbits(instr, 5, 6)) << 6) | (uint64(cbits(instr, 3, 5)) << 7) | (uint64(cbits(instr, 2, 3)) << 5)
			imm := int64(bits.SignExtend(raw, 9))
			if imm == 0 {
				return Instruction{}, reserved(funct3, 1)
			}
			return addiInstr(arch.RegSP, arch.RegSP, imm), nil
		}
		// C.LUI
		if rd == 0 {
			return Instruction{}, reserved(funct3, 1)
		}
		raw := (uint64(cbits(instr, 12, 13)) << 17) | (uint64(cbits(instr, 2, 7)) << 12)
		imm := int64(bits.SignExtend(raw, 17))
		if imm == 0 {
			return Instruction{}, reserved(funct3, 1)
		}
		return Instruction{Op: OpLui, Lui: &UpperImmediateInstr{RD: rd, Imm: imm}}, nil

	case 0b100:
		funct2Hi := cbits(instr, 10, 12)
		rs1 := mapCReg(uint8(cbits(instr, 7, 10)))
		switch funct2Hi {
		case 0b00, 0b01: // C.SRLI / C.SRAI
			shamt := (uint64(cbits(instr, 12, 13)) << 5) | uint64(cbits(instr, 2, 7))
			fn := Srli
			if funct2Hi == 0b01 {
				fn = Srai
			}
			return Instruction{Op: OpImmediateArithmetic, ImmediateArithmetic: &ImmediateArithmeticInstr{RD: rs1, RS1: rs1, Imm: int64(shamt), Function: fn}}, nil
		case 0b10: // C.ANDI
			imm := int64(sixBitImm(instr))
			return Instruction{Op: OpImmediateArithmetic, ImmediateArithmetic: &ImmediateArithmeticInstr{RD: rs1, RS1: rs1, Imm: imm, Function: Andi}}, nil
		case 0b11:
			rs2 := mapCReg(uint8(cbits(instr, 2, 5)))
			funct2Lo := cbits(instr, 5, 7)
			if cbits(instr, 12, 13) == 0 {
				var fn RegisterArithmeticFunction
				switch funct2Lo {
				case 0b00:
					fn = Sub
				case 0b01:
					fn = Xor
				case 0b10:
					fn = Or
				default:
					fn = And
				}
				return Instruction{Op: OpRegisterArithmetic, RegisterArithmetic: &RegisterArithmeticInstr{RD: rs1, RS1: rs1, RS2: rs2, Function: fn}}, nil
			}
			if a.XLen != 64 {
				return Instruction{}, reserved(funct3, 1)
			}
			switch funct2Lo {
			case 0b00:
				return Instruction{Op: OpRegisterArithmeticWord, RegisterArithmeticWord: &RegisterArithmeticWordInstr{RD: rs1, RS1: rs1, RS2: rs2, Function: Subw}}, nil
			case 0b01:
				return Instruction{Op: OpRegisterArithmeticWord, RegisterArithmeticWord: &RegisterArithmeticWordInstr{RD: rs1, RS1: rs1, RS2: rs2, Function: Addw}}, nil
			default:
				return Instruction{}, reserved(funct3, 1)
			}
		}
		return Instruction{}, reserved(funct3, 1)

	case 0b101: // C.J
		imm := cjTarget(instr)
		return Instruction{Op: OpJal, Jal: &JalInstr{RD: arch.RegZero, Imm: imm}}, nil

	case 0b110, 0b111: // C.BEQZ / C.BNEZ
		rs1 := mapCReg(uint8(cbits(instr, 7, 10)))
		raw := (uint64(cbits(instr, 12, 13)) << 8) | (uint64(cbits(instr, 10, 12)) << 3) |
			(uint64(cbits(instr, 5, 7)) << 6) | (uint64(cbits(instr, 3, 5)) << 1) | (uint64(cbits(instr, 2, 3)) << 5)
		imm := int64(bits.SignExtend(raw, 8))
		fn := Beq
		if funct3 == 0b111 {
			fn = Bne
		}
		return Instruction{Op: OpBranch, Branch: &BranchInstr{RS1: rs1, RS2: arch.RegZero, Imm: imm, Function: fn}}, nil

	default:
		return Instruction{}, reserved(funct3, 1)
	}
}

func decodeC2(instr, funct3 uint16, a arch.Arch) (Instruction, error) {
	switch funct3 {
	case 0b000: // C.SLLI
		rd := uint8(cbits(instr, 7, 12))
		shamt := (uint64(cbits(instr, 12, 13)) << 5) | uint64(cbits(instr, 2, 7))
		return Instruction{Op: OpImmediateArithmetic, ImmediateArithmetic: &ImmediateArithmeticInstr{RD: rd, RS1: rd, Imm: int64(shamt), Function: Slli}}, nil

	case 0b010: // C.LWSP
		rd := uint8(cbits(instr, 7, 12))
		if rd == 0 {
			return Instruction{}, reserved(funct3, 2)
		}
		imm := (uint64(cbits(instr, 12, 13)) << 5) | (uint64(cbits(instr, 4, 7)) << 2) | (uint64(cbits(instr, 2, 4)) << 6)
		return Instruction{Op: OpMemoryLoad, MemoryLoad: &MemoryLoadInstr{RD: rd, RS1: arch.RegSP, Imm: int64(imm), Function: Lw}}, nil

	case 0b011: // C.LDSP (RV64 only)
		if a.XLen != 64 {
			return Instruction{}, reserved(funct3, 2)
		}
		rd := uint8(cbits(instr, 7, 12))
		if rd == 0 {
			return Instruction{}, reserved(funct3, 2)
		}
		imm := (uint64(cbits(instr, 12, 13)) << 5) | (uint64(cbits(instr, 5, 7)) << 3) | (uint64(cbits(instr, 2, 5)) << 6)
		return Instruction{Op: OpMemoryLoad, MemoryLoad: &MemoryLoadInstr{RD: rd, RS1: arch.RegSP, Imm: int64(imm), Function: Ld}}, nil

	case 0b100:
		rd := uint8(cbits(instr, 7, 12))
		rs2 := uint8(cbits(instr, 2, 7))
		if cbits(instr, 12, 13) == 0 {
			if rs2 == 0 { // C.JR
				if rd == 0 {
					return Instruction{}, reserved(funct3, 2)
				}
				return Instruction{Op: OpJalr, Jalr: &JalrInstr{RD: arch.RegZero, RS1: rd, Imm: 0}}, nil
			}
			// C.MV
			return Instruction{Op: OpRegisterArithmetic, RegisterArithmetic: &RegisterArithmeticInstr{RD: rd, RS1: arch.RegZero, RS2: rs2, Function: Add}}, nil
		}
		if rd == 0 && rs2 == 0 { // C.EBREAK
			return Instruction{Op: OpEnvironment, Environment: &EnvironmentInstr{Function: Ebreak}}, nil
		}
		if rs2 == 0 { // C.JALR
			return Instruction{Op: OpJalr, Jalr: &JalrInstr{RD: arch.RegRA, RS1: rd, Imm: 0}}, nil
		}
		// C.ADD
		return Instruction{Op: OpRegisterArithmetic, RegisterArithmetic: &RegisterArithmeticInstr{RD: rd, RS1: rd, RS2: rs2, Function: Add}}, nil

	case 0b110: // C.SWSP
		rs2 := uint8(cbits(instr, 2, 7))
		imm := (uint64(cbits(instr, 9, 13)) << 2) | (uint64(cbits(instr, 7, 9)) << 6)
		return Instruction{Op: OpMemoryStore, MemoryStore: &MemoryStoreInstr{RS1: arch.RegSP, RS2: rs2, Imm: int64(imm), Function: Sw}}, nil

	case 0b111: // C.SDSP (RV64 only)
		if a.XLen != 64 {
			return Instruction{}, reserved(funct3, 2)
		}
		rs2 := uint8(cbits(instr, 2, 7))
		imm := (uint64(cbits(instr, 10, 13)) << 3) | (uint64(cbits(instr, 7, 10)) << 6)
		return Instruction{Op: OpMemoryStore, MemoryStore: &MemoryStoreInstr{RS1: arch.RegSP, RS2: rs2, Imm: int64(imm), Function: Sd}}, nil

	default:
		return Instruction{}, reserved(funct3, 2)
	}
}

// cjTarget reassembles the scrambled 11-bit jump-target field shared by
// C.J and C.JAL.
func cjTarget(instr uint16) int64 {
	raw := (uint64(cbits(instr, 12, 13)) << 11) | (uint64(cbits(instr, 11, 12)) << 4) |
		(uint64(cbits(instr, 9, 11)) << 8) | (uint64(cbits(instr, 8, 9)) << 10) |
		(uint64(cbits(instr, 7, 8)) << 6) | (uint64(cbits(instr, 6, 7)) << 7) |
		(uint64(cbits(instr, 3, 6)) << 1) | (uint64(cbits(instr, 2, 3)) << 5)
	return int64(bits.SignExtend(raw, 11))
}

// sixBitImm reassembles the {instr[12], instr[6:2]} 6-bit immediate field
// shared by C.ADDI, C.ADDIW, C.LI and C.ANDI, sign-extended from bit 5.
func sixBitImm(instr uint16) uint64 {
	raw := (uint64(cbits(instr, 12, 13)) << 5) | uint64(cbits(instr, 2, 7))
	return bits.SignExtend(raw, 5)
}
