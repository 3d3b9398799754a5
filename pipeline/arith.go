package pipeline

import (
	"math/big"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
)

func executeRegisterArithmetic(reg *Register, a arch.Arch, ra *isa.RegisterArithmeticInstr) error {
	if reg.RS1Value == nil || reg.RS2Value == nil {
		return missingState("rs1_value/rs2_value")
	}
	rs1, rs2 := *reg.RS1Value, *reg.RS2Value

	var result arch.XWord
	switch ra.Function {
	case isa.Add:
		result = rs1 + rs2
	case isa.Sub:
		result = rs1 - rs2
	case isa.Xor:
		result = rs1 ^ rs2
	case isa.Or:
		result = rs1 | rs2
	case isa.And:
		result = rs1 & rs2
	case isa.Sll:
		result = rs1 << (uint(rs2) & uint(a.ShiftMask()))
	case isa.Srl:
		result = a.Truncate(rs1) >> (uint(rs2) & uint(a.ShiftMask()))
	case isa.Sra:
		result = arch.XWord(a.Signed(rs1) >> (uint(rs2) & uint(a.ShiftMask())))
	case isa.Slt:
		result = boolToXWord(a.Signed(rs1) < a.Signed(rs2))
	case isa.Sltu:
		result = boolToXWord(a.Truncate(rs1) < a.Truncate(rs2))
	case isa.Mul:
		result = rs1 * rs2
	case isa.Mulh:
		result = mulHigh(a, rs1, rs2, true, true)
	case isa.Mulhsu:
		result = mulHigh(a, rs1, rs2, true, false)
	case isa.Mulhu:
		result = mulHigh(a, rs1, rs2, false, false)
	case isa.Div:
		d := a.Truncate(rs2)
		if d == 0 {
			result = a.WordMask()
		} else {
			result = arch.XWord(a.Signed(rs1) / a.Signed(rs2))
		}
	case isa.Divu:
		d := a.Truncate(rs2)
		if d == 0 {
			result = a.WordMask()
		} else {
			result = a.Truncate(rs1) / d
		}
	case isa.Rem:
		d := a.Truncate(rs2)
		if d == 0 {
			result = rs1
		} else {
			result = arch.XWord(a.Signed(rs1) % a.Signed(rs2))
		}
	case isa.Remu:
		d := a.Truncate(rs2)
		if d == 0 {
			result = rs1
		} else {
			result = a.Truncate(rs1) % d
		}
	}
	reg.ALUResult = ptr(a.Truncate(result))
	return nil
}

// mulHigh returns the upper a.XLen bits of the full 2*XLen-bit product of
// lhs and rhs, each optionally interpreted as signed. Go has no native
// 128-bit integer type, so the widened product is computed with math/big.
func mulHigh(a arch.Arch, lhs, rhs arch.XWord, signedLHS, signedRHS bool) arch.XWord {
	toBig := func(v arch.XWord, signed bool) *big.Int {
		v = a.Truncate(v)
		bi := new(big.Int).SetUint64(v)
		if signed && v&(arch.XWord(1)<<a.SignBit()) != 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), uint(a.XLen))
			bi.Sub(bi, mod)
		}
		return bi
	}
	l := toBig(lhs, signedLHS)
	r := toBig(rhs, signedRHS)
	product := new(big.Int).Mul(l, r)
	shifted := new(big.Int).Rsh(product, uint(a.XLen))
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(a.XLen)), big.NewInt(1))
	return new(big.Int).And(shifted, mask).Uint64()
}

func executeImmediateArithmeticWord(reg *Register, ia *isa.ImmediateArithmeticWordInstr) error {
	if reg.RS1Value == nil {
		return missingState("rs1_value")
	}
	rs1 := uint32(*reg.RS1Value)
	imm := uint32(ia.Imm)

	var result uint32
	switch ia.Function {
	case isa.Addiw:
		result = rs1 + imm
	case isa.Slliw:
		result = rs1 << (imm & 0x1F)
	case isa.Srliw:
		result = rs1 >> (imm & 0x1F)
	case isa.Sraiw:
		result = uint32(int32(rs1) >> (imm & 0x1F))
	}
	reg.ALUResult = ptr(signExtend32(result))
	return nil
}

func executeRegisterArithmeticWord(reg *Register, ra *isa.RegisterArithmeticWordInstr) error {
	if reg.RS1Value == nil || reg.RS2Value == nil {
		return missingState("rs1_value/rs2_value")
	}
	rs1, rs2 := uint32(*reg.RS1Value), uint32(*reg.RS2Value)

	var result uint32
	switch ra.Function {
	case isa.Addw:
		result = rs1 + rs2
	case isa.Subw:
		result = rs1 - rs2
	case isa.Sllw:
		result = rs1 << (rs2 & 0x1F)
	case isa.Srlw:
		result = rs1 >> (rs2 & 0x1F)
	case isa.Sraw:
		result = uint32(int32(rs1) >> (rs2 & 0x1F))
	case isa.Mulw:
		result = rs1 * rs2
	case isa.Divw:
		if rs2 == 0 {
			result = 0xFFFFFFFF
		} else {
			result = uint32(int32(rs1) / int32(rs2))
		}
	case isa.Divuw:
		if rs2 == 0 {
			result = 0xFFFFFFFF
		} else {
			result = rs1 / rs2
		}
	case isa.Remw:
		if rs2 == 0 {
			result = rs1
		} else {
			result = uint32(int32(rs1) % int32(rs2))
		}
	case isa.Remuw:
		if rs2 == 0 {
			result = rs1
		} else {
			result = rs1 % rs2
		}
	}
	reg.ALUResult = ptr(signExtend32(result))
	return nil
}

func signExtend32(v uint32) arch.XWord {
	return arch.XWord(uint64(int64(int32(v))))
}
