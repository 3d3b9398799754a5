package pipeline

import (
	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
)

// Execute performs the ALU operation, branch comparison, or control-flow
// target computation for the decoded instruction, writing ALUResult and/or
// NextPC. Loads, stores and AMOs compute nothing here: the memory stage
// forms their address (Register.EffectiveAddress for loads and stores,
// RS1Value alone for AMOs) and holds the AMO combine logic too, matching how the reference pipeline
// keeps memory.rs authoritative for anything that touches the address
// space.
func Execute(reg *Register, a arch.Arch) error {
	if reg.Instruction == nil {
		return missingState("instruction")
	}
	inst := *reg.Instruction

	switch inst.Op {
	case isa.OpMemoryLoad, isa.OpMemoryStore, isa.OpAmo, isa.OpFence, isa.OpEnvironment:
		return nil

	case isa.OpBranch:
		return executeBranch(reg, a, inst.Branch)

	case isa.OpImmediateArithmetic:
		return executeImmediateArithmetic(reg, a, inst.ImmediateArithmetic)

	case isa.OpRegisterArithmetic:
		return executeRegisterArithmetic(reg, a, inst.RegisterArithmetic)

	case isa.OpLui:
		reg.ALUResult = ptr(a.Truncate(arch.XWord(inst.Lui.Imm)))
		return nil

	case isa.OpAuipc:
		reg.ALUResult = ptr(a.Truncate(reg.PC + arch.XWord(inst.Auipc.Imm)))
		return nil

	case isa.OpJal:
		reg.ALUResult = ptr(reg.NextPC)
		reg.NextPC = a.Truncate(reg.PC + arch.XWord(inst.Jal.Imm))
		return nil

	case isa.OpJalr:
		if reg.RS1Value == nil {
			return missingState("rs1_value")
		}
		reg.ALUResult = ptr(reg.NextPC)
		target := (*reg.RS1Value + arch.XWord(inst.Jalr.Imm)) &^ 1
		reg.NextPC = a.Truncate(target)
		return nil

	case isa.OpImmediateArithmeticWord:
		return executeImmediateArithmeticWord(reg, inst.ImmediateArithmeticWord)

	case isa.OpRegisterArithmeticWord:
		return executeRegisterArithmeticWord(reg, inst.RegisterArithmeticWord)

	default:
		return missingState("unrecognized opcode")
	}
}

func executeBranch(reg *Register, a arch.Arch, b *isa.BranchInstr) error {
	if reg.RS1Value == nil || reg.RS2Value == nil {
		return missingState("rs1_value/rs2_value")
	}
	lhs, rhs := *reg.RS1Value, *reg.RS2Value

	var taken bool
	switch b.Function {
	case isa.Beq:
		taken = a.Truncate(lhs) == a.Truncate(rhs)
	case isa.Bne:
		taken = a.Truncate(lhs) != a.Truncate(rhs)
	case isa.Blt:
		taken = a.Signed(lhs) < a.Signed(rhs)
	case isa.Bge:
		taken = a.Signed(lhs) >= a.Signed(rhs)
	case isa.Bltu:
		taken = a.Truncate(lhs) < a.Truncate(rhs)
	case isa.Bgeu:
		taken = a.Truncate(lhs) >= a.Truncate(rhs)
	}

	if taken {
		reg.NextPC = a.Truncate(reg.PC + arch.XWord(b.Imm))
	}
	return nil
}

func executeImmediateArithmetic(reg *Register, a arch.Arch, ia *isa.ImmediateArithmeticInstr) error {
	if reg.RS1Value == nil {
		return missingState("rs1_value")
	}
	rs1 := *reg.RS1Value
	imm := arch.XWord(ia.Imm)

	var result arch.XWord
	switch ia.Function {
	case isa.Addi:
		result = rs1 + imm
	case isa.Xori:
		result = rs1 ^ imm
	case isa.Ori:
		result = rs1 | imm
	case isa.Andi:
		result = rs1 & imm
	case isa.Slli:
		result = rs1 << (uint(imm) & uint(a.ShiftMask()))
	case isa.Srli:
		result = a.Truncate(rs1) >> (uint(imm) & uint(a.ShiftMask()))
	case isa.Srai:
		result = arch.XWord(a.Signed(rs1) >> (uint(imm) & uint(a.ShiftMask())))
	case isa.Slti:
		result = boolToXWord(a.Signed(rs1) < a.Signed(imm))
	case isa.Sltiu:
		result = boolToXWord(a.Truncate(rs1) < a.Truncate(imm))
	}
	reg.ALUResult = ptr(a.Truncate(result))
	return nil
}

func boolToXWord(b bool) arch.XWord {
	if b {
		return 1
	}
	return 0
}
