package pipeline

// Writeback commits the cycle's result to the register file. A value
// produced by the memory stage always takes priority over one produced by
// execute, since only one of the two is ever populated for a given
// opcode; writes to x0 are silently discarded by SetRegister.
func Writeback(reg *Register) error {
	if reg.RD == nil {
		return nil
	}
	switch {
	case reg.Memory != nil:
		reg.SetRegister(*reg.RD, *reg.Memory)
	case reg.ALUResult != nil:
		reg.SetRegister(*reg.RD, *reg.ALUResult)
	}
	return nil
}
