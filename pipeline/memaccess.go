package pipeline

import (
	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
	"github.com/quietvm/rv5sim/memory"
)

// MemAccess performs the load, store or atomic memory operation the
// decoded instruction calls for. Every other opcode is a no-op here.
func MemAccess(reg *Register, mem *memory.Memory, a arch.Arch) error {
	if reg.Instruction == nil {
		return missingState("instruction")
	}
	inst := *reg.Instruction

	switch inst.Op {
	case isa.OpMemoryLoad:
		return memLoad(reg, mem, inst.MemoryLoad)
	case isa.OpMemoryStore:
		return memStore(reg, mem, inst.MemoryStore)
	case isa.OpAmo:
		return memAmo(reg, mem, a, inst.Amo)
	default:
		return nil
	}
}

func memLoad(reg *Register, mem *memory.Memory, l *isa.MemoryLoadInstr) error {
	addr, ok := reg.EffectiveAddress()
	if !ok {
		return missingState("effective_address")
	}

	var value arch.XWord
	switch l.Function {
	case isa.Lb:
		b, err := mem.GetByte(addr)
		if err != nil {
			return memoryError(err)
		}
		value = signExtendFrom(uint64(b), 7)
	case isa.Lbu:
		b, err := mem.GetByte(addr)
		if err != nil {
			return memoryError(err)
		}
		value = arch.XWord(b)
	case isa.Lh:
		h, err := mem.GetHalfword(addr)
		if err != nil {
			return memoryError(err)
		}
		value = signExtendFrom(uint64(h), 15)
	case isa.Lhu:
		h, err := mem.GetHalfword(addr)
		if err != nil {
			return memoryError(err)
		}
		value = arch.XWord(h)
	case isa.Lw:
		w, err := mem.GetWord(addr)
		if err != nil {
			return memoryError(err)
		}
		value = signExtendFrom(uint64(w), 31)
	case isa.Lwu:
		w, err := mem.GetWord(addr)
		if err != nil {
			return memoryError(err)
		}
		value = arch.XWord(w)
	case isa.Ld:
		d, err := mem.GetDoubleword(addr)
		if err != nil {
			return memoryError(err)
		}
		value = d
	}
	reg.Memory = ptr(value)
	return nil
}

func memStore(reg *Register, mem *memory.Memory, s *isa.MemoryStoreInstr) error {
	addr, ok := reg.EffectiveAddress()
	if !ok {
		return missingState("effective_address")
	}
	if reg.RS2Value == nil {
		return missingState("rs2_value")
	}
	v := *reg.RS2Value

	switch s.Function {
	case isa.Sb:
		mem.SetByte(addr, byte(v))
	case isa.Sh:
		mem.SetHalfword(addr, uint16(v))
	case isa.Sw:
		mem.SetWord(addr, uint32(v))
	case isa.Sd:
		mem.SetDoubleword(addr, v)
	}
	return nil
}

func signExtendFrom(v uint64, bit uint) arch.XWord {
	if v&(1<<bit) == 0 {
		return arch.XWord(v)
	}
	return arch.XWord(v | (^uint64(0) << bit))
}

func memAmo(reg *Register, mem *memory.Memory, a arch.Arch, amo *isa.AmoInstr) error {
	if reg.RS1Value == nil {
		return missingState("rs1_value")
	}
	addr := *reg.RS1Value

	var size uint
	switch amo.Funct3 {
	case 0b010:
		size = 4
	case 0b011:
		size = 8
	default:
		return &Error{Kind: BadAmoSize, AmoFunct3: amo.Funct3}
	}

	if size == 8 && addr&7 != 0 {
		return &Error{Kind: UnalignedAmo, AmoAddress: addr}
	}
	if size == 4 && addr&3 != 0 {
		return &Error{Kind: UnalignedAmo, AmoAddress: addr}
	}

	readVal := func() (arch.XWord, error) {
		if size == 8 {
			v, err := mem.GetDoubleword(addr)
			return arch.XWord(v), err
		}
		v, err := mem.GetWord(addr)
		return arch.XWord(v), err
	}
	writeVal := func(v arch.XWord) {
		if size == 8 {
			mem.SetDoubleword(addr, uint64(v))
		} else {
			mem.SetWord(addr, uint32(v))
		}
	}

	switch amo.Function {
	case isa.Lr:
		v, err := readVal()
		if err != nil {
			return memoryError(err)
		}
		if size == 4 {
			v = signExtendFrom(uint64(uint32(v)), 31)
		}
		reg.Memory = ptr(v)
		reg.Reservation = ptr(addr)
		return nil

	case isa.Sc:
		reg.Memory = ptr(arch.XWord(1))
		if reg.Reservation != nil && *reg.Reservation == addr {
			if reg.RS2Value == nil {
				return missingState("rs2_value")
			}
			writeVal(*reg.RS2Value)
			reg.Memory = ptr(arch.XWord(0))
		}
		reg.Reservation = nil
		return nil

	default:
		if reg.RS2Value == nil {
			return missingState("rs2_value")
		}
		memVal, err := readVal()
		if err != nil {
			return memoryError(err)
		}
		rs2 := *reg.RS2Value

		wide := memVal
		wideRS2 := rs2
		if size == 4 {
			wide = signExtendFrom(uint64(uint32(memVal)), 31)
			wideRS2 = signExtendFrom(uint64(uint32(rs2)), 31)
		}
		reg.Memory = ptr(wide)

		var result arch.XWord
		switch amo.Function {
		case isa.Amoswap:
			result = wideRS2
		case isa.Amoadd:
			result = wide + wideRS2
		case isa.Amoxor:
			result = wide ^ wideRS2
		case isa.Amoand:
			result = wide & wideRS2
		case isa.Amoor:
			result = wide | wideRS2
		case isa.Amomin:
			if a.Signed(wide) < a.Signed(wideRS2) {
				result = wide
			} else {
				result = wideRS2
			}
		case isa.Amomax:
			if a.Signed(wide) > a.Signed(wideRS2) {
				result = wide
			} else {
				result = wideRS2
			}
		case isa.Amominu:
			if wide < wideRS2 {
				result = wide
			} else {
				result = wideRS2
			}
		case isa.Amomaxu:
			if wide > wideRS2 {
				result = wide
			} else {
				result = wideRS2
			}
		}
		if size == 4 {
			result = arch.XWord(uint32(result))
		}
		writeVal(result)
		return nil
	}
}
