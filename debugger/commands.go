package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/isa"
)

// cmdRun restarts the hart at its current pc and marks it running; the
// caller loop is expected to cycle it until ShouldBreak or exit.
func (d *Debugger) cmdRun(args []string) error {
	d.Emu.Reset(d.Emu.Register.PC)
	d.Running = true
	d.StepMode = StepNone
	d.Println("Starting program execution...")
	return nil
}

// cmdContinue resumes execution from the current pc.
func (d *Debugger) cmdContinue(args []string) error {
	if d.Emu.Register.Exit {
		return fmt.Errorf("program is not running")
	}
	d.Running = true
	d.StepMode = StepNone
	d.Println("Continuing...")
	return nil
}

// cmdStep executes exactly one cycle.
func (d *Debugger) cmdStep(args []string) error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

// cmdNext steps over a call: if the instruction at pc is jal/jalr writing
// ra, it runs until pc returns past the call; otherwise it behaves like
// step.
func (d *Debugger) cmdNext(args []string) error {
	a := d.Emu.Arch
	raw, err := d.Emu.Memory.GetWord(d.Emu.Register.PC)
	if err != nil {
		d.StepMode = StepSingle
		d.Running = true
		return nil
	}

	size := arch.XWord(4)
	if a.C && isa.IsCompressed(raw) {
		size = 2
	}

	instr, err := isa.Decode(raw, a)
	isCall := false
	if err == nil && (instr.Op == isa.OpJal || instr.Op == isa.OpJalr) {
		if rd, ok := instr.RD(); ok && rd == arch.RegRA {
			isCall = true
		}
	}

	if isCall {
		d.StepOverPC = d.Emu.Register.PC + size
		d.StepMode = StepOver
	} else {
		d.StepMode = StepSingle
	}
	d.Running = true
	return nil
}

// cmdBreak sets a breakpoint at an address.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address>")
	}
	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(address, false)
	d.Printf("Breakpoint %d at 0x%x\n", bp.ID, address)
	return nil
}

// cmdTBreak sets a breakpoint that deletes itself after its first hit.
func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <address>")
	}
	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(address, true)
	d.Printf("Temporary breakpoint %d at 0x%x\n", bp.ID, address)
	return nil
}

// cmdDelete deletes one breakpoint by ID, or all of them with no argument.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

// cmdRegs prints every register, pc, and the exit state.
func (d *Debugger) cmdRegs(args []string) error {
	reg := d.Emu.Register
	d.Println("Registers:")
	for i := 0; i < 32; i += 4 {
		var cols []string
		for j := 0; j < 4; j++ {
			idx := i + j
			cols = append(cols, fmt.Sprintf("%-4s x%-2d = 0x%016x", arch.RegisterName(uint8(idx)), idx, reg.Registers[idx]))
		}
		d.Println(strings.Join(cols, "  "))
	}
	d.Printf("pc = 0x%x\n", reg.PC)
	if reg.Exit {
		d.Printf("exited with code %d\n", reg.ExitCode)
	}
	return nil
}

// cmdInfo dispatches "info registers" and "info breakpoints".
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|breakpoints>")
	}
	switch strings.ToLower(args[0]) {
	case "registers", "reg", "r":
		return d.cmdRegs(nil)
	case "breakpoints", "break", "b":
		return d.cmdInfoBreakpoints()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

func (d *Debugger) cmdInfoBreakpoints() error {
	bps := d.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		d.Println("No breakpoints")
		return nil
	}
	d.Println("Breakpoints:")
	for _, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}
		d.Printf("  %d: 0x%x %s%s (hit %d times)\n", bp.ID, bp.Address, status, temp, bp.HitCount)
	}
	return nil
}

// cmdMem prints len bytes of memory starting at addr as a hex dump.
// Usage: mem <addr> [len]
func (d *Debugger) cmdMem(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: mem <addr> [len]")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	length := MemoryDisplayRows * MemoryDisplayBytesPerRow
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid length: %s", args[1])
		}
		length = n
	}

	data, err := d.Emu.Memory.ReadMemoryRange(addr, length)
	if err != nil {
		return err
	}

	for row := 0; row < length; row += MemoryDisplayBytesPerRow {
		end := row + MemoryDisplayBytesPerRow
		if end > length {
			end = length
		}
		chunk := data[row:end]

		var hex, ascii strings.Builder
		for _, b := range chunk {
			fmt.Fprintf(&hex, "%02x ", b)
			if b >= 32 && b < 127 {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}
		d.Printf("0x%08x: %-48s %s\n", addr+arch.XWord(row), hex.String(), ascii.String())
	}
	return nil
}

// cmdSet modifies a register or a doubleword of memory.
// Usage: set <register|*address> = <value>
func (d *Debugger) cmdSet(args []string) error {
	if len(args) < 3 || args[1] != "=" {
		return fmt.Errorf("usage: set <register|*address> = <value>")
	}

	target := strings.ToLower(args[0])
	value, err := strconv.ParseUint(strings.TrimPrefix(args[2], "0x"), 16, 64)
	if err != nil {
		value, err = strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[2])
		}
	}

	if strings.HasPrefix(target, "*") {
		addr, err := d.ResolveAddress(target[1:])
		if err != nil {
			return err
		}
		d.Emu.Memory.SetDoubleword(addr, arch.XWord(value))
		d.Printf("Memory 0x%x set to 0x%x\n", addr, value)
		return nil
	}

	reg, err := parseRegister(target)
	if err != nil {
		return err
	}
	d.Emu.Register.SetRegister(reg, arch.XWord(value))
	d.Printf("Register %s set to 0x%x\n", target, value)
	return nil
}

func parseRegister(name string) (uint8, error) {
	for i := 0; i < 32; i++ {
		if arch.RegisterName(uint8(i)) == name {
			return uint8(i), nil
		}
	}
	if strings.HasPrefix(name, "x") {
		n, err := strconv.Atoi(name[1:])
		if err == nil && n >= 0 && n < 32 {
			return uint8(n), nil
		}
	}
	return 0, fmt.Errorf("invalid register: %s", name)
}

// cmdReset restarts the hart at pc 0.
func (d *Debugger) cmdReset(args []string) error {
	d.Emu.Reset(0)
	d.Println("Emulator reset")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println("rv5sim debugger commands:")
	d.Println()
	d.Println("Execution Control:")
	d.Println("  run (r)            - Restart execution from the current pc")
	d.Println("  continue (c)       - Continue execution")
	d.Println("  step (s, si)       - Execute a single cycle")
	d.Println("  next (n)           - Step over a call instruction")
	d.Println()
	d.Println("Breakpoints:")
	d.Println("  break (b) <addr>   - Set a breakpoint")
	d.Println("  tbreak (tb) <addr> - Set a one-shot breakpoint")
	d.Println("  delete (d) [id]    - Delete breakpoint(s)")
	d.Println("  enable <id>        - Enable a breakpoint")
	d.Println("  disable <id>       - Disable a breakpoint")
	d.Println()
	d.Println("Inspection:")
	d.Println("  regs               - Show registers")
	d.Println("  mem <addr> [len]   - Hex-dump memory")
	d.Println()
	d.Println("Modification:")
	d.Println("  set <reg|*addr> = <value>")
	d.Println()
	d.Println("Control:")
	d.Println("  reset              - Reset the emulator")
	d.Println("  help (h, ?)        - Show this help")
	return nil
}
