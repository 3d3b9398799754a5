// Package debugger is a stepping TUI and command console built around an
// emu.Emulator: breakpoints keyed on pc, single-step and run-to-breakpoint
// control, and register/memory inspection. It is diagnostic tooling around
// the core, not something the core depends on: emu and pipeline import
// nothing from this package.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/emu"
)

// StepMode selects what ShouldBreak is watching for on the next cycle.
type StepMode int

const (
	StepNone   StepMode = iota // not stepping, run until a breakpoint or exit
	StepSingle                 // stop after exactly one cycle
	StepOver                   // run until pc returns to StepOverPC
)

// Debugger holds the state a command console or TUI needs on top of a
// running Emulator: breakpoints, step mode, command history and an output
// buffer commands write into.
type Debugger struct {
	Emu *emu.Emulator

	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running    bool
	StepMode   StepMode
	StepOverPC arch.XWord

	LastCommand string
	Output      strings.Builder
}

// NewDebugger wraps e with breakpoint and history tracking.
func NewDebugger(e *emu.Emulator) *Debugger {
	return &Debugger{
		Emu:         e,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
	}
}

// ResolveAddress parses a hex (0x-prefixed) or decimal address string.
func (d *Debugger) ResolveAddress(addrStr string) (arch.XWord, error) {
	addrStr = strings.TrimSpace(addrStr)
	base := 10
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		addrStr = addrStr[2:]
		base = 16
	}
	addr, err := strconv.ParseUint(addrStr, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return arch.XWord(addr), nil
}

// ExecuteCommand parses and runs one command line. An empty line repeats
// the last non-empty command, matching a gdb-style console.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "regs", "registers":
		return d.cmdRegs(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "mem", "x":
		return d.cmdMem(args)
	case "set":
		return d.cmdSet(args)

	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause before the next
// cycle runs, and why.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.Emu.Register.PC

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"
	case StepOver:
		if pc == d.StepOverPC {
			d.StepMode = StepNone
			return true, "step over complete"
		}
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil && bp.Enabled {
		hit := d.Breakpoints.ProcessHit(pc)
		return true, fmt.Sprintf("breakpoint %d", hit.ID)
	}

	return false, ""
}

// GetOutput returns and clears the accumulated command output.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted text to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}
