package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/quietvm/rv5sim/arch"
)

// TUI is the text interface for stepping an Emulator: a register panel, a
// paged-memory hex view, a disassembly view around pc, a breakpoint list,
// an output log and a command line.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	RightPanel *tview.Flex

	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	DisassemblyView *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress arch.XWord
}

// NewTUI creates a TUI bound to dbg, using the terminal's real screen.
func NewTUI(dbg *Debugger) *TUI {
	return newTUI(dbg, tview.NewApplication())
}

// NewTUIWithScreen creates a TUI driven by an explicit tcell.Screen,
// letting tests run the application headlessly against a simulation
// screen instead of a real terminal.
func NewTUIWithScreen(dbg *Debugger, screen tcell.Screen) *TUI {
	app := tview.NewApplication().SetScreen(screen)
	return newTUI(dbg, app)
}

func newTUI(dbg *Debugger, app *tview.Application) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      app,
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 10, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(t.MemoryView, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			t.executeCommand("break")
			return nil
		case tcell.KeyF10:
			t.executeCommand("next")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()

	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	if t.Debugger.Running {
		t.runUntilStop()
	}

	t.RefreshAll()
}

// runUntilStop cycles the emulator until ShouldBreak fires or the hart
// exits, mirroring what the CLI driver loop does for a plain console.
func (t *TUI) runUntilStop() {
	dbg := t.Debugger
	cycles := 0
	for dbg.Running {
		if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
			dbg.Running = false
			t.WriteOutput(fmt.Sprintf("Stopped: %s at pc=0x%x\n", reason, dbg.Emu.Register.PC))
			break
		}

		if err := dbg.Emu.Cycle(); err != nil {
			dbg.Running = false
			t.WriteOutput(fmt.Sprintf("Runtime error: %v\n", err))
			break
		}

		if dbg.Emu.Register.Exit {
			dbg.Running = false
			t.WriteOutput(fmt.Sprintf("Program exited with code %d\n", dbg.Emu.Register.ExitCode))
			break
		}

		cycles++
		if cycles%DisplayUpdateFrequency == 0 {
			t.RefreshAll()
		}
	}
}

// WriteOutput appends text to the output view and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel.
func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateMemoryView()
	t.updateDisassemblyView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateRegisterView() {
	reg := t.Debugger.Emu.Register
	var lines []string

	for i := 0; i < 32; i += RegisterViewColumns {
		var cols []string
		for j := 0; j < RegisterViewColumns; j++ {
			idx := i + j
			cols = append(cols, fmt.Sprintf("%-4s: 0x%016x", arch.RegisterName(uint8(idx)), reg.Registers[idx]))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}

	lines = append(lines, "")
	status := "running"
	if reg.Exit {
		status = fmt.Sprintf("exited (%d)", reg.ExitCode)
	}
	lines = append(lines, fmt.Sprintf("pc: 0x%x  [%s]", reg.PC, status))

	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateMemoryView() {
	addr := t.MemoryAddress
	if addr == 0 {
		addr = t.Debugger.Emu.Register.PC
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]Address: 0x%x[white]", addr))

	for row := 0; row < MemoryDisplayRows; row++ {
		rowAddr := addr + arch.XWord(row*MemoryDisplayBytesPerRow)
		line := fmt.Sprintf("0x%08x: ", rowAddr)

		var hexBytes []string
		var asciiBytes []byte
		for col := 0; col < MemoryDisplayBytesPerRow; col++ {
			b, err := t.Debugger.Emu.Memory.GetByte(rowAddr + arch.XWord(col))
			if err != nil {
				hexBytes = append(hexBytes, "??")
				asciiBytes = append(asciiBytes, '.')
				continue
			}
			hexBytes = append(hexBytes, fmt.Sprintf("%02x", b))
			if b >= 32 && b < 127 {
				asciiBytes = append(asciiBytes, b)
			} else {
				asciiBytes = append(asciiBytes, '.')
			}
		}
		line += strings.Join(hexBytes, " ") + "  " + string(asciiBytes)
		lines = append(lines, line)
	}

	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateDisassemblyView() {
	pc := t.Debugger.Emu.Register.PC
	start := pc - arch.XWord(DisassemblyWindowBefore*4)
	if start > pc {
		start = 0
	}

	var lines []string
	for addr := start; addr <= pc+arch.XWord(DisassemblyWindowAfter*4); addr += 4 {
		word, err := t.Debugger.Emu.Memory.GetWord(addr)
		if err != nil {
			continue
		}

		marker, color := "  ", "white"
		if addr == pc {
			marker, color = "->", "yellow"
		}
		if t.Debugger.Breakpoints.GetBreakpoint(addr) != nil {
			marker = "* "
		}

		lines = append(lines, fmt.Sprintf("[%s]%s 0x%08x: 0x%08x[white]", color, marker, addr, word))
	}

	t.DisassemblyView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateBreakpointsView() {
	bps := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		t.BreakpointsView.SetText("[yellow]No breakpoints set[white]")
		return
	}

	var lines []string
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		lines = append(lines, fmt.Sprintf("  %d: [%s]%s[white] 0x%x (hits: %d)", bp.ID, color, status, bp.Address, bp.HitCount))
	}

	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]rv5sim debugger[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F10 to step over, F11 to step\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
