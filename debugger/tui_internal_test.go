package debugger

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/emu"
	"github.com/quietvm/rv5sim/kernel"
	"github.com/quietvm/rv5sim/memory"
)

func newTestDebugger() *Debugger {
	a := arch.Arch{XLen: 64, M: true, A: true, C: true}
	mem := memory.New()
	k := kernel.NewLinux(nil, nil)
	e := emu.New(a, mem, k, 0)
	return NewDebugger(e)
}

func newTestTUI(t *testing.T) *TUI {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init: %v", err)
	}
	screen.SetSize(80, 24)
	return NewTUIWithScreen(newTestDebugger(), screen)
}

func TestExecuteCommandAsync(t *testing.T) {
	tui := newTestTUI(t)

	done := make(chan bool, 1)
	go func() {
		tui.executeCommand("help")
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("executeCommand blocked for more than 2 seconds - deadlock detected")
	}
}

func TestHandleCommandAsync(t *testing.T) {
	tui := newTestTUI(t)
	tui.CommandInput.SetText("help")

	done := make(chan bool, 1)
	go func() {
		tui.handleCommand(tcell.KeyEnter)
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleCommand blocked for more than 2 seconds - deadlock detected")
	}
}

func TestExecuteCommandUpdatesOutput(t *testing.T) {
	tui := newTestTUI(t)
	tui.executeCommand("regs")

	text := tui.OutputView.GetText(true)
	if text == "" {
		t.Error("expected output view to contain register dump after 'regs'")
	}
}

func TestExecuteCommandBadInputReportsError(t *testing.T) {
	tui := newTestTUI(t)
	tui.executeCommand("not-a-real-command")

	text := tui.OutputView.GetText(true)
	if text == "" {
		t.Error("expected output view to contain an error message")
	}
}
