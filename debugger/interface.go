package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs the plain-text command-line debugger interface, reading
// commands from stdin until "quit" or EOF.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(rv5dbg) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		if output := dbg.GetOutput(); output != "" {
			fmt.Print(output)
		}

		for dbg.Running {
			if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
				dbg.Running = false
				fmt.Printf("Stopped: %s at pc=0x%x\n", reason, dbg.Emu.Register.PC)
				break
			}

			if err := dbg.Emu.Cycle(); err != nil {
				dbg.Running = false
				fmt.Printf("Runtime error: %v\n", err)
				break
			}

			if dbg.Emu.Register.Exit {
				dbg.Running = false
				fmt.Printf("Program exited with code %d\n", dbg.Emu.Register.ExitCode)
				break
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the full-screen debugger.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
