package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/quietvm/rv5sim/arch"
	"github.com/quietvm/rv5sim/config"
	"github.com/quietvm/rv5sim/debugger"
	"github.com/quietvm/rv5sim/emu"
	"github.com/quietvm/rv5sim/kernel"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		configPath  = flag.String("config", "", "Path to a config.toml (default: platform config dir)")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum cycles before halt (0: use config value)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("rv5sim %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFor(*verboseMode),
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	elfFile := flag.Arg(0)
	raw, err := os.ReadFile(elfFile) // #nosec G304 -- user-specified ELF path
	if err != nil {
		logger.Error("reading ELF file", "path", elfFile, "error", err)
		os.Exit(1)
	}

	a := arch.Arch{
		XLen: cfg.Arch.XLen,
		M:    cfg.Arch.Multiply,
		A:    cfg.Arch.Atomic,
		C:    cfg.Arch.Compressed,
	}

	k := kernel.NewLinux(os.Stdout, os.Stderr)

	b := emu.NewBuilder(a).WithELF(raw).WithKernel(k)
	e, err := b.Build()
	if err != nil {
		logger.Error("building emulator", "error", err)
		os.Exit(1)
	}

	limit := cfg.Execution.MaxCycles
	if *maxCycles > 0 {
		limit = *maxCycles
	}

	logger.Info("program loaded", "file", elfFile, "entry", fmt.Sprintf("0x%x", e.Register.PC), "xlen", a.XLen)

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(e)

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				logger.Error("TUI error", "error", err)
				os.Exit(1)
			}
			return
		}

		fmt.Println("rv5sim debugger - type 'help' for commands")
		fmt.Printf("Program loaded: %s\n", elfFile)
		fmt.Println()

		if err := debugger.RunCLI(dbg); err != nil {
			logger.Error("debugger error", "error", err)
			os.Exit(1)
		}
		return
	}

	var cycles uint64
	for !e.Register.Exit {
		if limit > 0 && cycles >= limit {
			logger.Warn("cycle limit reached", "limit", limit)
			break
		}
		if err := e.Cycle(); err != nil {
			logger.Error("runtime error", "pc", fmt.Sprintf("0x%x", e.Register.PC), "error", err)
			os.Exit(1)
		}
		cycles++
	}

	logger.Info("execution complete", "exit_code", e.Register.ExitCode, "cycles", cycles, "memory", e.Memory.Usage())

	os.Exit(int(e.Register.ExitCode))
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func loadConfig(path string) (*config.Settings, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func printHelp() {
	fmt.Printf(`rv5sim %s - a RISC-V instruction-set simulator

Usage: rv5sim [options] <elf-file>

Options:
  -help              Show this help message
  -version           Show version information
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -config PATH       Load config.toml from PATH (default: platform config dir)
  -max-cycles N      Override the configured cycle limit (0: use config value)
  -verbose           Enable debug-level logging

Examples:
  rv5sim program.elf
  rv5sim -debug program.elf
  rv5sim -tui program.elf
  rv5sim -max-cycles 5000000 program.elf

Debugger Commands (when in -debug or -tui mode):
  run, r             Start/restart program execution
  continue, c        Continue execution
  step, s            Execute a single cycle
  next, n            Step over a call instruction
  break ADDR         Set a breakpoint
  regs               Show all registers
  mem ADDR [LEN]     Hex-dump memory
  help               Show debugger help
`, Version)
}
