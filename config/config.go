// Package config loads the TOML-backed settings that configure an
// Emulator build: architecture width and extensions, a host-side cycle
// ceiling, an address-space width, and trace output.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Settings is the root configuration structure, decoded from TOML.
type Settings struct {
	Arch      ArchSettings      `toml:"arch"`
	Execution ExecutionSettings `toml:"execution"`
	Memory    MemorySettings    `toml:"memory"`
	Trace     TraceSettings     `toml:"trace"`
}

// ArchSettings selects the register width and optional extensions, the
// TOML surface for the arch.Arch the core runs with.
type ArchSettings struct {
	XLen       int  `toml:"xlen"`
	Multiply   bool `toml:"m"`
	Atomic     bool `toml:"a"`
	Compressed bool `toml:"c"`
}

// ExecutionSettings bounds how long an embedder lets a guest program run.
// The core itself (emu.Emulator.Cycle) has no built-in limit; MaxCycles is
// only consulted by callers that read it, such as the CLI's run loop.
type ExecutionSettings struct {
	MaxCycles uint64 `toml:"max_cycles"`
}

// MemorySettings records the address-space width in bits. Nothing reads
// it: the ELF loader applies its own fixed 2^47 bound.
type MemorySettings struct {
	AddressSpaceBits uint `toml:"address_space_bits"`
}

// TraceSettings records whether cycle-by-cycle trace records are wanted
// and where. It is decoded and saved, but no package reads it and no
// trace records are written.
type TraceSettings struct {
	Enabled    bool   `toml:"enabled"`
	OutputFile string `toml:"output_file"`
}

// Validate rejects an XLen the core cannot run.
func (s ArchSettings) Validate() error {
	if s.XLen != 32 && s.XLen != 64 {
		return fmt.Errorf("config: arch.xlen must be 32 or 64, got %d", s.XLen)
	}
	return nil
}

// Default returns a Settings with the values a fresh RV64IMAC build would
// want: 64-bit, every extension on, a generous but finite cycle ceiling,
// and the loader's native 47-bit address space.
func Default() *Settings {
	return &Settings{
		Arch: ArchSettings{
			XLen:       64,
			Multiply:   true,
			Atomic:     true,
			Compressed: true,
		},
		Execution: ExecutionSettings{
			MaxCycles: 10_000_000,
		},
		Memory: MemorySettings{
			AddressSpaceBits: 47,
		},
		Trace: TraceSettings{
			Enabled:    false,
			OutputFile: "trace.log",
		},
	}
}

// ConfigPath returns the platform-specific config file path.
func ConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv5sim")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv5sim")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, falling back to
// Default when the file does not exist.
func Load() (*Settings, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads configuration from the given path, falling back to
// Default when the file does not exist.
func LoadFrom(path string) (*Settings, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Arch.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the settings to the default config file.
func (c *Settings) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the settings to path, creating its directory if needed.
func (c *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("config: create directory %s: %w", dir, err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	return nil
}
