package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Arch.XLen != 64 {
		t.Errorf("Expected XLen=64, got %d", cfg.Arch.XLen)
	}
	if !cfg.Arch.Multiply || !cfg.Arch.Atomic || !cfg.Arch.Compressed {
		t.Error("Expected all extensions enabled by default")
	}
	if cfg.Execution.MaxCycles != 10_000_000 {
		t.Errorf("Expected MaxCycles=10000000, got %d", cfg.Execution.MaxCycles)
	}
	if cfg.Memory.AddressSpaceBits != 47 {
		t.Errorf("Expected AddressSpaceBits=47, got %d", cfg.Memory.AddressSpaceBits)
	}
	if cfg.Trace.Enabled {
		t.Error("Expected Trace.Enabled=false by default")
	}
}

func TestArchSettingsValidate(t *testing.T) {
	if err := (ArchSettings{XLen: 48}).Validate(); err == nil {
		t.Error("Expected error for xlen=48")
	}
	if err := (ArchSettings{XLen: 32}).Validate(); err != nil {
		t.Errorf("Expected xlen=32 to validate, got %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()

	if path == "" {
		t.Error("ConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "rv5sim" && path != "config.toml" {
			t.Errorf("Expected path in rv5sim directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := Default()
	cfg.Execution.MaxCycles = 5_000_000
	cfg.Arch.XLen = 32
	cfg.Trace.Enabled = true
	cfg.Trace.OutputFile = "custom.log"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Execution.MaxCycles != 5_000_000 {
		t.Errorf("Expected MaxCycles=5000000, got %d", loaded.Execution.MaxCycles)
	}
	if loaded.Arch.XLen != 32 {
		t.Errorf("Expected XLen=32, got %d", loaded.Arch.XLen)
	}
	if !loaded.Trace.Enabled {
		t.Error("Expected Trace.Enabled=true")
	}
	if loaded.Trace.OutputFile != "custom.log" {
		t.Errorf("Expected OutputFile=custom.log, got %s", loaded.Trace.OutputFile)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Execution.MaxCycles != 10_000_000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
max_cycles = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestLoadRejectsBadXLen(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "badxlen.toml")

	if err := os.WriteFile(configPath, []byte("[arch]\nxlen = 16\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("Expected error for unsupported xlen")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := Default()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
