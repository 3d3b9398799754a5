package debugger

// TUI display update constants.
const (
	// DisplayUpdateFrequency controls how often the TUI redraws during
	// continuous execution (every N cycles), to keep the display
	// responsive without overwhelming the terminal.
	DisplayUpdateFrequency = 100
)

// Disassembly view constants.
const (
	// DisassemblyWindowBefore is the number of instructions shown before pc.
	DisassemblyWindowBefore = 8

	// DisassemblyWindowAfter is the number of instructions shown after pc.
	DisassemblyWindowAfter = 8
)

// Memory hex-dump view constants.
const (
	// MemoryDisplayRows is the number of rows in the memory hex dump view.
	MemoryDisplayRows = 16

	// MemoryDisplayBytesPerRow is the number of bytes displayed per row.
	MemoryDisplayBytesPerRow = 16
)

// Register view constants.
const (
	// RegisterViewColumns is the number of registers displayed per row.
	RegisterViewColumns = 4
)
