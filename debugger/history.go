package debugger

import (
	"strings"
	"sync"
)

// CommandHistory maintains the sequence of commands a debugger session has
// executed, for recall and prefix search. Repeating a command on empty
// input uses Debugger.LastCommand, not this history.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []string
	maxSize  int
}

// NewCommandHistory creates an empty history, capped at 1000 entries.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{
		commands: make([]string, 0, 100),
		maxSize:  1000,
	}
}

// Add records cmd, unless it repeats the immediately preceding entry.
func (h *CommandHistory) Add(cmd string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cmd == "" {
		return
	}

	if len(h.commands) > 0 && h.commands[len(h.commands)-1] == cmd {
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
}

// GetLast returns the most recent command without changing the history.
func (h *CommandHistory) GetLast() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return ""
	}
	return h.commands[len(h.commands)-1]
}

// GetAll returns a copy of the full history, oldest first.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	copy(result, h.commands)
	return result
}

// Size returns the number of recorded commands.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.commands)
}

// Search returns every recorded command starting with prefix.
func (h *CommandHistory) Search(prefix string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var results []string
	for _, cmd := range h.commands {
		if strings.HasPrefix(cmd, prefix) {
			results = append(results, cmd)
		}
	}
	return results
}
