// Package clipboard provides destinations for copied tree values.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// System writes to the OS clipboard
type System struct{}

// Copy places text on the system clipboard
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("system clipboard is not available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Memory keeps copied text in memory. Used when no system clipboard is
// reachable, e.g. a browser session where the page does the actual copy.
type Memory struct {
	mu      sync.Mutex
	last    string
	history []string
}

// Copy records text
func (m *Memory) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = text
	m.history = append(m.history, text)
	return nil
}

// Last returns the most recent copy
func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Count returns how many copies were made
func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// Func adapts a function to the Clipboard interface
type Func func(text string) error

// Copy calls f
func (f Func) Copy(text string) error {
	return f(text)
}
