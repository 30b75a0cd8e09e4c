package display

import (
	"sync"

	"github.com/hammamikhairi/intentcast/internal/domain"
)

// Compile-time interface check.
var _ domain.Display = (*Board)(nil)

// Board keeps the latest text of each element in memory. It backs -once
// runs and is the display double used in tests.
type Board struct {
	mu      sync.RWMutex
	text    map[string]string
	updates map[string]int
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		text:    make(map[string]string),
		updates: make(map[string]int),
	}
}

// Show records text under key.
func (b *Board) Show(key, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text[key] = text
	b.updates[key]++
}

// Text returns the current text of key, or "" if it was never shown.
func (b *Board) Text(key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text[key]
}

// Updates returns how many times key was shown.
func (b *Board) Updates(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updates[key]
}
