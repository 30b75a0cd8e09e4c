package status

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// DefaultWindow is how many identical raw detections in a row are needed
// before the board switches its published intent.
const DefaultWindow = 3

// BoardOption configures the Board.
type BoardOption func(*Board)

// WithWindow sets the stabilization window size. Values below 1 are
// treated as 1 (every detection is published immediately).
func WithWindow(n int) BoardOption {
	return func(b *Board) {
		if n < 1 {
			n = 1
		}
		b.size = n
	}
}

// Board holds the published intent and serves it at GET /status as
// {"intent": <string>}. Raw detections go through Observe, which only
// switches the published value once the last few detections agree.
type Board struct {
	mu      sync.RWMutex
	current string
	window  []string
	size    int
	log     *logger.Logger
}

// NewBoard creates a board publishing domain.IntentListening.
func NewBoard(log *logger.Logger, opts ...BoardOption) *Board {
	b := &Board{
		current: domain.IntentListening,
		size:    DefaultWindow,
		log:     log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Current returns the published intent.
func (b *Board) Current() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Set publishes intent immediately, bypassing stabilization.
func (b *Board) Set(intent string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.window = b.window[:0]
	b.publishLocked(intent)
}

// Observe records one raw detection and returns the published intent
// after it has been taken into account.
func (b *Board) Observe(detected string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.window = append(b.window, detected)
	if len(b.window) > b.size {
		b.window = b.window[len(b.window)-b.size:]
	}
	if len(b.window) == b.size && allSame(b.window) {
		b.publishLocked(detected)
	}
	return b.current
}

func (b *Board) publishLocked(intent string) {
	if intent == b.current {
		return
	}
	b.log.Info("intent changed: %s -> %s", b.current, intent)
	b.current = intent
}

func allSame(xs []string) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// ServeHTTP answers GET and HEAD with the published intent.
func (b *Board) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(payload{Intent: ptr(b.Current())}); err != nil {
		b.log.Error("status: writing response: %v", err)
	}
}

func ptr(s string) *string { return &s }
