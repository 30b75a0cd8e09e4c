// Package clock provides the wall clock used in production and a manually
// stepped clock that lets tests drive repeating schedules deterministically.
package clock

import (
	"sync"
	"time"

	"github.com/hammamikhairi/intentcast/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.Clock = Real{}
	_ domain.Clock = (*Manual)(nil)
)

// Real is the system clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// NewTicker wraps time.NewTicker.
func (Real) NewTicker(d time.Duration) domain.Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Manual is a clock that only moves when told to. Tickers created from it
// fire during Advance, once per period crossed. Like time.Ticker, a tick is
// dropped if the previous one has not been received yet.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManual creates a manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTicker creates a ticker whose first tick is due one period from now.
// It panics on a non-positive period, matching time.NewTicker.
func (m *Manual) NewTicker(d time.Duration) domain.Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		clock:  m,
		period: d,
		next:   m.now.Add(d),
		ch:     make(chan time.Time, 1),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Tickers returns the number of tickers that have not been stopped.
func (m *Manual) Tickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// Set jumps to t without firing any ticker. Pending deadlines are moved so
// tickers keep their period relative to the new time.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tk := range m.tickers {
		tk.next = t.Add(tk.period)
	}
	m.now = t
}

// Advance moves the clock forward by d, firing tickers in deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.now.Add(d)
	for {
		due := m.earliestLocked()
		if due == nil || due.next.After(target) {
			break
		}
		m.now = due.next
		select {
		case due.ch <- m.now:
		default:
		}
		due.next = due.next.Add(due.period)
	}
	m.now = target
}

func (m *Manual) earliestLocked() *manualTicker {
	var best *manualTicker
	for _, t := range m.tickers {
		if best == nil || t.next.Before(best.next) {
			best = t
		}
	}
	return best
}

func (m *Manual) remove(t *manualTicker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, tk := range m.tickers {
		if tk == t {
			m.tickers = append(m.tickers[:i], m.tickers[i+1:]...)
			return
		}
	}
}

type manualTicker struct {
	clock  *Manual
	period time.Duration
	next   time.Time
	ch     chan time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.clock.remove(t) }
