// Package notifier polls the status source for the current intent, keeps
// the display in sync with it, and announces meaningful changes through the
// speaker, at most once per debounce window.
package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/intentcast/internal/clock"
	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// Defaults for a notifier built without options.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultDebounce = 2 * time.Second
	DefaultRate     = 1.0
	DefaultPitch    = 1.0
)

// Option configures the Notifier.
type Option func(*Notifier)

// WithInterval sets how often Run polls the status source.
func WithInterval(d time.Duration) Option {
	return func(n *Notifier) {
		n.interval = d
	}
}

// WithDebounce sets the minimum gap between two spoken announcements.
func WithDebounce(d time.Duration) Option {
	return func(n *Notifier) {
		n.debounce = d
	}
}

// WithSentinels replaces the intents that are shown but never spoken.
func WithSentinels(values ...string) Option {
	return func(n *Notifier) {
		n.sentinels = make(map[string]struct{}, len(values))
		for _, v := range values {
			n.sentinels[v] = struct{}{}
		}
	}
}

// WithProsody sets the rate and pitch multipliers sent with every utterance.
func WithProsody(rate, pitch float64) Option {
	return func(n *Notifier) {
		n.rate = rate
		n.pitch = pitch
	}
}

// WithClock replaces the wall clock. Tests pass a *clock.Manual.
func WithClock(c domain.Clock) Option {
	return func(n *Notifier) {
		n.clock = c
	}
}

// Snapshot is a point-in-time copy of the notifier state.
type Snapshot struct {
	LastIntent   string
	Spoken       bool      // whether anything has been announced yet
	LastSpokenAt time.Time // valid only when Spoken is set
	Polls        int       // successful poll cycles
	Failures     int       // failed poll cycles
	Announced    int
	Suppressed   int // announcements dropped by the debounce window
}

// Notifier is the intent notifier. Its state is the last recorded intent
// and the time of the last spoken announcement; both live for as long as
// the Notifier does.
type Notifier struct {
	source  domain.StatusSource
	speaker domain.Speaker
	display domain.Display
	clock   domain.Clock
	log     *logger.Logger

	interval  time.Duration
	debounce  time.Duration
	rate      float64
	pitch     float64
	sentinels map[string]struct{}

	// cycleMu serializes poll cycles and announcements, including the calls
	// out to the display and the speaker. State is only written with it held.
	cycleMu sync.Mutex

	// mu guards the fields below so Snapshot never waits on a slow display
	// or speaker.
	mu           sync.Mutex
	lastIntent   string
	spoken       bool
	lastSpokenAt time.Time
	polls        int
	failures     int
	announced    int
	suppressed   int
}

// New creates a notifier. lastIntent starts empty and nothing has been
// spoken yet, so the first meaningful intent is announced immediately.
func New(source domain.StatusSource, speaker domain.Speaker, display domain.Display, log *logger.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		source:   source,
		speaker:  speaker,
		display:  display,
		clock:    clock.Real{},
		log:      log,
		interval: DefaultInterval,
		debounce: DefaultDebounce,
		rate:     DefaultRate,
		pitch:    DefaultPitch,
	}
	WithSentinels(domain.DefaultSentinels()...)(n)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Snapshot returns a copy of the current state.
func (n *Notifier) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Snapshot{
		LastIntent:   n.lastIntent,
		Spoken:       n.spoken,
		LastSpokenAt: n.lastSpokenAt,
		Polls:        n.polls,
		Failures:     n.failures,
		Announced:    n.announced,
		Suppressed:   n.suppressed,
	}
}

// Run polls the status source every interval until ctx is cancelled.
// Each tick starts its fetch in a separate goroutine with no timeout.
// Results are applied one at a time on this goroutine in the order they
// arrive, which may differ from the order the requests were issued.
func (n *Notifier) Run(ctx context.Context) {
	ticker := n.clock.NewTicker(n.interval)
	defer ticker.Stop()

	results := make(chan result)

	n.log.Info("notifier started (interval=%s, debounce=%s)", n.interval, n.debounce)

	for {
		select {
		case <-ctx.Done():
			n.log.Info("notifier stopped")
			return
		case <-ticker.C():
			go n.fetch(ctx, results)
		case r := <-results:
			n.complete(ctx, r)
		}
	}
}

type result struct {
	intent string
	err    error
}

func (n *Notifier) fetch(ctx context.Context, out chan<- result) {
	intent, err := n.source.Fetch(ctx)
	select {
	case out <- result{intent: intent, err: err}:
	case <-ctx.Done():
	}
}

// Poll runs a single poll cycle synchronously. A failed cycle is logged,
// leaves all state untouched, and is returned to the caller.
func (n *Notifier) Poll(ctx context.Context) error {
	intent, err := n.source.Fetch(ctx)
	r := result{intent: intent, err: err}
	n.complete(ctx, r)
	return r.err
}

// complete applies the outcome of one poll cycle.
func (n *Notifier) complete(ctx context.Context, r result) {
	n.cycleMu.Lock()
	defer n.cycleMu.Unlock()

	if r.err != nil {
		n.mu.Lock()
		n.failures++
		n.mu.Unlock()
		n.log.Error("poll: %v", r.err)
		return
	}

	n.mu.Lock()
	n.polls++
	last := n.lastIntent
	n.mu.Unlock()

	n.display.Show(domain.KeyIntent, r.intent)

	if r.intent == last || !n.meaningful(r.intent) {
		return
	}

	if _, err := n.announce(ctx, r.intent); err != nil {
		n.log.Warn("announce %q: %v", r.intent, err)
	}
	// Recorded even when the debounce window swallowed the announcement.
	n.mu.Lock()
	n.lastIntent = r.intent
	n.mu.Unlock()
}

func (n *Notifier) meaningful(intent string) bool {
	if intent == "" {
		return false
	}
	_, sentinel := n.sentinels[intent]
	return !sentinel
}

// Announce speaks text unless the previous announcement was less than the
// debounce window ago. It reports whether the text was handed to the
// speaker. A suppressed announcement is dropped, not deferred.
func (n *Notifier) Announce(ctx context.Context, text string) (bool, error) {
	n.cycleMu.Lock()
	defer n.cycleMu.Unlock()
	return n.announce(ctx, text)
}

// announce must be called with n.cycleMu held.
func (n *Notifier) announce(ctx context.Context, text string) (bool, error) {
	if text == "" {
		return false, domain.ErrEmptyText
	}

	now := n.clock.Now()
	n.mu.Lock()
	if n.spoken && now.Sub(n.lastSpokenAt) < n.debounce {
		n.suppressed++
		since := now.Sub(n.lastSpokenAt)
		n.mu.Unlock()
		n.log.Debug("announce: suppressed %q (%s since last)", text, since)
		return false, nil
	}
	n.mu.Unlock()

	u := domain.Utterance{Text: text, Rate: n.rate, Pitch: n.pitch}
	if err := n.speaker.Submit(ctx, u); err != nil {
		return false, fmt.Errorf("submitting to speaker: %w", err)
	}

	n.display.Show(domain.KeyLastSpoken, text)

	n.mu.Lock()
	n.spoken = true
	n.lastSpokenAt = now
	n.announced++
	n.mu.Unlock()

	n.log.Info("announced %q", text)
	return true, nil
}
