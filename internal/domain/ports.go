package domain

import (
	"context"
	"time"
)

// StatusSource returns the intent currently published by the remote side.
// Implementations report any failure as an error wrapping ErrPollFailure.
type StatusSource interface {
	Fetch(ctx context.Context) (string, error)
}

// Speaker hands text to a speech-output facility. Submit is a best-effort
// enqueue and must not block on playback.
type Speaker interface {
	Submit(ctx context.Context, u Utterance) error
}

// Display shows text in a keyed element (see KeyIntent and KeyLastSpoken).
type Display interface {
	Show(key, text string)
}

// Clock supplies the current time and repeating tickers. Tests swap in a
// manually stepped clock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until Stop is called.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}
