package speech

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*Voice)(nil)

// Synthesizer turns an utterance into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, u domain.Utterance) ([]byte, error)
}

// Sink plays WAV audio, blocking until playback ends.
type Sink interface {
	Play(wav []byte) error
}

// VoiceOption configures the Voice.
type VoiceOption func(*Voice)

// WithQueueSize sets how many utterances may wait behind the current one.
func WithQueueSize(n int) VoiceOption {
	return func(v *Voice) {
		v.queueSize = n
	}
}

// WithCache enables the audio cache.
func WithCache(c *AudioCache) VoiceOption {
	return func(v *Voice) {
		v.cache = c
	}
}

// Voice is the speech output. Submit only enqueues; a single worker
// synthesizes and plays utterances one after another in submission order.
// Playing speech is never interrupted by newer submissions.
type Voice struct {
	tts       Synthesizer
	out       Sink
	cache     *AudioCache
	log       *logger.Logger
	queueSize int
	queue     chan domain.Utterance
	stopped   atomic.Bool

	mu     sync.Mutex
	played int
}

// NewVoice creates a voice. Call Start to begin playback.
func NewVoice(tts Synthesizer, out Sink, log *logger.Logger, opts ...VoiceOption) *Voice {
	v := &Voice{
		tts:       tts,
		out:       out,
		log:       log,
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.queueSize < 1 {
		v.queueSize = 1
	}
	v.queue = make(chan domain.Utterance, v.queueSize)
	return v
}

// Submit queues u for playback. It returns domain.ErrQueueFull instead of
// blocking when the queue is full, and domain.ErrSpeechUnavailable once the
// playback goroutine has stopped.
func (v *Voice) Submit(_ context.Context, u domain.Utterance) error {
	u.Text = cleanForSpeech(u.Text)
	if u.Text == "" {
		return domain.ErrEmptyText
	}
	if v.stopped.Load() {
		return domain.ErrSpeechUnavailable
	}
	select {
	case v.queue <- u:
		v.log.Debug("voice: queued %q (queue_len=%d)", u.Text, len(v.queue))
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Start begins the playback goroutine. Non-blocking.
func (v *Voice) Start(ctx context.Context) {
	go v.loop(ctx)
	v.log.Info("voice started")
}

// Played returns how many utterances finished playing.
func (v *Voice) Played() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.played
}

func (v *Voice) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			v.stopped.Store(true)
			v.log.Info("voice stopped")
			return
		case u := <-v.queue:
			v.speak(ctx, u)
		}
	}
}

// speak synthesizes (through the cache) and plays one utterance. Failures
// are logged and the utterance is dropped.
func (v *Voice) speak(ctx context.Context, u domain.Utterance) {
	audio, err := v.synthesize(ctx, u)
	if err != nil {
		v.log.Error("voice: synthesis failed for %q: %v", u.Text, err)
		return
	}
	if err := v.out.Play(audio); err != nil {
		v.log.Error("voice: playback failed for %q: %v", u.Text, err)
		return
	}
	v.mu.Lock()
	v.played++
	v.mu.Unlock()
}

func (v *Voice) synthesize(ctx context.Context, u domain.Utterance) ([]byte, error) {
	if v.cache != nil {
		if audio, ok := v.cache.Get(u); ok {
			return audio, nil
		}
	}
	audio, err := v.tts.Synthesize(ctx, u)
	if err != nil {
		return nil, err
	}
	if v.cache != nil {
		v.cache.Put(u, audio)
	}
	return audio, nil
}

// Prefetch synthesizes texts into the cache in the background so their
// first announcement plays without a network round trip. No-op without a
// cache.
func (v *Voice) Prefetch(ctx context.Context, rate, pitch float64, texts ...string) {
	if v.cache == nil {
		return
	}
	for _, text := range texts {
		u := domain.Utterance{Text: cleanForSpeech(text), Rate: rate, Pitch: pitch}
		if u.Text == "" {
			continue
		}
		go func() {
			if _, err := v.synthesize(ctx, u); err != nil {
				v.log.Warn("prefetch: %q: %v", u.Text, err)
			}
		}()
	}
}

// cleanForSpeech strips formatting artifacts that shouldn't be spoken.
var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func cleanForSpeech(msg string) string {
	return strings.TrimSpace(ansiCodes.ReplaceAllString(msg, ""))
}
