// Package speech turns announcements into audible speech.
package speech

import (
	"context"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*Silent)(nil)

// Silent is a speaker that only logs. Used when speech is disabled or no
// audio device is available.
type Silent struct {
	log *logger.Logger
}

// NewSilent creates a silent speaker.
func NewSilent(log *logger.Logger) *Silent {
	return &Silent{log: log}
}

// Submit logs the text and accepts it.
func (s *Silent) Submit(_ context.Context, u domain.Utterance) error {
	if u.Text == "" {
		return domain.ErrEmptyText
	}
	s.log.Info("speech off: would say %q (rate=%g, pitch=%g)", u.Text, u.Rate, u.Pitch)
	return nil
}
