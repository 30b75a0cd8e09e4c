package display

import (
	"github.com/gen2brain/beeep"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// Compile-time interface check.
var _ domain.Display = (*Desktop)(nil)

// Desktop raises a desktop notification for every spoken announcement.
// Intent updates are ignored; they arrive twice a second.
type Desktop struct {
	title  string
	notify func(title, message string) error
	log    *logger.Logger
}

// NewDesktop creates a desktop notifier using the given title.
func NewDesktop(title string, log *logger.Logger) *Desktop {
	return &Desktop{
		title: title,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		log: log,
	}
}

// Show notifies for domain.KeyLastSpoken only.
func (d *Desktop) Show(key, text string) {
	if key != domain.KeyLastSpoken {
		return
	}
	if err := d.notify(d.title, text); err != nil {
		d.log.Warn("desktop notification failed: %v", err)
	}
}
