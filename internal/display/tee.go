package display

import "github.com/hammamikhairi/intentcast/internal/domain"

// Tee fans every update out to each display in order. Nil entries are
// skipped so optional displays can be passed unconditionally.
type Tee []domain.Display

// Show forwards to every display.
func (t Tee) Show(key, text string) {
	for _, d := range t {
		if d != nil {
			d.Show(key, text)
		}
	}
}
