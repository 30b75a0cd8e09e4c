package domain

// Keys of the two text elements on the display surface.
const (
	KeyIntent     = "intent-display"
	KeyLastSpoken = "last-spoken"
)

// Intent values published by the status source that are never announced.
const (
	IntentListening = "Listening..."
	IntentUnknown   = "Unknown"
)

// DefaultSentinels returns the intents that are shown but never spoken.
func DefaultSentinels() []string {
	return []string{IntentListening, IntentUnknown}
}

// Utterance is a single request to the speech output. Rate and Pitch are
// multipliers; 1 means the engine default.
type Utterance struct {
	Text  string
	Rate  float64
	Pitch float64
}
