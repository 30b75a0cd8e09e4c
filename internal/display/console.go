package display

import (
	"fmt"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// Compile-time interface check.
var _ domain.Display = (*Console)(nil)

// PrintFunc is a function used to print formatted output.
// Matches the signature of fmt.Printf.
type PrintFunc func(format string, a ...any)

// Console prints one styled line per display update. Used when stdout is
// not a terminal or -headless is set. Repeated intent values are printed
// only once so a 500ms poll does not flood the output.
type Console struct {
	log     *logger.Logger
	printFn PrintFunc
	last    map[string]string
}

// NewConsole creates a stdout-based display.
// If printFn is nil, fmt.Printf is used.
func NewConsole(log *logger.Logger, printFn PrintFunc) *Console {
	if printFn == nil {
		printFn = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &Console{log: log, printFn: printFn, last: make(map[string]string)}
}

// Show prints the update. Not safe for concurrent use; the notifier
// serializes its calls.
func (c *Console) Show(key, text string) {
	if key == domain.KeyIntent && c.last[key] == text {
		return
	}
	c.last[key] = text
	c.log.Debug("display: %s = %q", key, text)

	switch key {
	case domain.KeyIntent:
		c.printFn("%s %s", labelStyle.Render("intent"), intentStyle.Render(text))
	case domain.KeyLastSpoken:
		c.printFn("%s %s", labelStyle.Render("spoken"), spokenStyle.Render(text))
	default:
		c.printFn("%s %s", labelStyle.Render(key), text)
	}
}
