// Package display provides the surfaces that show the current intent and
// the last spoken announcement.
//
// [UI] renders both elements in the terminal with Bubble Tea. [Console]
// prints plain lines for non-interactive runs, [Desktop] raises desktop
// notifications, and [Board] keeps the values in memory. [Tee] combines
// several of them.
package display

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/intentcast/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	intentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)

	intentBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(1, 4).
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)

	spokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b")).
			Italic(true)
)

// ── UI ───────────────────────────────────────────────────────────

// Compile-time interface check.
var _ domain.Display = (*UI)(nil)

// UI shows the intent and last-spoken elements in the terminal.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Show] once [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display for the given status endpoint. Call Run to start.
func NewUI(source string) *UI {
	u := &UI{
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
	u.program = tea.NewProgram(newModel(source, u.readyCh))
	return u
}

// Show updates a display element. Thread-safe. Updates after the UI has
// quit are dropped.
func (u *UI) Show(key, text string) {
	if u.done.Load() {
		return
	}
	u.program.Send(showMsg{key: key, text: text})
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() { u.program.Quit() }

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type showMsg struct {
	key  string
	text string
}

type model struct {
	source   string
	intent   string
	seen     bool // at least one intent received
	spoken   string
	spokenAt time.Time
	spinner  spinner.Model
	readyCh  chan struct{}
	width    int
}

func newModel(source string, readyCh chan struct{}) model {
	return model{
		source: source,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(labelStyle),
		),
		readyCh: readyCh,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		signalReady(m.readyCh),
		tea.SetWindowTitle("intentcast"),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case showMsg:
		return m.apply(msg)

	case spinner.TickMsg:
		// Stop ticking once there is something to show.
		if m.seen {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) apply(msg showMsg) (tea.Model, tea.Cmd) {
	switch msg.key {
	case domain.KeyIntent:
		changed := !m.seen || m.intent != msg.text
		m.intent = msg.text
		m.seen = true
		if changed {
			return m, tea.SetWindowTitle("intentcast: " + msg.text)
		}
	case domain.KeyLastSpoken:
		m.spoken = msg.text
		m.spokenAt = time.Now()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("watching " + m.source))
	b.WriteString("\n\n")

	if !m.seen {
		b.WriteString(m.spinner.View())
		b.WriteString(labelStyle.Render(" waiting for the first status..."))
	} else {
		text := m.intent
		if text == "" {
			text = " "
		}
		box := intentBoxStyle
		if m.width > 8 {
			box = box.MaxWidth(m.width)
		}
		b.WriteString(box.Render(text))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("last spoken: "))
	if m.spoken == "" {
		b.WriteString(labelStyle.Render("-"))
	} else {
		b.WriteString(spokenStyle.Render(m.spoken))
		b.WriteString(labelStyle.Render("  (" + m.spokenAt.Format("15:04:05") + ")"))
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("q to quit"))
	b.WriteByte('\n')
	return b.String()
}
