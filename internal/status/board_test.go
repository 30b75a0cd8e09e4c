package status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

func TestBoardStartsListening(t *testing.T) {
	b := NewBoard(logger.New(logger.LevelOff, nil))
	if got := b.Current(); got != domain.IntentListening {
		t.Fatalf("initial intent = %q, want %q", got, domain.IntentListening)
	}
}

func TestBoardObserveStabilizes(t *testing.T) {
	b := NewBoard(logger.New(logger.LevelOff, nil))

	b.Observe("STOP")
	b.Observe("STOP")
	if got := b.Current(); got != domain.IntentListening {
		t.Fatalf("switched after 2 detections: %q", got)
	}
	if got := b.Observe("STOP"); got != "STOP" {
		t.Fatalf("after 3 detections = %q, want STOP", got)
	}

	// A single flicker does not switch.
	b.Observe("PEACE")
	b.Observe("STOP")
	b.Observe("PEACE")
	if got := b.Current(); got != "STOP" {
		t.Fatalf("flicker switched intent to %q", got)
	}
}

func TestBoardWindowOfOne(t *testing.T) {
	b := NewBoard(logger.New(logger.LevelOff, nil), WithWindow(0))
	if got := b.Observe("WAIT"); got != "WAIT" {
		t.Fatalf("intent = %q, want WAIT", got)
	}
}

func TestBoardSetBypassesWindow(t *testing.T) {
	b := NewBoard(logger.New(logger.LevelOff, nil))
	b.Observe("HELP")
	b.Observe("HELP")
	b.Set("ROCK ON")
	if got := b.Current(); got != "ROCK ON" {
		t.Fatalf("intent = %q, want ROCK ON", got)
	}
	// The window was reset, so one more HELP is not enough.
	b.Observe("HELP")
	if got := b.Current(); got != "ROCK ON" {
		t.Fatalf("intent = %q, want ROCK ON", got)
	}
}

func TestBoardServesStatus(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	b := NewBoard(log)
	b.Set("VOLUME CTRL")

	mux := http.NewServeMux()
	mux.Handle("/status", b)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	got, err := NewClient(srv.URL+"/status", log).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != "VOLUME CTRL" {
		t.Fatalf("intent = %q, want VOLUME CTRL", got)
	}
}

func TestBoardRejectsPost(t *testing.T) {
	b := NewBoard(logger.New(logger.LevelOff, nil))
	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", strings.NewReader("{}")))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Errorf("Allow = %q", allow)
	}
}
