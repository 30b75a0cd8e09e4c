package status

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/status" {
			t.Errorf("path = %s, want /status", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReturnsIntent(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	srv := serve(t, http.StatusOK, `{"intent":"HELP"}`)

	c := NewClient(srv.URL+"/status", log)
	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != "HELP" {
		t.Fatalf("intent = %q, want HELP", got)
	}
}

func TestFetchFailures(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	cases := []struct {
		name   string
		status int
		body   string
		kind   FailureKind
	}{
		{"server error", http.StatusInternalServerError, "boom", FailureStatus},
		{"not found", http.StatusNotFound, "", FailureStatus},
		{"malformed json", http.StatusOK, `{"intent":`, FailureDecode},
		{"missing field", http.StatusOK, `{"other":"x"}`, FailureDecode},
		{"null intent", http.StatusOK, `{"intent":null}`, FailureDecode},
		{"wrong type", http.StatusOK, `{"intent":42}`, FailureDecode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.status, tc.body)
			c := NewClient(srv.URL+"/status", log)

			_, err := c.Fetch(context.Background())
			if !errors.Is(err, domain.ErrPollFailure) {
				t.Fatalf("err = %v, want ErrPollFailure", err)
			}
			var pe *PollError
			if !errors.As(err, &pe) {
				t.Fatalf("err %T is not *PollError", err)
			}
			if pe.Kind != tc.kind {
				t.Errorf("kind = %s, want %s", pe.Kind, tc.kind)
			}
			if tc.kind == FailureStatus && pe.StatusCode != tc.status {
				t.Errorf("status code = %d, want %d", pe.StatusCode, tc.status)
			}
		})
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/status"
	srv.Close()

	_, err := NewClient(url, log).Fetch(context.Background())
	var pe *PollError
	if !errors.As(err, &pe) || pe.Kind != FailureNetwork {
		t.Fatalf("err = %v, want network PollError", err)
	}
}

func TestNewHTTP2ClientRejectsUnknownScheme(t *testing.T) {
	if _, err := NewHTTP2Client("ftp://example.com/status"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
	if _, err := NewHTTP2Client("https://example.com/status"); err != nil {
		t.Fatalf("https: %v", err)
	}
}

func TestHTTP2ClientAgainstTLSServer(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ProtoMajor != 2 {
			t.Errorf("proto = %s, want HTTP/2", r.Proto)
		}
		w.Write([]byte(`{"intent":"PEACE"}`))
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	hc := srv.Client()
	got, err := NewClient(srv.URL+"/status", log, WithHTTPClient(hc)).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != "PEACE" {
		t.Fatalf("intent = %q, want PEACE", got)
	}
}
