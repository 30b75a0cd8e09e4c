package main

import (
	"bytes"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/intentcast/internal/config"
)

func TestSetupLoggingWritesFile(t *testing.T) {
	t.Cleanup(func() { stdlog.SetOutput(os.Stderr) })
	path := filepath.Join(t.TempDir(), "logs", "intentcast.log")

	var errOut bytes.Buffer
	log, closeLog := setupLogging(&config.Config{LogFile: path}, &errOut)
	log.Info("hello from the test")
	closeLog()

	if errOut.Len() != 0 {
		t.Errorf("unexpected warnings: %q", errOut.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello from the test") {
		t.Errorf("log file = %q", data)
	}
}

func TestSetupLoggingReportsUnusableDir(t *testing.T) {
	t.Cleanup(func() { stdlog.SetOutput(os.Stderr) })

	// A regular file where the log directory should go.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var errOut bytes.Buffer
	log, closeLog := setupLogging(&config.Config{LogFile: filepath.Join(blocker, "sub", "intentcast.log")}, &errOut)
	defer closeLog()
	log.Info("falls back")

	out := errOut.String()
	if !strings.Contains(out, "could not create log dir") {
		t.Errorf("missing mkdir warning: %q", out)
	}
	if !strings.Contains(out, "falling back to stderr") {
		t.Errorf("missing fallback warning: %q", out)
	}
	if !strings.Contains(out, "falls back") {
		t.Errorf("log line did not reach the fallback writer: %q", out)
	}
}
