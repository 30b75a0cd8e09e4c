package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %s", "info")
	log.Warn("shown %s", "warn")
	log.Error("shown %s", "error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked at normal level:\n%s", out)
	}
	for _, want := range []string{"shown info", "shown warn", "shown error"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestVerboseIncludesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelVerbose, &buf)
	log.Debug("poll #%d", 7)
	if !strings.Contains(buf.String(), "poll #7") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestSetLevelOff(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelVerbose, &buf)
	log.SetLevel(LevelOff)
	if log.GetLevel() != LevelOff {
		t.Fatalf("level = %s, want off", log.GetLevel())
	}
	log.Error("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
