// Package config reads intentcast settings from command-line flags, with
// environment variables as fallbacks for the values that differ between
// machines.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/hammamikhairi/intentcast/internal/notifier"
	"github.com/hammamikhairi/intentcast/internal/status"
)

// Environment variables consulted by Load.
const (
	EnvStatusURL         = "INTENTCAST_STATUS_URL"
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// Config holds every runtime setting.
type Config struct {
	StatusURL string
	Interval  time.Duration
	Debounce  time.Duration
	Rate      float64
	Pitch     float64
	Sentinels []string

	Verbose bool
	Quiet   bool
	LogFile string

	NoSpeech    bool
	CacheDir    string
	DiskCache   bool
	Prefetch    []string
	AzureKey    string
	AzureRegion string

	Headless bool
	Desktop  bool
	HTTP2    bool
	Once     bool

	Serve string // status board listen address; empty = watch mode
}

// SpeechEnabled reports whether Azure TTS should be used.
func (c *Config) SpeechEnabled() bool {
	return !c.NoSpeech && c.AzureKey != "" && c.AzureRegion != ""
}

// Load parses args (without the program name). getenv supplies environment
// values; pass os.Getenv. Usage and parse errors are written to out.
func Load(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	c := &Config{}
	fs := flag.NewFlagSet("intentcast", flag.ContinueOnError)
	fs.SetOutput(out)

	defaultURL := status.DefaultURL
	if v := getenv(EnvStatusURL); v != "" {
		defaultURL = v
	}
	var sentinels, prefetch string

	fs.StringVar(&c.StatusURL, "status-url", defaultURL, "status endpoint to poll (env "+EnvStatusURL+")")
	fs.DurationVar(&c.Interval, "interval", notifier.DefaultInterval, "time between polls")
	fs.DurationVar(&c.Debounce, "debounce", notifier.DefaultDebounce, "minimum time between two announcements")
	fs.Float64Var(&c.Rate, "rate", notifier.DefaultRate, "speech rate multiplier")
	fs.Float64Var(&c.Pitch, "pitch", notifier.DefaultPitch, "speech pitch multiplier")
	fs.StringVar(&sentinels, "sentinels", "Listening...,Unknown", "comma-separated intents that are shown but never spoken")

	fs.BoolVar(&c.Verbose, "verbose", false, "enable verbose/debug logging")
	fs.BoolVar(&c.Quiet, "quiet", false, "disable all logging")
	fs.StringVar(&c.LogFile, "log-file", ".intentcast-logs/intentcast.log", "file to write logs to (use \"stderr\" to log to console)")

	fs.BoolVar(&c.NoSpeech, "no-speech", false, "disable text-to-speech even if Azure keys are set")
	fs.StringVar(&c.CacheDir, "cache-dir", ".intentcast-cache", "directory for persistent TTS audio cache")
	fs.BoolVar(&c.DiskCache, "disk-cache", true, "persist TTS audio cache to disk (reads from disk even when false)")
	fs.StringVar(&prefetch, "prefetch", "", "comma-separated intents to synthesize at startup")

	fs.BoolVar(&c.Headless, "headless", false, "print updates as lines instead of the terminal UI")
	fs.BoolVar(&c.Desktop, "desktop", false, "also raise a desktop notification for each announcement")
	fs.BoolVar(&c.HTTP2, "http2", false, "poll over HTTP/2 (h2c for http:// URLs)")
	fs.BoolVar(&c.Once, "once", false, "poll a single time, print the result and exit")
	fs.StringVar(&c.Serve, "serve", "", "run a status board on this address, fed from stdin, instead of watching")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	c.Sentinels = splitList(sentinels)
	c.Prefetch = splitList(prefetch)
	c.AzureKey = getenv(EnvAzureSpeechKey)
	c.AzureRegion = getenv(EnvAzureSpeechRegion)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %s", c.Debounce))
	}
	if c.Rate <= 0 || c.Rate > 3 {
		errs = append(errs, fmt.Errorf("rate must be in (0, 3], got %g", c.Rate))
	}
	if c.Pitch <= 0 || c.Pitch > 3 {
		errs = append(errs, fmt.Errorf("pitch must be in (0, 3], got %g", c.Pitch))
	}
	if c.Serve == "" {
		u, err := url.Parse(c.StatusURL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("status url: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Errorf("status url must be http or https, got %q", c.StatusURL))
		case u.Host == "":
			errs = append(errs, fmt.Errorf("status url has no host: %q", c.StatusURL))
		}
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
