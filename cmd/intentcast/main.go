// intentcast watches an intent status endpoint, shows the current intent,
// and announces changes aloud.
//
// Usage:
//
//	intentcast [-status-url URL] [-verbose] [-quiet] [-headless] [-desktop]
//	intentcast -once
//	intentcast -serve :5000 < detections.txt
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/intentcast/internal/config"
	"github.com/hammamikhairi/intentcast/internal/display"
	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
	"github.com/hammamikhairi/intentcast/internal/notifier"
	"github.com/hammamikhairi/intentcast/internal/speech"
	"github.com/hammamikhairi/intentcast/internal/status"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	log, closeLog := setupLogging(cfg, os.Stderr)
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Serve != "" {
		err = serve(ctx, cfg, log)
	} else {
		err = watch(ctx, cancel, cfg, log)
	}
	if err != nil {
		log.Error("%v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// setupLogging directs logs to a file by default so the terminal UI stays
// clean. Problems opening the file are reported on errOut. The returned func
// closes the file.
func setupLogging(cfg *config.Config, errOut io.Writer) (*logger.Logger, func()) {
	level := logger.LevelNormal
	if cfg.Verbose {
		level = logger.LevelVerbose
	}
	if cfg.Quiet {
		level = logger.LevelOff
	}

	out := errOut
	closeFn := func() {}
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintf(errOut, "warning: could not create log dir %s: %v\n", dir, err)
			}
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(errOut, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			out = f
			closeFn = func() { f.Close() }
		}
	}

	// Third-party packages that use the std log package write to the same place.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	return logger.New(level, out), closeFn
}

// watch polls the status endpoint and announces changes until ctx ends or
// the UI quits.
func watch(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, log *logger.Logger) error {
	var clientOpts []status.ClientOption
	if cfg.HTTP2 {
		hc, err := status.NewHTTP2Client(cfg.StatusURL)
		if err != nil {
			return fmt.Errorf("http2 client: %w", err)
		}
		clientOpts = append(clientOpts, status.WithHTTPClient(hc))
	}
	source := status.NewClient(cfg.StatusURL, log, clientOpts...)

	opts := []notifier.Option{
		notifier.WithInterval(cfg.Interval),
		notifier.WithDebounce(cfg.Debounce),
		notifier.WithProsody(cfg.Rate, cfg.Pitch),
		notifier.WithSentinels(cfg.Sentinels...),
	}

	var desktop domain.Display
	if cfg.Desktop {
		desktop = display.NewDesktop("intentcast", log)
	}

	if cfg.Once {
		// A single poll exits before queued audio could play.
		board := display.NewBoard()
		n := notifier.New(source, speech.NewSilent(log), display.Tee{board, desktop}, log, opts...)
		if err := n.Poll(ctx); err != nil {
			return err
		}
		fmt.Println(board.Text(domain.KeyIntent))
		return nil
	}

	speaker := buildSpeaker(ctx, cfg, log)

	if cfg.Headless || !display.IsTerminal() {
		console := display.NewConsole(log, nil)
		n := notifier.New(source, speaker, display.Tee{console, desktop}, log, opts...)
		fmt.Println(display.BannerStyle.Render("  watching " + cfg.StatusURL + " (Ctrl-C to stop)"))
		n.Run(ctx)
		return nil
	}

	ui := display.NewUI(cfg.StatusURL)
	n := notifier.New(source, speaker, display.Tee{ui, desktop}, log, opts...)

	fmt.Println(display.RenderBanner())

	go func() {
		ui.WaitReady()
		n.Run(ctx)
	}()
	go func() {
		select {
		case <-ctx.Done():
			ui.Quit()
		case <-ui.QuitChan():
		}
	}()

	// Bubble Tea owns the terminal. Blocks until quit.
	err := ui.Run()
	cancel()

	snap := n.Snapshot()
	log.Info("session done: %d polls, %d failures, %d announced, %d suppressed",
		snap.Polls, snap.Failures, snap.Announced, snap.Suppressed)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// buildSpeaker returns the Azure-backed voice when credentials and an audio
// device are available, and a silent speaker otherwise.
func buildSpeaker(ctx context.Context, cfg *config.Config, log *logger.Logger) domain.Speaker {
	if !cfg.SpeechEnabled() {
		if !cfg.NoSpeech {
			log.Info("TTS disabled: set %s and %s env vars to enable", config.EnvAzureSpeechKey, config.EnvAzureSpeechRegion)
		}
		return speech.NewSilent(log)
	}

	player, err := speech.NewPlayer(log)
	if errors.Is(err, domain.ErrSpeechUnavailable) {
		log.Warn("speech disabled: %v", err)
		return speech.NewSilent(log)
	}
	if err != nil {
		log.Error("audio player init failed, speech disabled: %v", err)
		return speech.NewSilent(log)
	}

	tts := speech.NewAzureClient(cfg.AzureKey, cfg.AzureRegion, log)
	cache := speech.NewAudioCache(tts.Voice(), cfg.CacheDir, cfg.DiskCache, log)
	voice := speech.NewVoice(tts, player, log, speech.WithCache(cache))
	voice.Start(ctx)
	voice.Prefetch(ctx, cfg.Rate, cfg.Pitch, cfg.Prefetch...)

	log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), cfg.AzureRegion)
	return voice
}

// serve runs a status board on cfg.Serve. Each line read from stdin is one
// raw detection.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	board := status.NewBoard(log)

	mux := http.NewServeMux()
	mux.Handle("/status", board)
	srv := &http.Server{
		Addr:              cfg.Serve,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				board.Observe(line)
			}
		}
		if err := scanner.Err(); err != nil {
			log.Error("reading detections: %v", err)
		}
		log.Info("detection input closed; still serving %q", board.Current())
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("status board shutdown: %v", err)
		}
	}()

	log.Info("status board listening on %s", cfg.Serve)
	fmt.Println(display.BannerStyle.Render("  serving /status on " + cfg.Serve + "; type detections, one per line"))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status board: %w", err)
	}
	return nil
}
