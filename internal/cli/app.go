package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/room-watch/internal/config"
	"github.com/pfrederiksen/room-watch/internal/credentials"
	"github.com/pfrederiksen/room-watch/internal/logger"
	"github.com/pfrederiksen/room-watch/internal/metrics"
	"github.com/pfrederiksen/room-watch/internal/monitor"
	"github.com/pfrederiksen/room-watch/internal/notifier"
	"github.com/pfrederiksen/room-watch/internal/scraper"
	"github.com/pfrederiksen/room-watch/internal/storage"
	"github.com/pfrederiksen/room-watch/internal/window"
)

// app holds everything a command needs, built once per process
type app struct {
	cfg      config.Config
	log      *logger.Logger
	logClose io.Closer
	metrics  *metrics.Recorder
	gate     *window.Gate
	store    *storage.Storage
	monitor  *monitor.Monitor
}

// loadConfig reads .env and the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := credentials.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(flagConfig, cmd.Flags())
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newApp wires the components for a check or watch run
func newApp(cmd *cobra.Command, now func() time.Time) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	log, logClose, err := logger.Open(level, cmd.ErrOrStderr(), logger.FileConfig{Path: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	gate := window.Default()
	if cfg.Window.Enabled {
		if gate, err = cfg.Gate(); err != nil {
			return nil, fmt.Errorf("building window gate: %w", err)
		}
	}

	store, err := storage.New(cfg.State.Path, cfg.State.LockTimeout)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	n, recipient := buildNotifier(cmd, cfg, log)

	rec := metrics.New()
	fetcher := scraper.New(cfg.ScraperOptions())

	log.Debug("Configuration loaded", logger.Fields{
		"url":        fetcher.URL(),
		"state_file": store.Path(),
		"window":     cfg.Window.Enabled,
		"timezone":   gate.Location().String(),
		"dry_run":    flagDryRun,
	})

	m := monitor.New(monitor.Deps{
		Gate:       gate,
		Fetcher:    fetcher,
		Classifier: scraper.NewClassifier(cfg.ScraperSelectors()),
		Store:      store,
		Notifier:   n,
		Logger:     log,
		Metrics:    rec,
		Now:        now,
	}, monitor.Options{
		Recipient:              recipient,
		Subject:                cfg.Email.Subject,
		IgnoreWindow:           flagIgnoreWindow || !cfg.Window.Enabled,
		AdvanceOnNotifyFailure: cfg.Notify.AdvanceOnFailure,
	})

	return &app{
		cfg:      cfg,
		log:      log,
		logClose: logClose,
		metrics:  rec,
		gate:     gate,
		store:    store,
		monitor:  m,
	}, nil
}

// buildNotifier returns nil when credentials are missing; that only disables alerts
func buildNotifier(cmd *cobra.Command, cfg config.Config, log *logger.Logger) (notifier.Notifier, string) {
	recipient := cfg.Email.Recipient

	if flagDryRun {
		if recipient == "" {
			recipient = cfg.SMTP.Username
		}
		return notifier.NewDryRunNotifier(cmd.OutOrStdout()), recipient
	}

	creds, err := credentials.Resolve(credentials.Credentials{
		User:     cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	if err != nil {
		if errors.Is(err, credentials.ErrCredentialsMissing) {
			log.Warn("Email credentials missing, notifications disabled", nil, err)
		} else {
			log.Error("Resolving email credentials failed, notifications disabled", nil, err)
		}
		return nil, recipient
	}

	if recipient == "" {
		recipient = creds.User
	}

	email, err := notifier.NewEmailNotifier(cfg.NotifierConfig(), creds)
	if err != nil {
		log.Error("Initializing email notifier failed, notifications disabled", nil, err)
		return nil, recipient
	}
	return email, recipient
}

// writeMetrics flushes the textfile if one is configured
func (a *app) writeMetrics() {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn("Writing metrics failed", logger.Fields{"path": a.cfg.Metrics.Textfile}, err)
	}
}

func (a *app) close() {
	if err := a.logClose.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
	}
}
