package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/notify"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// loadConfig reads the configuration, falling back to defaults rooted next
// to the configured path when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, found, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if !found {
		slog.Debug("No configuration file; using defaults", logfields.File(path))
	}
	return cfg, nil
}

// newBuilder wires the optional history store and NATS publisher configured
// in cfg. The returned cleanup closes them.
func newBuilder(cfg *config.Config, recorder metrics.Recorder) (*site.Builder, func(), error) {
	opts := []site.Option{site.WithRecorder(recorder), site.WithLogger(slog.Default())}
	var closers []func() error

	if cfg.Build.HistoryDB != "" {
		store, err := history.NewSQLiteStore(cfg.Build.HistoryDB)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, site.WithHistory(store))
		closers = append(closers, store.Close)
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, slog.Default())
		if err != nil {
			// Notifications are optional; a build never fails because of them.
			slog.Warn("Build notifications disabled", logfields.Error(err))
		} else {
			opts = append(opts, site.WithPublisher(pub))
			closers = append(closers, pub.Close)
		}
	}

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Warn("Close failed", logfields.Error(err))
			}
		}
	}
	return site.NewBuilder(cfg, opts...), cleanup, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
