package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Schedule string `help:"Cron expression for periodic rebuilds (overrides watch.schedule)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if w.Schedule != "" {
		cfg.Watch.Schedule = w.Schedule
	}
	builder, cleanup, err := newBuilder(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()
	return runWatcher(ctx, cfg, builder, metrics.NoopRecorder{}, nil)
}

// runWatcher builds on every relevant change until ctx is done. onBuilt, when
// set, receives every successful report.
func runWatcher(ctx context.Context, cfg *config.Config, builder *site.Builder, rec metrics.Recorder, onBuilt func(*site.Report)) error {
	build := func(ctx context.Context, trigger string) error {
		report, err := builder.Build(ctx, trigger)
		if err == nil && onBuilt != nil {
			onBuilt(report)
		}
		return err
	}
	c := watch.NewCoalescer(ctx, build,
		watch.WithRequeueDelay(cfg.Watch.RequeueDelay),
		watch.WithCoalescerRecorder(rec),
		watch.WithCoalescerLogger(slog.Default()),
	)
	w := watch.New(c, watch.Options{
		ContentDir:   cfg.Paths.Content,
		TemplatesDir: cfg.Paths.Templates,
		Debounce:     cfg.Watch.Debounce,
		Schedule:     cfg.Watch.Schedule,
		Logger:       slog.Default(),
	})
	return w.Run(ctx)
}
