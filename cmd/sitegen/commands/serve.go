package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/preview"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// ServeCmd implements the 'serve' command: watch mode plus a preview server.
type ServeCmd struct {
	Port         int  `short:"p" help:"Override serve.port"`
	NoLiveReload bool `name:"no-livereload" help:"Do not inject the live reload script"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.NoLiveReload {
		off := false
		cfg.Serve.LiveReload = &off
	}

	var (
		reg      *prom.Registry
		recorder metrics.Recorder = metrics.NoopRecorder{}
	)
	if cfg.Serve.MetricsEnabled() {
		reg = prom.NewRegistry()
		reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	builder, cleanup, err := newBuilder(cfg, recorder)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := preview.New(preview.Options{
		Root:       cfg.Paths.Output,
		Port:       cfg.Serve.Port,
		LiveReload: cfg.Serve.LiveReloadEnabled(),
		Registry:   reg,
		Logger:     slog.Default(),
	})

	ctx, cancel := signalContext()
	defer cancel()

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Run(ctx)
		// A failed listener stops the watcher too.
		cancel()
	}()

	watchErr := runWatcher(ctx, cfg, builder, recorder, func(r *site.Report) { srv.Notify(r.BuildID) })
	cancel()
	if err := <-srvErr; err != nil {
		return err
	}
	return watchErr
}
