package site

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/gitinfo"
	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/notify"
)

// Builder runs builds for one configuration. A Builder is not safe for
// concurrent Build calls; the watcher serialises them.
type Builder struct {
	cfg       *config.Config
	content   *content.Repository
	recorder  metrics.Recorder
	publisher notify.Publisher
	history   history.Store
	logger    *slog.Logger
	revision  func(path string) (gitinfo.Revision, error)
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// WithPublisher sets the build event publisher.
func WithPublisher(p notify.Publisher) Option { return func(b *Builder) { b.publisher = p } }

// WithHistory sets the build history store.
func WithHistory(s history.Store) Option { return func(b *Builder) { b.history = s } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:       cfg,
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		logger:    slog.Default(),
		revision:  gitinfo.Head,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.content = content.NewRepository(markdown.New(), b.logger)
	return b
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

// Build runs every stage once. trigger describes what requested the build
// (cli, fs, cron). The report is returned even when the build fails.
func (b *Builder) Build(ctx context.Context, trigger string) (*Report, error) {
	report := newReport(uuid.NewString(), trigger)
	bs := &BuildState{Builder: b, Config: b.cfg, Report: report}
	log := bs.logger()

	if rev, err := b.revision(b.cfg.Paths.Content); err == nil {
		report.Revision = rev.Short()
	} else if !errors.Is(err, gitinfo.ErrNotRepository) {
		log.Debug("Could not read repository revision", logfields.Error(err))
	}

	log.Info("Starting build", slog.String("trigger", trigger), logfields.Path(b.cfg.Paths.Output))
	err := runStages(ctx, bs, Pipeline(b.cfg.Build.LinkVerification()))
	report.finish()

	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(report.Outcome)

	if err != nil {
		log.Error("Build failed", logfields.Outcome(string(report.Outcome)), logfields.Error(err))
	} else {
		log.Info("Build complete",
			logfields.Outcome(string(report.Outcome)),
			slog.Int("posts", report.Posts),
			slog.Int("pages", report.Pages),
			slog.Int("total_pages", report.TotalPages()),
			logfields.DurationMS(float64(report.Duration().Microseconds())/1000),
		)
	}

	b.afterBuild(report)
	return report, err
}

// afterBuild records history and publishes the build event. Failures are
// logged and never change the build result.
func (b *Builder) afterBuild(report *Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log := b.logger.With(logfields.BuildID(report.BuildID))

	if b.history != nil {
		if err := b.history.RecordBuild(ctx, report.historyBuild(b.cfg.Paths.Output), report.Emitted); err != nil {
			log.Warn("Failed to record build history", logfields.Error(err))
		}
	}

	ev := notify.BuildCompleted{
		BuildID:     report.BuildID,
		Outcome:     string(report.Outcome),
		Trigger:     report.Trigger,
		Revision:    report.Revision,
		Posts:       report.Posts,
		Pages:       report.Pages,
		TotalPages:  report.TotalPages(),
		BrokenLinks: len(report.BrokenLinks),
		DurationMS:  report.Duration().Milliseconds(),
		Timestamp:   report.End.UTC(),
	}
	if len(report.Errors) > 0 {
		ev.Error = report.Errors[0].Error()
	}
	if err := b.publisher.PublishBuild(ctx, ev); err != nil {
		log.Warn("Failed to publish build event", logfields.Error(err))
	}
}
