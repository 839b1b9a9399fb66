package site

import (
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/page"
	"git.home.luguber.info/inful/sitegen/internal/tmpl"
)

// BuildState carries data between the stages of one build.
type BuildState struct {
	Builder *Builder
	Config  *config.Config
	Report  *Report

	Store     *tmpl.Store
	Templates map[string]string
	Assembler *page.Assembler

	Posts []content.Record
	Pages []content.Record
}

func (bs *BuildState) logger() *slog.Logger {
	return bs.Builder.logger.With(logfields.BuildID(bs.Report.BuildID))
}

func (bs *BuildState) recorder() metrics.Recorder {
	return bs.Builder.recorder
}

// template returns a template loaded by load_templates.
func (bs *BuildState) template(name string) string {
	return bs.Templates[name]
}
