package tmpl

import (
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

var includeRe = regexp.MustCompile(`\{\{\s*include:([^}]+)\}\}`)

// Source resolves template names to raw template text.
type Source interface {
	Load(name string) (string, error)
}

// Include replaces {{ include: name }} with the raw text of the named
// template. Included text is not scanned again, so nested includes stay
// in place. A template that cannot be loaded is replaced with nothing and a
// warning is logged.
type Include struct {
	Source Source
	Logger *slog.Logger
}

// Apply implements Transform.
func (in Include) Apply(text string, _ *RenderContext) string {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return includeRe.ReplaceAllStringFunc(text, func(tag string) string {
		name := strings.TrimSpace(includeRe.FindStringSubmatch(tag)[1])
		if in.Source == nil {
			logger.Warn("Could not include template", logfields.Template(name), slog.String("reason", "no template source"))
			return ""
		}
		body, err := in.Source.Load(name)
		if err != nil {
			logger.Warn("Could not include template", logfields.Template(name), logfields.Error(err))
			return ""
		}
		return body
	})
}
