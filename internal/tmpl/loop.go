package tmpl

import (
	"regexp"
	"strings"
)

// Loop replaces every {{ foreach <collection> }}...{{ endforeach }} block with
// Rendered. The block body is ignored: iterating the collection and rendering
// each item is the caller's job.
type Loop struct {
	Collection string
	Rendered   string
}

// Apply implements Transform.
func (l Loop) Apply(text string, _ *RenderContext) string {
	re := regexp.MustCompile(`(?s)\{\{\s*foreach\s+` + regexp.QuoteMeta(l.Collection) + `\s*\}\}.*?\{\{\s*endforeach\s*\}\}`)
	return re.ReplaceAllLiteralString(text, l.Rendered)
}

// EmptyState replaces {{ if <marker> }}...{{ endif }} with Message when Empty
// is true and removes the block otherwise.
type EmptyState struct {
	Marker  string
	Empty   bool
	Message string
}

// Apply implements Transform.
func (e EmptyState) Apply(text string, _ *RenderContext) string {
	re := regexp.MustCompile(`(?s)\{\{\s*if\s+` + regexp.QuoteMeta(strings.TrimSpace(e.Marker)) + `\s*\}\}.*?\{\{\s*endif\s*\}\}`)
	replacement := ""
	if e.Empty {
		replacement = e.Message
	}
	return re.ReplaceAllLiteralString(text, replacement)
}
