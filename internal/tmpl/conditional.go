package tmpl

import (
	"regexp"
	"strings"
)

var conditionalRe = regexp.MustCompile(`(?s)\{\{\s*if\s+page\.([^}]+)\}\}(.*?)\{\{\s*endif\s*\}\}`)

// Conditional keeps the body of {{ if page.name }}...{{ endif }} when the
// page field is set and non-empty, and drops the whole block otherwise.
// Blocks are not nested; a block ends at the first endif.
type Conditional struct{}

// Apply implements Transform.
func (Conditional) Apply(text string, rc *RenderContext) string {
	return conditionalRe.ReplaceAllStringFunc(text, func(block string) string {
		m := conditionalRe.FindStringSubmatch(block)
		if _, ok := rc.PageValue(strings.TrimSpace(m[1])); ok {
			return m[2]
		}
		return ""
	})
}
