package tmpl

import "regexp"

var variableRe = regexp.MustCompile(`\{\{\s*(?:(page|site)\.([A-Za-z0-9_.-]+)|(main_content))\s*\}\}`)

// Variable substitutes {{ page.key }}, {{ site.key }} and {{ main_content }}.
// Missing keys become the empty string. Substitution is a single pass:
// inserted values are never scanned for tags.
type Variable struct{}

// Apply implements Transform.
func (Variable) Apply(text string, rc *RenderContext) string {
	return variableRe.ReplaceAllStringFunc(text, func(tag string) string {
		m := variableRe.FindStringSubmatch(tag)
		if m[3] != "" {
			if rc == nil {
				return ""
			}
			return rc.MainContent
		}
		return rc.lookup(m[1], m[2])
	})
}
