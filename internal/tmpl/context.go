package tmpl

// RenderContext is the substitution environment for a single page render.
type RenderContext struct {
	// Page holds the fields actually present on the page. Conditionals only
	// consult this map.
	Page map[string]string
	// PageDefaults supplies substitution values for page keys absent from Page.
	PageDefaults map[string]string
	Site         map[string]string
	MainContent  string
}

// PageValue reports the value of a page field and whether it is set to a
// non-empty string.
func (rc *RenderContext) PageValue(key string) (string, bool) {
	if rc == nil {
		return "", false
	}
	v, ok := rc.Page[key]
	return v, ok && v != ""
}

func (rc *RenderContext) lookup(scope, key string) string {
	if rc == nil {
		return ""
	}
	switch scope {
	case "page":
		if v, ok := rc.PageValue(key); ok {
			return v
		}
		return rc.PageDefaults[key]
	case "site":
		return rc.Site[key]
	}
	return ""
}
