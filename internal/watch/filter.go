package watch

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/content"
)

// shouldIgnoreEvent returns true for files that never trigger rebuilds:
// hidden files, editor swap and backup files, OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	if base == "Thumbs.db" || base == "4913" { // 4913: vim write probe
		return true
	}
	return false
}

// Filter decides which paths are build inputs.
type Filter struct {
	ContentDir   string
	TemplatesDir string
}

// Relevant reports whether a change to path should trigger a rebuild:
// Markdown files below the content directory and any file below the
// template directory.
func (f Filter) Relevant(path string) bool {
	if shouldIgnoreEvent(path) {
		return false
	}
	if isWithin(path, f.TemplatesDir) {
		return true
	}
	return isWithin(path, f.ContentDir) && content.IsContentFile(path)
}

func isWithin(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
