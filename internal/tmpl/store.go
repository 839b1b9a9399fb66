package tmpl

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Store loads templates from a directory. Loaded text is cached for the
// lifetime of the Store; a build creates a fresh Store so edits are picked
// up on the next build.
type Store struct {
	dir   string
	cache map[string]string
}

// NewStore returns a Store reading from dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]string)}
}

// Dir returns the template directory.
func (s *Store) Dir() string { return s.dir }

// Load returns the raw text of the named template. Names are relative to the
// template directory and may not escape it.
func (s *Store) Load(name string) (string, error) {
	if body, ok := s.cache[name]; ok {
		return body, nil
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.TemplateError("template name escapes template directory").
			WithContext("template", name).
			Build()
	}
	path := filepath.Join(s.dir, clean)
	// #nosec G304 -- path is confined to the template directory above.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "failed to read template").
			Fatal().
			WithContext("template", name).
			WithContext("file", path).
			Build()
	}
	body := string(data)
	s.cache[name] = body
	return body, nil
}

// LoadAll loads every named template, failing on the first one that
// cannot be read.
func (s *Store) LoadAll(names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, n := range names {
		body, err := s.Load(n)
		if err != nil {
			return nil, err
		}
		out[n] = body
	}
	return out, nil
}
