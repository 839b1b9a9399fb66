package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	if err := validatePaths(cfg.Paths); err != nil {
		return err
	}
	if err := validateTemplates(cfg.Templates); err != nil {
		return err
	}
	if u, err := url.Parse(cfg.Site.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ValidationError("site.url must be an absolute URL").
			WithContext("value", cfg.Site.URL).
			Build()
	}
	if cfg.Watch.Debounce < 0 || cfg.Watch.RequeueDelay < 0 {
		return errors.ValidationError("watch durations must not be negative").Build()
	}
	if cfg.Serve.Port < 1 || cfg.Serve.Port > 65535 {
		return errors.ValidationError("serve.port out of range").
			WithContext("value", cfg.Serve.Port).
			Build()
	}
	return nil
}

func validatePaths(p PathsConfig) error {
	for name, v := range map[string]string{"paths.content": p.Content, "paths.templates": p.Templates, "paths.output": p.Output} {
		if strings.TrimSpace(v) == "" {
			return errors.ValidationError("path must not be empty").WithContext("field", name).Build()
		}
	}
	out := filepath.Clean(p.Output)
	if out == string(filepath.Separator) || out == filepath.VolumeName(out)+string(filepath.Separator) {
		return errors.ValidationError("paths.output must not be the filesystem root").Build()
	}
	// The output directory is emptied on every build.
	for name, v := range map[string]string{"paths.content": p.Content, "paths.templates": p.Templates} {
		if within(filepath.Clean(v), out) {
			return errors.ValidationError("paths.output must not contain the sources").
				WithContext("field", name).
				WithContext("output", p.Output).
				Build()
		}
	}
	return nil
}

// within reports whether path equals dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func validateTemplates(t TemplatesConfig) error {
	names := map[string]string{"templates.post": t.Post, "templates.page": t.Page, "templates.listing": t.Listing, "templates.home": t.Home}
	for slug, name := range t.Pages {
		names["templates.pages."+slug] = name
	}
	for field, name := range names {
		if strings.TrimSpace(name) == "" {
			return errors.ValidationError("template name must not be empty").WithContext("field", field).Build()
		}
		clean := filepath.Clean(filepath.FromSlash(name))
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return errors.ValidationError("template name escapes the template directory").
				WithContext("field", field).
				WithContext("value", name).
				Build()
		}
	}
	return nil
}
