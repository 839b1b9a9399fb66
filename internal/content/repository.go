package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// StatusPublished is the only status that makes a content file visible.
const StatusPublished = "published"

// Repository reads content directories.
type Repository struct {
	renderer *markdown.Renderer
	logger   *slog.Logger
}

// NewRepository returns a Repository that renders bodies with renderer.
// A nil logger falls back to slog.Default().
func NewRepository(renderer *markdown.Renderer, logger *slog.Logger) *Repository {
	if renderer == nil {
		renderer = markdown.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{renderer: renderer, logger: logger}
}

// IsContentFile reports whether name is a Markdown content file.
func IsContentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// Load returns the published records of one content directory in directory
// listing order. Subdirectories are not scanned. A missing directory yields
// no records and a warning.
func (r *Repository) Load(ctx context.Context, dir string, category Category) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("Content directory not found", logfields.Path(dir), logfields.Category(string(category)))
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read content directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}

	records := make([]Record, 0, len(entries))
	seen := make(map[string]string)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !IsContentFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		rec, ok, err := r.loadFile(path, category)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if prev, dup := seen[rec.Slug]; dup {
			return nil, errors.ContentError("duplicate slug").
				WithContext("slug", rec.Slug).
				WithContext("file", path).
				WithContext("previous", prev).
				Build()
		}
		seen[rec.Slug] = path
		records = append(records, rec)
	}
	return records, nil
}

func (r *Repository) loadFile(path string, category Category) (Record, bool, error) {
	// #nosec G304 -- path comes from listing the configured content directory.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Record{}, false, errors.WrapError(err, errors.CategoryFileSystem, "failed to read content file").
			Fatal().
			WithContext("file", path).
			Build()
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return Record{}, false, errors.WrapError(err, errors.CategoryContent, "invalid front matter").
			Fatal().
			WithContext("file", path).
			Build()
	}

	fields := doc.Fields
	status, _ := fields.String("status")
	if status != StatusPublished {
		r.logger.Info("Skipping draft", logfields.File(path), slog.String("status", status))
		return Record{}, false, nil
	}

	title, ok := fields.String("title")
	if !ok {
		title = TitleFromFilename(path)
	}
	slug := Slugify(title)
	if explicit, ok := fields.String("slug"); ok {
		slug = Slugify(explicit)
	}
	if slug == "" {
		return Record{}, false, errors.ContentError("content file has an empty slug").
			WithContext("file", path).
			Build()
	}

	body, err := r.renderer.Render(doc.Body)
	if err != nil {
		return Record{}, false, errors.WrapError(err, errors.CategoryContent, "failed to render markdown").
			Fatal().
			WithContext("file", path).
			Build()
	}

	rec := Record{
		Title:       title,
		Status:      status,
		Slug:        slug,
		Body:        body,
		URL:         category.URLFor(slug),
		Category:    category,
		SourcePath:  path,
		Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(doc.Raw), "\n"), string(doc.Body)),
	}
	rec.Date, _ = fields.String("date")
	rec.Description, _ = fields.String("description")
	rec.Author, _ = fields.String("author")

	if t, ok := ParseDate(rec.Date); ok {
		rec.PublishedAt = t
		rec.FormattedDate = t.Format(DisplayDateLayout)
	} else if category == Posts || rec.Date != "" {
		r.logger.Warn("Missing or unparsable date", logfields.File(path), slog.String("date", rec.Date))
	}

	if rec.Description != "" {
		rec.Excerpt = rec.Description
	} else {
		rec.Excerpt = Excerpt(string(doc.Body))
	}

	r.logger.Debug("Loaded content", logfields.File(path), logfields.Slug(slug), logfields.Category(string(category)))
	return rec, true, nil
}
