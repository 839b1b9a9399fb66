// Package page assembles content records and templates into HTML documents.
package page

import (
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/relpath"
	"git.home.luguber.info/inful/sitegen/internal/tmpl"
)

// Site is the site-wide substitution data.
type Site struct {
	Name     string
	URL      string
	Owner    string // default author
	Revision string
}

// Listing configures the blog index page.
type Listing struct {
	Title        string
	Description  string
	EmptyMessage string
}

// Home configures the home page.
type Home struct {
	Title       string
	Description string
}

// Options configures an Assembler.
type Options struct {
	Site    Site
	Listing Listing
	Home    Home
	Logger  *slog.Logger
}

// DefaultOptions returns the stock site identity.
func DefaultOptions() Options {
	return Options{
		Site: Site{Name: "YourName.dev", URL: "https://yourname.dev", Owner: "Your Name"},
		Listing: Listing{
			Title:        "Blog",
			Description:  "My thoughts and writings",
			EmptyMessage: `<div class="text-center py-16"><p class="text-gray-600 dark:text-gray-400 text-lg">No blog posts yet. Check back soon!</p></div>`,
		},
		Home: Home{Title: "Home", Description: "Freelance Developer Portfolio"},
	}
}

// Assembler renders pages. It holds no per-page state.
type Assembler struct {
	source tmpl.Source
	opts   Options
}

// NewAssembler returns an Assembler resolving includes through src. Empty
// option fields take their DefaultOptions value.
func NewAssembler(src tmpl.Source, opts Options) *Assembler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	d := DefaultOptions()
	for _, f := range []struct {
		v   *string
		def string
	}{
		{&opts.Site.Name, d.Site.Name},
		{&opts.Site.URL, d.Site.URL},
		{&opts.Site.Owner, d.Site.Owner},
		{&opts.Listing.Title, d.Listing.Title},
		{&opts.Listing.Description, d.Listing.Description},
		{&opts.Listing.EmptyMessage, d.Listing.EmptyMessage},
		{&opts.Home.Title, d.Home.Title},
		{&opts.Home.Description, d.Home.Description},
	} {
		if *f.v == "" {
			*f.v = f.def
		}
	}
	return &Assembler{source: src, opts: opts}
}

func (a *Assembler) siteFields(depth int) map[string]string {
	return map[string]string{
		"name":      a.opts.Site.Name,
		"url":       a.opts.Site.URL,
		"owner":     a.opts.Site.Owner,
		"revision":  a.opts.Site.Revision,
		"base_path": relpath.Resolve(depth),
	}
}

func (a *Assembler) include() tmpl.Include {
	return tmpl.Include{Source: a.source, Logger: a.opts.Logger}
}

func (a *Assembler) pipeline() tmpl.Chain {
	return tmpl.Pipeline(a.source, a.opts.Logger)
}

// present keeps only non-empty values so conditionals see absent fields as
// unset.
func present(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// RenderPage renders a single content record at the given depth.
func (a *Assembler) RenderPage(rec content.Record, template string, depth int) string {
	rc := &tmpl.RenderContext{
		Page: present(map[string]string{
			"title":       rec.Title,
			"date":        rec.FormattedDate,
			"description": rec.Description,
			"author":      rec.Author,
			"slug":        rec.Slug,
			"url":         rec.URL,
		}),
		PageDefaults: map[string]string{"author": a.opts.Site.Owner},
		Site:         a.siteFields(depth),
		MainContent:  rec.Body,
	}
	return a.pipeline().Apply(template, rc)
}

// RenderHome renders the home page at depth 0.
func (a *Assembler) RenderHome(template string) string {
	rc := &tmpl.RenderContext{
		Page: present(map[string]string{
			"title":       a.opts.Home.Title,
			"description": a.opts.Home.Description,
		}),
		Site: a.siteFields(0),
	}
	return a.pipeline().Apply(template, rc)
}
