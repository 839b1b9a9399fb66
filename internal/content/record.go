// Package content loads Markdown content files into normalized records.
package content

import "time"

// Category groups content by output location.
type Category string

const (
	// Posts are dated blog entries rendered under /blog/<slug>.
	Posts Category = "posts"
	// Pages are standalone pages rendered under /<slug>.
	Pages Category = "pages"
)

// URLFor returns the site-absolute URL of a slug within the category.
func (c Category) URLFor(slug string) string {
	if c == Posts {
		return "/blog/" + slug
	}
	return "/" + slug
}

// Record is a published content file, normalized for rendering. Records are
// built once per build and not modified afterwards.
type Record struct {
	Title         string
	Date          string // raw front-matter value
	Status        string
	Slug          string
	Description   string
	Author        string
	Body          string // rendered HTML
	FormattedDate string // "January 2, 2006", empty when Date is missing or unparsable
	Excerpt       string
	URL           string

	Category    Category
	SourcePath  string
	PublishedAt time.Time // zero when FormattedDate is empty
	Fingerprint string
}

// HasDate reports whether the record carries a parseable date.
func (r Record) HasDate() bool { return !r.PublishedAt.IsZero() }
