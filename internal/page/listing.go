package page

import (
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/relpath"
	"git.home.luguber.info/inful/sitegen/internal/tmpl"
)

const (
	loopCollection = "posts"
	emptyMarker    = "no_posts"
)

// SortByDateDesc returns records ordered newest first. The sort is stable;
// undated records keep their relative order after every dated one.
func SortByDateDesc(records []content.Record) []content.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(x, y content.Record) int {
		switch {
		case x.HasDate() && !y.HasDate():
			return -1
		case !x.HasDate() && y.HasDate():
			return 1
		}
		return y.PublishedAt.Compare(x.PublishedAt)
	})
	return sorted
}

// RenderListingIndex renders the blog index: the shell gets includes and
// variables, the posts loop is replaced with one card per record and the
// empty-state block is resolved.
func (a *Assembler) RenderListingIndex(records []content.Record, template string, depth int) string {
	basePath := relpath.Resolve(depth)
	rc := &tmpl.RenderContext{
		Page: present(map[string]string{
			"title":       a.opts.Listing.Title,
			"description": a.opts.Listing.Description,
		}),
		Site: a.siteFields(depth),
	}

	cards := make([]string, 0, len(records))
	for _, rec := range SortByDateDesc(records) {
		cards = append(cards, Card(rec, basePath))
	}

	return tmpl.Chain{
		a.include(),
		tmpl.Variable{},
		tmpl.Loop{Collection: loopCollection, Rendered: strings.Join(cards, "\n")},
		tmpl.EmptyState{Marker: emptyMarker, Empty: len(records) == 0, Message: a.opts.Listing.EmptyMessage},
	}.Apply(template, rc)
}

// Card renders the listing fragment of one record. Links are relative to
// basePath.
func Card(rec content.Record, basePath string) string {
	href := basePath + rec.URL
	return fmt.Sprintf(`
        <article class="bg-white dark:bg-gray-800 rounded-lg shadow-sm border border-gray-200 dark:border-gray-700 overflow-hidden hover:shadow-lg transition-shadow duration-200">
            <div class="p-6">
                <time class="text-sm text-gray-600 dark:text-gray-400" datetime="%s">
                    %s
                </time>
                <h2 class="text-2xl font-bold mt-2 mb-3">
                    <a href="%s" class="hover:text-blue-600 dark:hover:text-blue-400 transition-colors">
                        %s
                    </a>
                </h2>
                <p class="text-gray-600 dark:text-gray-400 mb-4">
                    %s
                </p>
                <a href="%s" class="inline-flex items-center text-blue-600 dark:text-blue-400 hover:text-blue-700 dark:hover:text-blue-300 font-medium transition-colors">
                    Read more
                    <svg class="w-4 h-4 ml-1" fill="none" stroke="currentColor" viewBox="0 0 24 24">
                        <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M9 5l7 7-7 7"></path>
                    </svg>
                </a>
            </div>
        </article>
    `, rec.Date, rec.FormattedDate, href, rec.Title, rec.Excerpt, href)
}
