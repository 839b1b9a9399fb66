package content

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// ExcerptLength is the maximum number of characters taken from the body
	// for a generated excerpt.
	ExcerptLength = 150
	// DisplayDateLayout formats dates for display.
	DisplayDateLayout = "January 2, 2006"
)

var (
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)
	htmlTag    = regexp.MustCompile(`<[^>]*>`)

	dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}
)

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single '-' and trims leading and trailing '-'.
func Slugify(s string) string {
	return strings.Trim(nonSlugRun.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Excerpt strips HTML tags from body, turns newlines into spaces and
// truncates to ExcerptLength characters followed by "..." when longer.
func Excerpt(body string) string {
	text := strings.ReplaceAll(htmlTag.ReplaceAllString(body, ""), "\n", " ")
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	return string([]rune(text)[:ExcerptLength]) + "..."
}

// ParseDate parses a front-matter date in any of the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw as "January 2, 2006". It returns "" when raw is
// missing or unparsable.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// TitleFromFilename derives a display title from a content file name:
// "my-first_post.md" becomes "My First Post".
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(strings.Join(strings.Fields(base), " "))
}
