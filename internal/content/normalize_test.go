package content

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

var slugShape = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":              "hello-world",
		"  Leading and trailing  ": "leading-and-trailing",
		"C++ & Go: a comparison!":  "c-go-a-comparison",
		"already-a-slug":           "already-a-slug",
		"Café au lait":             "caf-au-lait",
		"---":                      "",
		"2024 Review":              "2024-review",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugifyShape(t *testing.T) {
	inputs := []string{"", "A", "--a--b--", "Ünïcödé Títle", "x_y.z", "tabs\tand\nnewlines", "MiXeD 123 cAsE", "!!!"}
	for _, in := range inputs {
		got := Slugify(in)
		require.Regexp(t, slugShape, got, in)
	}
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "short text here", Excerpt("short <b>text</b>\nhere"))

	long := strings.Repeat("abcdefghij", 20)
	got := Excerpt(long)
	require.Equal(t, long[:ExcerptLength]+"...", got)
	require.LessOrEqual(t, utf8.RuneCountInString(got), ExcerptLength+3)

	exact := strings.Repeat("x", ExcerptLength)
	require.Equal(t, exact, Excerpt(exact))
}

func TestExcerptCountsRunes(t *testing.T) {
	got := Excerpt(strings.Repeat("é", 200))
	require.Equal(t, ExcerptLength+3, utf8.RuneCountInString(got))
	require.True(t, utf8.ValidString(got))
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "January 15, 2024", FormatDate("2024-01-15"))
	require.Equal(t, "June 1, 2024", FormatDate("2024-06-01T10:00:00Z"))
	require.Equal(t, "March 3, 2023", FormatDate("2023-03-03 08:30:00"))
	require.Empty(t, FormatDate(""))
	require.Empty(t, FormatDate("not a date"))
}

func TestTitleFromFilename(t *testing.T) {
	require.Equal(t, "My First Post", TitleFromFilename("/content/posts/my-first_post.md"))
	require.Equal(t, "About", TitleFromFilename("about.markdown"))
}

func TestCategoryURLFor(t *testing.T) {
	require.Equal(t, "/blog/hello", Posts.URLFor("hello"))
	require.Equal(t, "/about", Pages.URLFor("about"))
}
