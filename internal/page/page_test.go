package page

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/content"
)

type stubSource map[string]string

func (s stubSource) Load(name string) (string, error) {
	if body, ok := s[name]; ok {
		return body, nil
	}
	return "", errMissing
}

var errMissing = errors.New("missing")

func post(title, date string) content.Record {
	slug := content.Slugify(title)
	rec := content.Record{
		Title:    title,
		Date:     date,
		Slug:     slug,
		URL:      content.Posts.URLFor(slug),
		Excerpt:  "About " + title,
		Category: content.Posts,
	}
	if t, ok := content.ParseDate(date); ok {
		rec.PublishedAt = t
		rec.FormattedDate = t.Format(content.DisplayDateLayout)
	}
	return rec
}

func TestRenderPage(t *testing.T) {
	src := stubSource{"header.html": `<link href="{{ site.base_path }}/assets/css/style.css">`}
	a := NewAssembler(src, DefaultOptions())

	rec := post("Hello World", "2024-01-15")
	rec.Body = "<p>Hi</p>"
	tpl := `{{ include: header.html }}<h1>{{ page.title }}</h1><time>{{ page.date }}</time>{{ if page.author }}<span>{{ page.author }}</span>{{ endif }}<p>{{ page.author }}</p>{{ main_content }}`

	out := a.RenderPage(rec, tpl, 2)
	require.Equal(t, `<link href="../../assets/css/style.css"><h1>Hello World</h1><time>January 15, 2024</time><p>Your Name</p><p>Hi</p>`, out)

	rec.Author = "Ada"
	out = a.RenderPage(rec, tpl, 2)
	require.Contains(t, out, "<span>Ada</span><p>Ada</p>")
}

func TestRenderPage_NoTagsRoundTrip(t *testing.T) {
	a := NewAssembler(stubSource{}, DefaultOptions())
	tpl := "<html><body><p>static</p></body></html>"
	require.Equal(t, tpl, a.RenderPage(post("X", "2024-01-01"), tpl, 1))
}

func TestRenderPage_SiteRevision(t *testing.T) {
	opts := DefaultOptions()
	opts.Site.Revision = "abc1234"
	a := NewAssembler(stubSource{}, opts)
	require.Equal(t, "abc1234|YourName.dev|.", a.RenderPage(post("X", ""), "{{ site.revision }}|{{ site.name }}|{{ site.base_path }}", 0))
}

func TestRenderHome(t *testing.T) {
	a := NewAssembler(stubSource{"nav.html": `<a href="{{ site.base_path }}/blog/">Blog</a>`}, DefaultOptions())
	out := a.RenderHome(`<title>{{ page.title }}</title>{{ include: nav.html }}{{ if page.description }}<meta content="{{ page.description }}">{{ endif }}`)
	require.Equal(t, `<title>Home</title><a href="./blog/">Blog</a><meta content="Freelance Developer Portfolio">`, out)
}

const listingTemplate = `<h1>{{ page.title }}</h1><div>{{ foreach posts }}<p>ignored</p>{{ endforeach }}</div>{{ if no_posts }}<p>placeholder</p>{{ endif }}`

func TestRenderListingIndex_Empty(t *testing.T) {
	a := NewAssembler(stubSource{}, DefaultOptions())
	out := a.RenderListingIndex(nil, listingTemplate, 1)

	require.Contains(t, out, "No blog posts yet. Check back soon!")
	require.NotContains(t, out, "<article")
	require.NotContains(t, out, "placeholder")
	require.Contains(t, out, "<h1>Blog</h1>")
}

func TestRenderListingIndex_SortedNewestFirst(t *testing.T) {
	a := NewAssembler(stubSource{}, DefaultOptions())
	older := post("Older Post", "2024-01-01")
	newer := post("Newer Post", "2024-06-01")

	out := a.RenderListingIndex([]content.Record{older, newer}, listingTemplate, 1)

	require.NotContains(t, out, "No blog posts yet")
	require.NotContains(t, out, "ignored")
	require.Equal(t, 2, strings.Count(out, "<article"))
	iNew := strings.Index(out, "Newer Post")
	iOld := strings.Index(out, "Older Post")
	require.Positive(t, iNew)
	require.Less(t, iNew, iOld)
	require.Contains(t, out, `href="../blog/newer-post"`)
	require.Contains(t, out, `datetime="2024-06-01"`)
	require.Contains(t, out, "June 1, 2024")
}

func TestSortByDateDesc_UndatedLast(t *testing.T) {
	undatedA := post("Undated A", "")
	undatedB := post("Undated B", "garbage")
	mid := post("Mid", "2024-03-01")
	late := post("Late", "2024-09-01T12:00:00Z")

	in := []content.Record{undatedA, mid, undatedB, late}
	got := SortByDateDesc(in)

	titles := make([]string, 0, len(got))
	for _, r := range got {
		titles = append(titles, r.Title)
	}
	require.Equal(t, []string{"Late", "Mid", "Undated A", "Undated B"}, titles)
	require.Equal(t, "Undated A", in[0].Title, "input must not be reordered")
}

func TestCard(t *testing.T) {
	rec := post("Card Title", "2024-02-02")
	rec.PublishedAt = time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	out := Card(rec, "..")
	require.Contains(t, out, `<a href="../blog/card-title"`)
	require.Contains(t, out, "About Card Title")
	require.Contains(t, out, "February 2, 2024")
}

func TestNewAssembler_FillsDefaults(t *testing.T) {
	a := NewAssembler(stubSource{}, Options{Site: Site{Name: "Mine"}})
	out := a.RenderPage(content.Record{Title: "T"}, "{{ site.name }}|{{ site.url }}|{{ page.author }}", 0)
	require.Equal(t, "Mine|https://yourname.dev|Your Name", out)
}
