package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/gitinfo"
	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/notify"
)

const (
	headerTpl  = `<head><link rel="stylesheet" href="{{ site.base_path }}/assets/css/style.css"></head><nav><a href="{{ site.base_path }}/blog/">Blog</a><a href="{{ site.base_path }}/about/">About</a></nav>`
	mainTpl    = `{{ include: header.html }}<h1>{{ page.title }}</h1>{{ if page.author }}<p class="by">{{ page.author }}</p>{{ endif }}<time>{{ page.date }}</time><article>{{ main_content }}</article>`
	aboutTpl   = `{{ include: header.html }}<section class="about">{{ main_content }}</section>`
	listingTpl = `{{ include: header.html }}<h1>{{ page.title }}</h1><div class="posts">{{ foreach posts }}<p>item</p>{{ endforeach }}</div>{{ if no_posts }}<p>none</p>{{ endif }}`
	homeTpl    = `{{ include: header.html }}<h1>{{ page.title }}</h1><p>{{ page.description }}</p><footer>{{ site.name }}</footer>`
)

type fixture struct {
	root string
	cfg  *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default(root)
	cfg.Templates.Pages = map[string]string{"about": "about.html"}

	write := func(rel, body string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	write("template/header.html", headerTpl)
	write("template/main.html", mainTpl)
	write("template/about.html", aboutTpl)
	write("template/blog-index.html", listingTpl)
	write("template/home.html", homeTpl)

	write("content/posts/old.md", "---\ntitle: Old Post\ndate: 2024-01-01\nstatus: published\n---\nOld body.\n")
	write("content/posts/new.md", "---\ntitle: New Post\ndate: 2024-06-01\nstatus: published\nauthor: Ada\n---\nNew body.\n")
	write("content/posts/draft.md", "---\ntitle: Draft Post\ndate: 2024-07-01\nstatus: draft\n---\nSecret.\n")
	write("content/pages/about.md", "---\ntitle: About\nstatus: published\n---\nAbout me.\n")
	write("content/pages/uses.md", "---\ntitle: Uses\nstatus: published\n---\nTools.\n")

	return &fixture{root: root, cfg: cfg}
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.cfg.Paths.Output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func noRevision(string) (gitinfo.Revision, error) { return gitinfo.Revision{}, gitinfo.ErrNotRepository }

type capturePublisher struct {
	mu     sync.Mutex
	events []notify.BuildCompleted
}

func (c *capturePublisher) PublishBuild(_ context.Context, ev notify.BuildCompleted) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

type countingRecorder struct {
	metrics.NoopRecorder
	pages    map[string]int
	outcomes []metrics.BuildOutcome
}

func (r *countingRecorder) AddPagesRendered(kind string, n int) { r.pages[kind] += n }
func (r *countingRecorder) IncBuildOutcome(o metrics.BuildOutcome) {
	r.outcomes = append(r.outcomes, o)
}

func TestBuild_RendersSite(t *testing.T) {
	f := newFixture(t)
	// A stale file from a previous build must disappear.
	require.NoError(t, os.MkdirAll(f.cfg.Paths.Output, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.Paths.Output, "stale.html"), []byte("x"), 0o600))

	pub := &capturePublisher{}
	rec := &countingRecorder{pages: map[string]int{}}
	b := NewBuilder(f.cfg, WithPublisher(pub), WithRecorder(rec))
	b.revision = func(string) (gitinfo.Revision, error) { return gitinfo.Revision{Commit: "0123456789abcdef"}, nil }

	report, err := b.Build(context.Background(), "cli")
	require.NoError(t, err)

	require.Equal(t, 2, report.Posts)
	require.Equal(t, 2, report.Pages)
	require.Equal(t, 6, report.TotalPages())
	require.Equal(t, "0123456", report.Revision)
	require.NotEmpty(t, report.BuildID)
	require.Len(t, report.Emitted, 6)

	_, err = os.Stat(filepath.Join(f.cfg.Paths.Output, "stale.html"))
	require.True(t, os.IsNotExist(err))
	info, err := os.Stat(filepath.Join(f.cfg.Paths.Output, "assets", "css"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	post := f.read(t, "blog/new-post/index.html")
	require.Contains(t, post, `href="../../assets/css/style.css"`)
	require.Contains(t, post, "<h1>New Post</h1>")
	require.Contains(t, post, `<p class="by">Ada</p>`)
	require.Contains(t, post, "<time>June 1, 2024</time>")
	require.Contains(t, post, "<p>New body.</p>")

	old := f.read(t, "blog/old-post/index.html")
	require.NotContains(t, old, `class="by"`)

	listing := f.read(t, "blog/index.html")
	require.Contains(t, listing, `href="../assets/css/style.css"`)
	require.Less(t, strings.Index(listing, "New Post"), strings.Index(listing, "Old Post"))
	require.Contains(t, listing, `href="../blog/new-post"`)
	require.NotContains(t, listing, "Draft Post")
	require.NotContains(t, listing, "<p>none</p>")
	require.NotContains(t, listing, "No blog posts yet")

	about := f.read(t, "about/index.html")
	require.Contains(t, about, `<section class="about"><p>About me.</p>`)
	uses := f.read(t, "uses/index.html")
	require.Contains(t, uses, "<h1>Uses</h1>")

	home := f.read(t, "index.html")
	require.Contains(t, home, `href="./assets/css/style.css"`)
	require.Contains(t, home, "<h1>Home</h1>")
	require.Contains(t, home, "<footer>YourName.dev</footer>")

	_, err = os.Stat(filepath.Join(f.cfg.Paths.Output, "blog", "draft-post"))
	require.True(t, os.IsNotExist(err))

	require.Empty(t, report.BrokenLinks)
	require.Equal(t, metrics.OutcomeSuccess, report.Outcome)

	require.Len(t, pub.events, 1)
	require.Equal(t, "success", pub.events[0].Outcome)
	require.Equal(t, 6, pub.events[0].TotalPages)
	require.Equal(t, 2, rec.pages[kindPost])
	require.Equal(t, 1, rec.pages[kindHome])
	require.Equal(t, []metrics.BuildOutcome{metrics.OutcomeSuccess}, rec.outcomes)
}

func TestBuild_EmptyListing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(f.root, "content", "posts")))

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	report, err := b.Build(context.Background(), "cli")
	require.NoError(t, err)
	require.Equal(t, 0, report.Posts)

	listing := f.read(t, "blog/index.html")
	require.Contains(t, listing, "No blog posts yet. Check back soon!")
	require.NotContains(t, listing, "<article")
}

func TestBuild_MissingTemplateIsFatal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.root, "template", "home.html")))

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	report, err := b.Build(context.Background(), "cli")
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageLoadTemplates, se.Stage)
	require.Equal(t, StageErrorFatal, se.Kind)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
	require.Equal(t, metrics.OutcomeFailed, report.Outcome)

	// Later stages never ran.
	_, ran := report.StageDurations[StageRenderPosts]
	require.False(t, ran)
}

func TestBuild_DuplicateSlugIsFatal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "content", "posts", "dup.md"),
		[]byte("---\ntitle: Other\nslug: new-post\nstatus: published\n---\n"), 0o600))

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	_, err := b.Build(context.Background(), "cli")

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageLoadContent, se.Stage)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
}

func TestBuild_BrokenLinksAreWarnings(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.root, "content", "pages", "about.md")))

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	report, err := b.Build(context.Background(), "cli")
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeWarning, report.Outcome)
	require.NotEmpty(t, report.BrokenLinks)
	require.Equal(t, StageErrorWarning, report.StageErrorKinds[StageVerifyLinks])
	for _, bl := range report.BrokenLinks {
		require.Contains(t, bl.URL, "about")
	}
}

func TestBuild_VerifyLinksDisabled(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.root, "content", "pages", "about.md")))
	off := false
	f.cfg.Build.VerifyLinks = &off

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	report, err := b.Build(context.Background(), "cli")
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeSuccess, report.Outcome)
	_, ran := report.StageDurations[StageVerifyLinks]
	require.False(t, ran)
}

func TestBuild_CanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	report, err := b.Build(ctx, "cli")

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageErrorCanceled, se.Kind)
	require.Equal(t, StageClean, se.Stage)
	require.Equal(t, metrics.OutcomeCanceled, report.Outcome)
}

func TestBuild_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	b := NewBuilder(f.cfg, WithHistory(store))
	b.revision = noRevision
	report, err := b.Build(context.Background(), "fs")
	require.NoError(t, err)

	builds, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	require.Equal(t, report.BuildID, builds[0].ID)
	require.Equal(t, "fs", builds[0].Trigger)
	require.Equal(t, 2, builds[0].Posts)

	pages, err := store.Pages(context.Background(), report.BuildID)
	require.NoError(t, err)
	require.Len(t, pages, 6)
	for _, p := range pages {
		if p.Kind == kindPost {
			require.NotEmpty(t, p.Fingerprint)
		}
	}
}

func TestRunStages_WarningContinuesFatalStops(t *testing.T) {
	f := newFixture(t)
	b := NewBuilder(f.cfg)
	bs := &BuildState{Builder: b, Config: f.cfg, Report: newReport("id", "test")}

	var ran []StageName
	mk := func(name StageName, err error) StageDef {
		return StageDef{name, func(context.Context, *BuildState) error {
			ran = append(ran, name)
			return err
		}}
	}
	err := runStages(context.Background(), bs, []StageDef{
		mk("a", nil),
		mk("b", newWarnStageError("b", errors.New("meh"))),
		mk("c", errors.New("plain error")),
		mk("d", nil),
	})
	require.Error(t, err)
	require.Equal(t, []StageName{"a", "b", "c"}, ran)
	require.Len(t, bs.Report.Warnings, 1)
	require.Len(t, bs.Report.Errors, 1)
	require.Equal(t, StageErrorFatal, bs.Report.StageErrorKinds["c"])
	require.GreaterOrEqual(t, bs.Report.StageDurations["a"], time.Duration(0))
}

func TestBuild_MissingReservedTemplateFailsBeforeRendering(t *testing.T) {
	f := newFixture(t)
	// No contact page exists; its template is still required.
	f.cfg.Templates.Pages = map[string]string{"about": "about.html", "contact": "contact.html"}

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	report, err := b.Build(context.Background(), "cli")

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageLoadTemplates, se.Stage)
	require.Equal(t, StageErrorFatal, se.Kind)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))

	_, ran := report.StageDurations[StageRenderPosts]
	require.False(t, ran)
	require.NoFileExists(t, filepath.Join(f.cfg.Paths.Output, "blog", "new-post", "index.html"))
	require.Empty(t, report.Emitted)
}

func TestBuild_ReservedTemplateUsedForPage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "template", "contact.html"), []byte(`<form>{{ main_content }}</form>`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "content", "pages", "contact.md"),
		[]byte("---\ntitle: Contact\nstatus: published\n---\nMail me.\n"), 0o600))
	f.cfg.Templates.Pages = map[string]string{"about": "about.html", "contact": "contact.html"}

	b := NewBuilder(f.cfg)
	b.revision = noRevision
	_, err := b.Build(context.Background(), "cli")
	require.NoError(t, err)
	require.Equal(t, "<form><p>Mail me.</p>\n</form>", f.read(t, "contact/index.html"))
}
