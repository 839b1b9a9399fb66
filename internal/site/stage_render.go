package site

import (
	"context"
	"path"

	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/relpath"
)

// Page kinds recorded in history and metrics.
const (
	kindPost    = "post"
	kindPage    = "page"
	kindListing = "listing"
	kindHome    = "home"
)

func stageRenderPosts(ctx context.Context, bs *BuildState) error {
	tpl := bs.template(bs.Config.Templates.Post)
	for _, rec := range bs.Posts {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRenderPosts, err)
		}
		rel := path.Join("blog", rec.Slug, "index.html")
		html := bs.Assembler.RenderPage(rec, tpl, relpath.Depth(rel))
		if err := bs.writePage(rel, html, history.Page{Kind: kindPost, Slug: rec.Slug, Fingerprint: rec.Fingerprint}); err != nil {
			return newFatalStageError(StageRenderPosts, err)
		}
		bs.logger().Debug("Rendered post", logfields.Slug(rec.Slug), logfields.Path(rel), logfields.Depth(relpath.Depth(rel)))
	}
	bs.recorder().AddPagesRendered(kindPost, len(bs.Posts))
	bs.logger().Info("Built blog post pages", logfields.Count(len(bs.Posts)))
	return nil
}

func stageRenderListing(_ context.Context, bs *BuildState) error {
	const rel = "blog/index.html"
	html := bs.Assembler.RenderListingIndex(bs.Posts, bs.template(bs.Config.Templates.Listing), relpath.Depth(rel))
	if err := bs.writePage(rel, html, history.Page{Kind: kindListing}); err != nil {
		return newFatalStageError(StageRenderListing, err)
	}
	bs.recorder().AddPagesRendered(kindListing, 1)
	bs.logger().Info("Built blog index page")
	return nil
}

func stageRenderPages(ctx context.Context, bs *BuildState) error {
	for _, rec := range bs.Pages {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRenderPages, err)
		}
		name := bs.Config.Templates.PageTemplate(rec.Slug)
		rel := path.Join(rec.Slug, "index.html")
		html := bs.Assembler.RenderPage(rec, bs.template(name), relpath.Depth(rel))
		if err := bs.writePage(rel, html, history.Page{Kind: kindPage, Slug: rec.Slug, Fingerprint: rec.Fingerprint}); err != nil {
			return newFatalStageError(StageRenderPages, err)
		}
		bs.logger().Debug("Rendered page", logfields.Slug(rec.Slug), logfields.Template(name), logfields.Path(rel))
	}
	bs.recorder().AddPagesRendered(kindPage, len(bs.Pages))
	bs.logger().Info("Built static pages", logfields.Count(len(bs.Pages)))
	return nil
}

func stageRenderHome(_ context.Context, bs *BuildState) error {
	html := bs.Assembler.RenderHome(bs.template(bs.Config.Templates.Home))
	if err := bs.writePage("index.html", html, history.Page{Kind: kindHome}); err != nil {
		return newFatalStageError(StageRenderHome, err)
	}
	bs.recorder().AddPagesRendered(kindHome, 1)
	bs.logger().Info("Built homepage")
	return nil
}
