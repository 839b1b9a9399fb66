package site

import (
	"context"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/page"
	"git.home.luguber.info/inful/sitegen/internal/tmpl"
)

// templateNames lists every configured template once, reserved page
// templates included, so a missing file fails the build before any output is
// written.
func templateNames(bs *BuildState) []string {
	t := bs.Config.Templates
	names := []string{t.Post, t.Page, t.Listing, t.Home}
	for _, name := range t.Pages {
		if name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func stageLoadTemplates(_ context.Context, bs *BuildState) error {
	bs.Store = tmpl.NewStore(bs.Config.Paths.Templates)
	loaded, err := bs.Store.LoadAll(templateNames(bs)...)
	if err != nil {
		return newFatalStageError(StageLoadTemplates, err)
	}
	bs.Templates = loaded

	cfg := bs.Config
	bs.Assembler = page.NewAssembler(bs.Store, page.Options{
		Site: page.Site{
			Name:     cfg.Site.Name,
			URL:      cfg.Site.URL,
			Owner:    cfg.Site.Owner,
			Revision: bs.Report.Revision,
		},
		Listing: page.Listing{
			Title:        cfg.Listing.Title,
			Description:  cfg.Listing.Description,
			EmptyMessage: cfg.Listing.EmptyMessage,
		},
		Home:   page.Home{Title: cfg.Home.Title, Description: cfg.Home.Description},
		Logger: bs.logger(),
	})
	bs.logger().Info("Read templates", logfields.Count(len(loaded)), logfields.Path(bs.Config.Paths.Templates))
	return nil
}

func stageLoadContent(ctx context.Context, bs *BuildState) error {
	repo := bs.Builder.content
	root := bs.Config.Paths.Content

	posts, err := repo.Load(ctx, filepath.Join(root, string(content.Posts)), content.Posts)
	if err != nil {
		return newFatalStageError(StageLoadContent, err)
	}
	pages, err := repo.Load(ctx, filepath.Join(root, string(content.Pages)), content.Pages)
	if err != nil {
		return newFatalStageError(StageLoadContent, err)
	}
	bs.Posts, bs.Pages = posts, pages
	bs.Report.Posts, bs.Report.Pages = len(posts), len(pages)
	bs.logger().Info("Processed content", logfields.Category(string(content.Posts)), logfields.Count(len(posts)))
	bs.logger().Info("Processed content", logfields.Category(string(content.Pages)), logfields.Count(len(pages)))
	return nil
}
