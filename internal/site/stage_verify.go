package site

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/linkverify"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

func stageVerifyLinks(ctx context.Context, bs *BuildState) error {
	checker := linkverify.Checker{IgnorePrefixes: bs.Config.Build.ExternalPrefixes}
	broken, err := checker.Check(ctx, bs.Config.Paths.Output)
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageVerifyLinks, err)
		}
		return newWarnStageError(StageVerifyLinks, err)
	}
	bs.Report.BrokenLinks = broken
	if len(broken) == 0 {
		return nil
	}
	for _, b := range broken {
		bs.logger().Warn("Broken link", logfields.File(b.Page), slog.String("url", b.URL), slog.String("tag", b.Tag))
	}
	return newWarnStageError(StageVerifyLinks, fmt.Errorf("%d broken relative links", len(broken)))
}
