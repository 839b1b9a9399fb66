package site

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// scaffoldDirs are created in the output directory after it is emptied.
var scaffoldDirs = []string{"blog", filepath.Join("assets", "css")}

func stageClean(_ context.Context, bs *BuildState) error {
	out := bs.Config.Paths.Output
	if err := emptyDir(out); err != nil {
		return newFatalStageError(StageClean, errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
			Fatal().
			WithContext("path", out).
			Build())
	}
	for _, d := range scaffoldDirs {
		if err := os.MkdirAll(filepath.Join(out, d), 0o750); err != nil {
			return newFatalStageError(StageClean, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
				Fatal().
				WithContext("path", d).
				Build())
		}
	}
	bs.logger().Info("Cleaned output directory", logfields.Path(out))
	return nil
}
