package site

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/history"
)

// emptyDir removes everything inside dir, creating dir when missing.
func emptyDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// writePage atomically writes html to rel below the output directory and
// records it in the report.
func (bs *BuildState) writePage(rel, html string, p history.Page) error {
	full := filepath.Join(bs.Config.Paths.Output, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return writeErr(err, full)
	}
	if err := atomic.WriteFile(full, strings.NewReader(html)); err != nil {
		return writeErr(err, full)
	}
	p.Path = rel
	bs.Report.Emitted = append(bs.Report.Emitted, p)
	return nil
}

func writeErr(err error, path string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output file").
		Fatal().
		WithContext("file", path).
		Build()
}
