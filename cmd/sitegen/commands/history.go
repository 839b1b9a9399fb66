package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of builds to list" default:"10"`
	Pages string `help:"List the pages emitted by this build id instead"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	return h.run(context.Background(), root.Config, os.Stdout)
}

func (h *HistoryCmd) run(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Build.HistoryDB == "" {
		return errors.ConfigError("build history is disabled; set build.history_db").
			WithContext("file", configPath).
			Build()
	}
	store, err := history.NewSQLiteStore(cfg.Build.HistoryDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	if h.Pages != "" {
		pages, err := store.Pages(ctx, h.Pages)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(tw, "PATH\tKIND\tSLUG\tFINGERPRINT")
		for _, p := range pages {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Path, p.Kind, p.Slug, p.Fingerprint)
		}
		return nil
	}

	builds, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tOUTCOME\tTRIGGER\tREVISION\tPOSTS\tPAGES\tWARNINGS")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			b.ID, b.StartedAt.Local().Format(time.DateTime), b.Duration.Truncate(time.Millisecond),
			b.Outcome, b.Trigger, b.Revision, b.Posts, b.Pages, b.Warnings)
	}
	return nil
}
