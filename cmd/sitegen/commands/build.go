package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// TriggerCLI is the trigger recorded for builds started from the command line.
const TriggerCLI = "cli"

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output   string `short:"o" help:"Override paths.output" type:"path"`
	NoVerify bool   `name:"no-verify" help:"Skip link verification"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()
	return b.run(ctx, root.Config, os.Stdout)
}

func (b *BuildCmd) run(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Paths.Output = b.Output
	}
	if b.NoVerify {
		off := false
		cfg.Build.VerifyLinks = &off
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	builder, cleanup, err := newBuilder(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := builder.Build(ctx, TriggerCLI)
	if err != nil {
		return err
	}
	for _, bl := range report.BrokenLinks {
		_, _ = fmt.Fprintf(out, "broken link: %s -> %s\n", bl.Page, bl.URL)
	}
	_, _ = fmt.Fprintf(out, "Built %d pages into %s (%s)\n", report.TotalPages(), cfg.Paths.Output, report.Summary())
	return nil
}
