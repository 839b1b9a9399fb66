package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/cmd/sitegen/commands"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("sitegen"),
		kong.Description("Static site generator for Markdown posts and pages."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		commands.Vars(),
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
