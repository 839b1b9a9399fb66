package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(os.Stdout, root.Config, i.Force)
}

// RunInit writes the example configuration to configPath.
func RunInit(out io.Writer, configPath string, force bool) error {
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.WriteExample(configPath, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
