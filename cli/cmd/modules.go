package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modgen/modgen/cli/discovery"
	"github.com/modgen/modgen/cli/util"
)

// NewModulesCmd creates a command listing modules of the site.
func NewModulesCmd() *cobra.Command {
	var modulesCmd = &cobra.Command{
		Use:   "modules",
		Short: "List modules installed on the site",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmdCtx.CommandName = cmd.Name()
			err := internalModulesModule(cmd.OutOrStdout())
			util.HandleCmdErr(cmd, err)
		},
	}
	return modulesCmd
}

// internalModulesModule prints discovered modules.
func internalModulesModule(w io.Writer) error {
	modules, err := discovery.NewScanner(cmdCtx.Cli.Root).List()
	if err != nil {
		return err
	}
	for _, module := range modules {
		fmt.Fprintf(w, "%s %s (%s)\n", util.Bold(module.Name), module.Path, module.Label)
	}
	return nil
}
