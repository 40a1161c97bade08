package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modgen/modgen/cli/discovery"
	"github.com/modgen/modgen/cli/util"
)

const (
	shellBash = "bash"
	shellZsh  = "zsh"
	shellFish = "fish"
)

var shellSupported = []string{shellBash, shellZsh, shellFish}

func listShells() string {
	return strings.Join(shellSupported, " | ")
}

// NewCompletionCmd creates a new completion command.
func NewCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "completion <SHELL_TYPE>",
		Short: "Generate autocomplete for a specified shell. " +
			fmt.Sprintf("Supported shell type: %s", listShells()),
		ValidArgs: shellSupported,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			err := internalCompletionCmd(cmd.Root(), cmd.OutOrStdout(), args[0])
			util.HandleCmdErr(cmd, err)
		},
		Example: `
# Enable auto-completion in current bash shell.

    $ . <(modgen completion bash)`,
	}

	return cmd
}

// internalCompletionCmd writes the completion script of the shell.
func internalCompletionCmd(root *cobra.Command, w io.Writer, shell string) error {
	switch shell {
	case shellBash:
		return root.GenBashCompletionV2(w, true)
	case shellZsh:
		return root.GenZshCompletion(w)
	case shellFish:
		return root.GenFishCompletion(w, true)
	}
	return util.NewArgError(fmt.Sprintf("unsupported shell type %q", shell))
}

// completeModules returns module names of the site for autocomplete.
func completeModules(cmd *cobra.Command, args []string,
	toComplete string,
) ([]string, cobra.ShellCompDirective) {
	modules, err := discovery.NewScanner(cmdCtx.Cli.Root).List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(modules))
	for _, module := range modules {
		if strings.HasPrefix(module.Name, toComplete) {
			names = append(names, fmt.Sprintf("%s\t%s", module.Name, module.Label))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
