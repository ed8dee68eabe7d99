package cli

import (
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

// completionGenerators writes the completion script for each shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

Completion covers subcommands, flags and the --format values.`,
		Example: `  source <(orgchart completion bash)
  orgchart completion zsh > "${fpath[1]}/_orgchart"
  orgchart completion fish > ~/.config/fish/completions/orgchart.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             slices.Sorted(maps.Keys(completionGenerators)),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeFormats offers the render formats for --format.
func completeFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"html", "json", "txt", "dot", "svg", "png"}, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
