package app

import (
	"github.com/spf13/cobra"
)

var autocompleteCmd = &cobra.Command{
	Use:   "autocomplete [bash|zsh|fish]",
	Short: "Generate a shell completion script",
	Long: `Autocomplete prints a completion script for the given shell. The script
completes subcommands, flags and registered names.

To load completions in every session:

  Bash:
    opt autocomplete bash > /etc/bash_completion.d/opt

  Zsh:
    opt autocomplete zsh > "${fpath[1]}/_opt"

  Fish:
    opt autocomplete fish > ~/.config/fish/completions/opt.fish`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runAutocomplete,
}

func init() {
	RootCmd.AddCommand(autocompleteCmd)
}

func runAutocomplete(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	switch args[0] {
	case "bash":
		return RootCmd.GenBashCompletionV2(out, true)
	case "zsh":
		return RootCmd.GenZshCompletion(out)
	case "fish":
		return RootCmd.GenFishCompletion(out, true)
	}
	return nil
}
