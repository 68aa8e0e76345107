package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byte-cook/opt/internal/config"
	"github.com/byte-cook/opt/internal/logger"
)

var (
	rootFlag    string
	yesFlag     bool
	verboseFlag bool

	// cfg is resolved once per invocation before any subcommand runs.
	cfg *config.Config

	// RootCmd is the root command for opt
	RootCmd = &cobra.Command{
		Use:   "opt",
		Short: "Install and manage software under " + config.DefaultRoot,
		Long: `opt installs software archives into versioned directories under ` + config.DefaultRoot + `
and keeps track of everything it changed: each install gets its own
directory, its search-path entries live in a single managed shell
fragment, and desktop launchers are recorded so removal deletes exactly
what installation created.

Aliases give a version-independent name to an install, so scripts can
call 'app' while 'app-1.0' and 'app-2.0' coexist side by side.

Quick Start:
  1. opt install myapp-1.0 myapp-1.0.tar.gz
  2. source the fragment printed by the install (once per shell setup)
  3. opt alias myapp myapp-1.0

Examples:
  # List everything opt manages
  opt list

  # Put an executable on the search path under a different name
  opt path myapp-1.0 /opt/myapp-1.0/bin/myapp --link-name myapp

  # Install a desktop launcher
  opt desktop myapp-1.0 myapp.desktop myapp.png

  # Switch the alias to a new version
  opt install myapp-2.0 myapp-2.0.tar.gz
  opt alias myapp myapp-2.0

  # Check registry and filesystem for divergence
  opt doctor`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(verboseFlag)
			return ensureConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("opt: versioned installs under", cfg.Root)
			fmt.Println()
			fmt.Println("Tip: Run 'opt list' to see what is installed.")
			fmt.Println("     Run 'opt doctor' to check registry consistency.")
			fmt.Println("     Run 'opt --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "install root (default: $OPT_ROOT or "+config.DefaultRoot+")")
	RootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "assume yes for all prompts")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug output")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// ensureConfig resolves the directory layout, honoring the --root override.
func ensureConfig() error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if rootFlag != "" {
		c.OverrideRoot(rootFlag)
	}
	cfg = c
	return nil
}

// Execute runs the root command under the given context.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}
