package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:   "alias NAME TARGET",
	Short: "Bind a version-independent name to an installation",
	Long: `Alias binds NAME to an installed application, so scripts and shell
habits can use a stable name while versioned installs come and go.
Running alias again with the same NAME retargets the binding.

Aliases are flat: the target must be an installed application, never
another alias. Side effects registered through an alias (opt path,
opt desktop) are attributed to the target install.

Examples:
  opt alias node node-22.1.0

  # Later, switch to the new version
  opt alias node node-22.2.0`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeNames,
	RunE:              runAlias,
}

func init() {
	RootCmd.AddCommand(aliasCmd)
}

func runAlias(cmd *cobra.Command, args []string) error {
	name, target := args[0], args[1]

	in, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := in.Alias(cmd.Context(), name, target); err != nil {
		return err
	}

	fmt.Printf("✓ %s -> %s\n", name, target)
	return nil
}
