package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byte-cook/opt/internal/installer"
	"github.com/byte-cook/opt/internal/output"
)

var (
	removeFlagForce       bool
	removeFlagPathOnly    bool
	removeFlagDesktopOnly bool
)

var removeCmd = &cobra.Command{
	Use:   "remove NAME...",
	Short: "Remove installations, aliases or their side effects",
	Long: `Remove undoes everything attributed to a name: its search path entries,
its desktop launchers, its install directory and finally its registry
record. Removing an alias removes only the binding, never the target.

Removal is best-effort: a failing step is reported and the remaining
steps still run, so a half-broken install can always be cleaned up.

An installed application that aliases still point at is not removed
unless --force is given, which leaves the aliases dangling.
--force also removes a directory under the install root that has no
registry record at all.

--path-only and --desktop-only restrict removal to one kind of side
effect; the installation itself stays.

Examples:
  # Remove an old version
  opt remove myapp-1.0

  # Remove it even though the 'myapp' alias still points at it
  opt remove myapp-1.0 --force

  # Take an install off the search path but keep it on disk
  opt remove myapp-1.0 --path-only`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeNames,
	RunE:              runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeFlagForce, "force", "f", false, "remove despite remaining aliases or a missing record")
	removeCmd.Flags().BoolVar(&removeFlagPathOnly, "path-only", false, "remove only the attributed search path entries")
	removeCmd.Flags().BoolVar(&removeFlagDesktopOnly, "desktop-only", false, "remove only the attributed desktop entries")

	RootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if removeFlagPathOnly && removeFlagDesktopOnly {
		return fmt.Errorf("cannot combine --path-only with --desktop-only: plain remove covers both")
	}

	opts := installer.RemoveOptions{
		Force:       removeFlagForce,
		PathOnly:    removeFlagPathOnly,
		DesktopOnly: removeFlagDesktopOnly,
	}

	scope := "everything recorded for"
	if removeFlagPathOnly {
		scope = "the search path entries of"
	}
	if removeFlagDesktopOnly {
		scope = "the desktop entries of"
	}
	if !confirm(fmt.Sprintf("Remove %s %s?", scope, strings.Join(args, ", "))) {
		fmt.Println("Removal cancelled.")
		return nil
	}

	in, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	var failures []string
	for _, name := range args {
		report, err := in.Remove(cmd.Context(), name, opts)
		if rendered := output.RenderRemovalReport(report); rendered != "" {
			fmt.Print(rendered)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		fmt.Printf("✓ Removed %s\n", name)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d removal(s) failed:\n  %s", len(failures), strings.Join(failures, "\n  "))
	}
	return nil
}
