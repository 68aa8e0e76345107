package app

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/byte-cook/opt/internal/output"
)

var (
	updateFlagDelete bool
	updateFlagKeep   bool
)

var updateCmd = &cobra.Command{
	Use:   "update NAME FILE...",
	Short: "Update an existing installation in place",
	Long: `Update unpacks new archives into the install directory of an already
registered application. The recorded path and desktop entries are kept,
so an update never changes what is exposed on the search path.

By default you are asked whether the existing directory contents should
be deleted before unpacking. --delete and --keep answer that question up
front; they cannot be combined.

Examples:
  # Replace the contents with the new archive
  opt update node-22.1.0 node-v22.1.1-linux-x64.tar.xz --delete

  # Merge the archive over the existing contents (keeps local files)
  opt update myapp-1.0 patch.tar.gz --keep`,
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completeFirstName,
	RunE:              runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateFlagDelete, "delete", false, "delete the existing directory contents before unpacking")
	updateCmd.Flags().BoolVar(&updateFlagKeep, "keep", false, "keep the existing directory contents and unpack over them")

	RootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if updateFlagDelete && updateFlagKeep {
		return fmt.Errorf("cannot combine --delete with --keep: use one or the other")
	}

	name, files := args[0], args[1:]

	in, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	keep := updateFlagKeep
	if !updateFlagDelete && !updateFlagKeep {
		keep = !confirm(fmt.Sprintf("Delete the existing contents of %s before unpacking?", cfg.InstallDir(name)))
	}

	spinner := output.NewSpinner("Updating " + name)
	spinner.Start()
	rec, err := in.Update(cmd.Context(), name, files, keep)
	spinner.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated %s (%s)\n", rec.Name, humanize.Bytes(uint64(rec.SizeBytes)))
	return nil
}
