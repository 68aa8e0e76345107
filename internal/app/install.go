package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/byte-cook/opt/internal/installer"
	"github.com/byte-cook/opt/internal/output"
	"github.com/byte-cook/opt/internal/store"
)

var installFlagNoPath bool

var installCmd = &cobra.Command{
	Use:   "install NAME FILE...",
	Short: "Install archives into a versioned directory",
	Long: `Install unpacks the given archives (or copies plain files) into the
versioned directory <root>/NAME and registers the install in the registry.

Supported archive formats: .tar, .tar.gz, .tgz, .tar.bz2, .tar.xz, .txz,
.zip and .7z. Files that are not archives are copied as-is.

By convention NAME carries the version, e.g. 'node-22.1.0', so multiple
versions can be installed side by side. Use 'opt alias' to give the
current version a stable name.

Unless --no-path is given, a fresh install registers its bin/ directory
(or the install directory itself) in the managed shell fragment.
Installing over an existing name replaces the directory contents but
keeps the recorded path and desktop entries.

Examples:
  # Install an archive and expose its bin/ directory
  opt install node-22.1.0 node-v22.1.0-linux-x64.tar.xz

  # Install without touching the search path
  opt install docs-1.0 docs.tar.gz --no-path

  # Copy a single binary release
  opt install shellcheck-0.10 shellcheck`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installFlagNoPath, "no-path", false, "do not register a search path entry")

	RootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	name, files := args[0], args[1:]

	in, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	// Replacing an existing install is destructive for its directory
	// contents, so ask first.
	if existing, err := st.Get(name); err == nil && existing.IsInstalled() {
		if !confirm(fmt.Sprintf("Replace the existing installation in %s?", existing.InstallDir)) {
			fmt.Println("Install cancelled.")
			return nil
		}
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	spinner := output.NewSpinner("Installing " + name)
	spinner.Start()
	rec, err := in.Install(cmd.Context(), name, files, installer.InstallOptions{NoPath: installFlagNoPath})
	spinner.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("✓ Installed %s (%s) into %s\n", rec.Name, humanize.Bytes(uint64(rec.SizeBytes)), rec.InstallDir)
	if len(rec.PathEntries) > 0 {
		fmt.Printf("  PATH entries: %s\n", strings.Join(rec.PathEntries, ", "))
		fmt.Printf("  Source %s from your shell startup to pick them up.\n", cfg.Fragment)
	}
	return nil
}
