package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathFlagLinkName string

var pathCmd = &cobra.Command{
	Use:   "path NAME FILE...",
	Short: "Expose executables on the search path",
	Long: `Path puts the given executables of an installed application on the
search path. Each executable's directory is added to the managed shell
fragment and recorded on the application, so removal undoes it.

With --link-name a single executable is exposed through a symlink in the
managed bin directory instead, which lets the command carry a different
name than the file.

NAME may be an alias; the entries are attributed to the target install.

Examples:
  # Expose everything in the tool's bin directory
  opt path myapp-1.0 /opt/myapp-1.0/bin/myapp

  # Expose one executable under a shorter name
  opt path node-22.1.0 /opt/node-22.1.0/bin/node --link-name node22`,
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completeFirstName,
	RunE:              runPath,
}

func init() {
	pathCmd.Flags().StringVar(&pathFlagLinkName, "link-name", "", "expose a single executable through a symlink with this name")

	RootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) error {
	name, files := args[0], args[1:]

	in, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	added, err := in.RegisterPath(cmd.Context(), name, files, pathFlagLinkName)
	if err != nil {
		return err
	}

	for _, entry := range added {
		fmt.Printf("✓ %s\n", entry)
	}
	fmt.Printf("Source %s from your shell startup to pick up the entries.\n", cfg.Fragment)
	return nil
}
