package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var desktopCmd = &cobra.Command{
	Use:   "desktop NAME DESKTOP_FILE [ICON_FILE]",
	Short: "Install a desktop launcher for an installation",
	Long: `Desktop installs a .desktop launcher (and optionally an icon) into the
user's applications directory and records the created files on the
application, so removal deletes exactly what was created.

NAME may be an alias; the entries are attributed to the target install.

Examples:
  opt desktop myapp-1.0 myapp.desktop
  opt desktop myapp-1.0 myapp.desktop myapp.png`,
	Args:              cobra.RangeArgs(2, 3),
	ValidArgsFunction: completeFirstName,
	RunE:              runDesktop,
}

func init() {
	RootCmd.AddCommand(desktopCmd)
}

func runDesktop(cmd *cobra.Command, args []string) error {
	name, desktopFile := args[0], args[1]
	iconFile := ""
	if len(args) == 3 {
		iconFile = args[2]
	}

	in, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	created, err := in.RegisterDesktop(cmd.Context(), name, desktopFile, iconFile)
	if err != nil {
		return err
	}

	for _, p := range created {
		fmt.Printf("✓ %s\n", p)
	}
	return nil
}
