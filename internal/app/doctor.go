package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byte-cook/opt/internal/installer"
	"github.com/byte-cook/opt/internal/output"
)

var doctorFlagWatch bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check registry and filesystem for divergence",
	Long: `Doctor reconciles the registry against the install root and reports
every divergence: directories without a record (typically left behind by
an interrupted install or manual unpacking), records whose directory is
gone, and aliases whose target is no longer installed.

Nothing is repaired automatically; each finding names the command that
cleans it up.

With --watch, doctor keeps running and re-checks whenever something
under the install root changes.

Examples:
  opt doctor
  opt doctor --watch`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFlagWatch, "watch", false, "keep running and re-check on filesystem changes")

	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	in, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	if doctorFlagWatch {
		fmt.Printf("Watching %s for changes (Ctrl-C to stop)\n\n", cfg.Root)
		err := in.Watch(cmd.Context(), func(findings []installer.Finding) {
			fmt.Print(output.RenderFindings(findings))
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	findings, err := in.Doctor()
	if err != nil {
		return err
	}
	fmt.Print(output.RenderFindings(findings))
	return nil
}
