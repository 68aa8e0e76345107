package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byte-cook/opt/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list [NAME]",
	Short: "List registered installations and aliases",
	Long: `List prints every registered installation and alias. With a NAME it
shows the full state of that entry instead: directory, size, recorded
path and desktop entries, and the aliases pointing at it.

Examples:
  opt list
  opt list node-22.1.0`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeNames,
	RunE:              runList,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	_, st, err := openInstaller()
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 0 {
		records, err := st.List()
		if err != nil {
			return err
		}
		fmt.Print(output.RenderRecordTable(records))
		return nil
	}

	rec, err := st.Get(args[0])
	if err != nil {
		return err
	}
	var aliases []string
	if rec.IsInstalled() {
		if aliases, err = st.Aliases(rec.Name); err != nil {
			return err
		}
	}
	fmt.Print(output.RenderRecordDetail(rec, aliases))
	return nil
}
