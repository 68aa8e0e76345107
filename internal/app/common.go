package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byte-cook/opt/internal/installer"
	"github.com/byte-cook/opt/internal/store"
)

// stdin is swapped out by tests that drive confirmation prompts.
var stdin io.Reader = os.Stdin

// openInstaller opens the registry database and builds the installer on top
// of it. The caller must Close the returned store.
func openInstaller() (*installer.Installer, *store.Store, error) {
	if err := cfg.EnsureRegistryDir(); err != nil {
		return nil, nil, err
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open registry: %w", err)
	}
	return installer.New(cfg, st), st, nil
}

// confirm prompts for a yes/no answer and returns true on yes. The global
// --yes flag answers every prompt affirmatively.
func confirm(prompt string) bool {
	if yesFlag {
		return true
	}

	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// completeNames offers registered names for shell completion of a NAME
// argument.
func completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cfg == nil {
		if err := ensureConfig(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	_, st, err := openInstaller()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer st.Close()

	records, err := st.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, rec := range records {
		if strings.HasPrefix(rec.Name, toComplete) {
			names = append(names, rec.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeFirstName completes only the NAME position and falls back to file
// completion for the remaining arguments.
func completeFirstName(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeNames(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveDefault
}
