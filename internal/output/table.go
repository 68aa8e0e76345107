// Package output renders registry state for the terminal.
//
// Tables use plain ASCII with ANSI colors when stdout is a TTY and NO_COLOR
// is unset. Sizes and timestamps go through go-humanize so listings read as
// "12 MB" and "3 days ago" rather than raw numbers.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/byte-cook/opt/internal/installer"
	"github.com/byte-cook/opt/internal/store"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderRecordTable renders the registry listing: one row per record, sorted
// by name. Installed rows show their size and directory, alias rows show the
// target they point to.
func RenderRecordTable(records []*store.Record) string {
	if len(records) == 0 {
		return "Nothing installed.\n"
	}

	sorted := make([]*store.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-24s %-10s %-9s %-14s %s\n",
		"Name", "Kind", "Size", "Installed", "Location"))
	sb.WriteString(strings.Repeat("─", 84))
	sb.WriteString("\n")

	for _, rec := range sorted {
		var size, location string
		if rec.Kind == store.KindAlias {
			size = "—"
			location = "-> " + rec.AliasTarget
		} else {
			size = humanize.Bytes(uint64(rec.SizeBytes))
			location = rec.InstallDir
		}

		sb.WriteString(fmt.Sprintf("%-24s %-10s %-9s %-14s %s\n",
			truncate(rec.Name, 24),
			string(rec.Kind),
			size,
			humanize.Time(rec.InstalledAt),
			location))
	}

	return sb.String()
}

// RenderRecordDetail renders the full state of one record, including its
// attributed side effects and the aliases pointing at it.
func RenderRecordDetail(rec *store.Record, aliases []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:      %s\n", rec.Name))
	sb.WriteString(fmt.Sprintf("Kind:      %s\n", rec.Kind))
	if rec.Kind == store.KindAlias {
		sb.WriteString(fmt.Sprintf("Target:    %s\n", rec.AliasTarget))
	} else {
		sb.WriteString(fmt.Sprintf("Directory: %s\n", rec.InstallDir))
		sb.WriteString(fmt.Sprintf("Size:      %s\n", humanize.Bytes(uint64(rec.SizeBytes))))
	}
	sb.WriteString(fmt.Sprintf("Installed: %s\n", humanize.Time(rec.InstalledAt)))
	if !rec.UpdatedAt.Equal(rec.InstalledAt) {
		sb.WriteString(fmt.Sprintf("Updated:   %s\n", humanize.Time(rec.UpdatedAt)))
	}

	if len(rec.PathEntries) > 0 {
		sb.WriteString("\nPath entries:\n")
		for _, e := range rec.PathEntries {
			sb.WriteString("  " + e + "\n")
		}
	}
	if len(rec.DesktopEntries) > 0 {
		sb.WriteString("\nDesktop entries:\n")
		for _, e := range rec.DesktopEntries {
			sb.WriteString("  " + e + "\n")
		}
	}
	if len(aliases) > 0 {
		sb.WriteString("\nAliased by:\n")
		for _, a := range aliases {
			sb.WriteString("  " + a + "\n")
		}
	}

	return sb.String()
}

// RenderRemovalReport renders every removal step with its outcome, plus any
// aliases that were orphaned by a forced removal.
func RenderRemovalReport(report *installer.RemovalReport) string {
	var sb strings.Builder

	for _, s := range report.Steps {
		if s.Err != nil {
			sb.WriteString(fmt.Sprintf("  %s %s: %v\n", colorize(colorRed, "✗"), s.Label, s.Err))
		} else {
			sb.WriteString(fmt.Sprintf("  %s %s\n", colorize(colorGreen, "✓"), s.Label))
		}
	}

	for _, a := range report.Orphaned {
		sb.WriteString(fmt.Sprintf("  %s alias %s now dangles\n", colorize(colorYellow, "⚠"), a))
	}

	return sb.String()
}

// RenderFindings renders doctor findings grouped as returned, one line each.
func RenderFindings(findings []installer.Finding) string {
	if len(findings) == 0 {
		return colorize(colorGreen, "✓") + " registry and filesystem agree\n"
	}

	var sb strings.Builder
	for _, f := range findings {
		sb.WriteString(fmt.Sprintf("  %s %-14s %-24s %s\n",
			colorize(colorYellow, "⚠"), f.Kind, truncate(f.Name, 24), f.Detail))
	}
	sb.WriteString(fmt.Sprintf("\n%d finding(s)\n", len(findings)))
	return sb.String()
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
