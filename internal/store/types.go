package store

import "time"

// nowFunc is swapped out in tests that need deterministic timestamps.
var nowFunc = time.Now

// Kind distinguishes the two record variants sharing one namespace.
type Kind string

const (
	// KindInstalled marks a record owning a versioned install directory.
	KindInstalled Kind = "installed"

	// KindAlias marks a record resolving to another installed name.
	// Aliases never chain: an alias target must be an installed record.
	KindAlias Kind = "alias"
)

// Record is one persisted registry entry describing a managed name.
type Record struct {
	Name string
	Kind Kind

	// InstallDir is the versioned directory holding extracted files.
	// Set only for KindInstalled.
	InstallDir string

	// AliasTarget names the installed record this alias resolves to.
	// Set only for KindAlias.
	AliasTarget string

	// PathEntries are the search-path directories attributed to this name.
	PathEntries []string

	// DesktopEntries are launcher/icon file paths attributed to this name.
	DesktopEntries []string

	SizeBytes   int64
	InstalledAt time.Time
	UpdatedAt   time.Time
}

// IsInstalled reports whether the record owns an install directory.
func (r *Record) IsInstalled() bool {
	return r.Kind == KindInstalled
}
