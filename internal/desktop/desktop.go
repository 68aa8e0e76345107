// Package desktop installs and removes desktop launcher files and their icon
// copies for managed applications.
package desktop

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Manager places launcher files in ApplicationsDir and icon copies in
// IconsDir.
type Manager struct {
	ApplicationsDir string
	IconsDir        string
}

// New returns a Manager writing to the given directories.
func New(applicationsDir, iconsDir string) *Manager {
	return &Manager{ApplicationsDir: applicationsDir, IconsDir: iconsDir}
}

// Add installs the launcher and, if given, the icon, overwriting existing
// copies. It returns the created file paths so the caller can attribute them
// to the application record for exact reversal later.
func (m *Manager) Add(desktopFile, iconFile string) ([]string, error) {
	if !strings.HasSuffix(desktopFile, ".desktop") {
		return nil, fmt.Errorf("unsupported launcher file: %s", filepath.Base(desktopFile))
	}

	var created []string

	if iconFile != "" {
		if err := os.MkdirAll(m.IconsDir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create icon directory %s: %w", m.IconsDir, err)
		}
		iconDst := filepath.Join(m.IconsDir, filepath.Base(iconFile))
		if err := copyFile(iconFile, iconDst, 0644); err != nil {
			return nil, fmt.Errorf("cannot install icon: %w", err)
		}
		created = append(created, iconDst)
	}

	if err := os.MkdirAll(m.ApplicationsDir, 0755); err != nil {
		m.Remove(created)
		return nil, fmt.Errorf("cannot create applications directory %s: %w", m.ApplicationsDir, err)
	}
	launcherDst := filepath.Join(m.ApplicationsDir, filepath.Base(desktopFile))
	// Launchers need the execute bit for some desktop environments.
	if err := copyFile(desktopFile, launcherDst, 0755); err != nil {
		m.Remove(created)
		return nil, fmt.Errorf("cannot install launcher: %w", err)
	}
	created = append(created, launcherDst)

	return created, nil
}

// Remove deletes the given files, best effort: a missing file is a no-op and
// failures on one path do not stop the others. All failures are joined into
// the returned error.
func (m *Manager) Remove(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("cannot remove %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
