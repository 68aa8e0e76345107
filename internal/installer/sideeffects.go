package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/byte-cook/opt/internal/store"
)

// RegisterPath exposes the given executables of an installed application on
// the search path and attributes the created entries to the canonical record.
//
// Without linkName, each executable's containing directory is added to the
// shell fragment. With linkName, a single symlink named linkName is created
// in the managed bin directory (which itself is kept on the fragment), so an
// executable can be exposed under a different command name.
func (in *Installer) RegisterPath(ctx context.Context, name string, files []string, linkName string) ([]string, error) {
	if linkName != "" && len(files) != 1 {
		return nil, fmt.Errorf("--link-name requires exactly one executable, got %d", len(files))
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("executable does not exist: %s", f)
		}
		if info.IsDir() || info.Mode().Perm()&0111 == 0 {
			return nil, fmt.Errorf("file is not executable: %s", f)
		}
	}

	var added []string
	err := in.withLock(ctx, func() error {
		rec, err := in.st.Resolve(name)
		if err != nil {
			return err
		}

		if linkName != "" {
			link, err := in.addLink(files[0], linkName)
			if err != nil {
				return err
			}
			added = append(added, link)
		} else {
			for _, f := range files {
				dir := filepath.Dir(f)
				if _, err := in.frag.Add(dir); err != nil {
					return fmt.Errorf("%w: path entry %s: %v", ErrRegistrationFailed, dir, err)
				}
				added = append(added, dir)
			}
		}

		for _, entry := range added {
			if !containsEntry(rec.PathEntries, entry) {
				rec.PathEntries = append(rec.PathEntries, entry)
			}
		}
		return in.st.Put(rec)
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// addLink creates <binDir>/<linkName> pointing at the executable and makes
// sure the managed bin directory is registered on the search path.
func (in *Installer) addLink(executable, linkName string) (string, error) {
	binDir := in.cfg.BinDir()
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create bin directory %s: %w", binDir, err)
	}

	target, err := filepath.Abs(executable)
	if err != nil {
		return "", err
	}
	link := filepath.Join(binDir, linkName)
	os.Remove(link)
	if err := os.Symlink(target, link); err != nil {
		return "", fmt.Errorf("%w: symlink %s: %v", ErrRegistrationFailed, link, err)
	}

	if _, err := in.frag.Add(binDir); err != nil {
		os.Remove(link)
		return "", fmt.Errorf("%w: path entry %s: %v", ErrRegistrationFailed, binDir, err)
	}
	return link, nil
}

// RegisterDesktop installs a desktop launcher (and optional icon) for an
// installed application and attributes the created files to the canonical
// record so removal can delete exactly what was created.
func (in *Installer) RegisterDesktop(ctx context.Context, name, desktopFile, iconFile string) ([]string, error) {
	if _, err := os.Stat(desktopFile); err != nil {
		return nil, fmt.Errorf("launcher file does not exist: %s", desktopFile)
	}
	if iconFile != "" {
		if _, err := os.Stat(iconFile); err != nil {
			return nil, fmt.Errorf("icon file does not exist: %s", iconFile)
		}
	}

	var created []string
	err := in.withLock(ctx, func() error {
		rec, err := in.st.Resolve(name)
		if err != nil {
			return err
		}

		created, err = in.desk.Add(desktopFile, iconFile)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}

		for _, p := range created {
			if !containsEntry(rec.DesktopEntries, p) {
				rec.DesktopEntries = append(rec.DesktopEntries, p)
			}
		}
		if err := in.st.Put(rec); err != nil {
			in.desk.Remove(created)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Resolve maps a name to its canonical installed record. Exposed for
// commands that only need to inspect state.
func (in *Installer) Resolve(name string) (*store.Record, error) {
	return in.st.Resolve(name)
}
