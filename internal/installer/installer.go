// Package installer orchestrates install, update, alias and removal
// operations against the registry, the filesystem and the external
// environment (search path, desktop launchers).
//
// Every mutating operation runs under an exclusive advisory lock on the
// registry, so two concurrent opt invocations never interleave their side
// effects. The lock is scoped to the whole registry rather than a single
// name; this serializes unrelated operations, which is an acceptable cost
// for a short-lived command-line tool.
package installer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/byte-cook/opt/internal/config"
	"github.com/byte-cook/opt/internal/desktop"
	"github.com/byte-cook/opt/internal/shell"
	"github.com/byte-cook/opt/internal/store"
)

// lockRetryInterval is how often a blocked invocation re-attempts the
// registry lock while its context is still live.
const lockRetryInterval = 250 * time.Millisecond

// Installer ties the registry, extractor, PATH manager and desktop entry
// manager together for each user command.
type Installer struct {
	cfg  *config.Config
	st   *store.Store
	frag *shell.Fragment
	desk *desktop.Manager
}

// New returns an Installer operating on the given configuration and registry.
func New(cfg *config.Config, st *store.Store) *Installer {
	return &Installer{
		cfg:  cfg,
		st:   st,
		frag: shell.New(cfg.Fragment),
		desk: desktop.New(cfg.ApplicationsDir, cfg.IconsDir),
	}
}

// withLock runs fn while holding the registry lock. The lock is acquired
// with retries until the context is cancelled and released on every exit
// path, including panics inside fn.
func (in *Installer) withLock(ctx context.Context, fn func() error) error {
	if err := in.cfg.EnsureRegistryDir(); err != nil {
		return err
	}

	lock := flock.New(in.cfg.LockPath())
	locked, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("cannot acquire registry lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer lock.Unlock()

	return fn()
}

// defaultPathEntry picks the directory registered on the search path for a
// fresh install: the install dir's bin/ subdirectory when present, otherwise
// the install dir itself.
func defaultPathEntry(installDir string) string {
	bin := filepath.Join(installDir, "bin")
	if info, err := os.Stat(bin); err == nil && info.IsDir() {
		return bin
	}
	return installDir
}

// dirSize sums the sizes of all regular files under dir. Errors on single
// entries are ignored: the size is informational only.
func dirSize(dir string) int64 {
	var total int64
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// containsEntry reports whether entries already holds e.
func containsEntry(entries []string, e string) bool {
	for _, x := range entries {
		if x == e {
			return true
		}
	}
	return false
}
