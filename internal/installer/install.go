package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/byte-cook/opt/internal/archive"
	"github.com/byte-cook/opt/internal/logger"
	"github.com/byte-cook/opt/internal/store"
)

// InstallOptions controls a single install or update invocation.
type InstallOptions struct {
	// NoPath suppresses registration of the default search-path entry.
	NoPath bool

	// Keep merges the new archive contents over the existing install
	// directory instead of clearing it first. Only meaningful for
	// updates.
	Keep bool

	// Update requires an existing installed record; a fresh name is
	// rejected with NotFound instead of being installed.
	Update bool
}

// Install unpacks the given files into the versioned install directory for
// name, registers the default path entry and commits the record. The record
// is only written after every required side effect succeeded; on failure all
// partially applied effects are rolled back.
//
// Installing over an existing installed name replaces its contents while
// preserving the side effects attributed to it. Installing over a name held
// by an alias is rejected.
func (in *Installer) Install(ctx context.Context, name string, files []string, opts InstallOptions) (*store.Record, error) {
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("install file does not exist: %s", f)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("install file is a directory: %s", f)
		}
	}

	var rec *store.Record
	err := in.withLock(ctx, func() error {
		var err error
		rec, err = in.install(ctx, name, files, opts)
		return err
	})
	return rec, err
}

// Update replaces or merges the install directory contents of an existing
// application, preserving its attributed side effects.
func (in *Installer) Update(ctx context.Context, name string, files []string, keep bool) (*store.Record, error) {
	return in.Install(ctx, name, files, InstallOptions{Update: true, Keep: keep, NoPath: true})
}

// install runs the Requested -> Extracting -> Registering -> Committed state
// machine. Callers must hold the registry lock.
func (in *Installer) install(ctx context.Context, name string, files []string, opts InstallOptions) (*store.Record, error) {
	// Requested: validate the name against the existing record, if any.
	existing, err := in.st.Get(name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Kind != store.KindInstalled {
		return nil, fmt.Errorf("%w: %s is an alias", store.ErrNameConflict, name)
	}
	if existing == nil && opts.Update {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, name)
	}

	dir := in.cfg.InstallDir(name)
	fresh := existing == nil

	// Extracting: unpack into the versioned directory. A prior directory
	// is cleared first unless the merge policy keeps it; a directory left
	// behind by an interrupted earlier install (no record) is reclaimed
	// the same way.
	if !opts.Keep {
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("cannot clear install directory %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create install directory %s: %w", dir, err)
	}

	for _, f := range files {
		var err error
		if archive.IsArchive(f) {
			logger.Debug("extracting %s into %s\n", f, dir)
			err = archive.Extract(ctx, f, dir)
		} else {
			logger.Debug("copying %s into %s\n", f, dir)
			err = archive.CopyFile(f, dir)
		}
		if err != nil {
			in.rollbackDir(dir, fresh)
			return nil, fmt.Errorf("%w: %s: %v", ErrExtractionFailed, f, err)
		}
	}
	if err := ctx.Err(); err != nil {
		in.rollbackDir(dir, fresh)
		return nil, err
	}

	// Registering: expose the install on the search path unless
	// suppressed. Updates keep their existing attribution untouched.
	rec := &store.Record{
		Name:        name,
		Kind:        store.KindInstalled,
		InstallDir:  dir,
		InstalledAt: time.Now(),
		UpdatedAt:   time.Now(),
	}
	if existing != nil {
		rec.InstalledAt = existing.InstalledAt
		rec.PathEntries = existing.PathEntries
		rec.DesktopEntries = existing.DesktopEntries
	}

	var addedEntry string
	if fresh && !opts.NoPath {
		entry := defaultPathEntry(dir)
		changed, err := in.frag.Add(entry)
		if err != nil {
			in.rollbackDir(dir, fresh)
			return nil, fmt.Errorf("%w: path entry %s: %v", ErrRegistrationFailed, entry, err)
		}
		if changed {
			addedEntry = entry
		}
		if !containsEntry(rec.PathEntries, entry) {
			rec.PathEntries = append(rec.PathEntries, entry)
		}
	}

	// Committed: persist the record. Only now is the install visible to
	// subsequent commands.
	rec.SizeBytes = dirSize(dir)
	if err := in.st.Put(rec); err != nil {
		if addedEntry != "" {
			in.frag.Remove(addedEntry)
		}
		in.rollbackDir(dir, fresh)
		return nil, fmt.Errorf("cannot commit record for %s: %w", name, err)
	}
	return rec, nil
}

// rollbackDir clears a partially written install directory. Updates keep the
// directory: the old contents may already be gone and deleting the remainder
// would only widen the damage; doctor reports the divergence instead.
func (in *Installer) rollbackDir(dir string, fresh bool) {
	if !fresh {
		logger.Warn("leaving partially updated directory %s in place; run 'opt doctor' to inspect\n", dir)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("rollback: cannot remove partial directory %s: %v\n", dir, err)
	}
}

// Alias creates or retargets an alias binding under the registry lock.
func (in *Installer) Alias(ctx context.Context, name, target string) error {
	return in.withLock(ctx, func() error {
		return in.st.PutAlias(name, target)
	})
}
