package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/byte-cook/opt/internal/store"
)

// RemoveOptions selects the removal scope and policy.
type RemoveOptions struct {
	// Force removes the install directory even when no record exists
	// (filesystem-first) and orphans aliases still targeting the name
	// instead of rejecting the removal.
	Force bool

	// PathOnly undoes only the attributed path entries; the install and
	// the rest of the record survive.
	PathOnly bool

	// DesktopOnly undoes only the attributed desktop entries.
	DesktopOnly bool
}

func (o RemoveOptions) full() bool {
	return !o.PathOnly && !o.DesktopOnly
}

// RemovalReport lists the outcome of every removal step in execution order,
// plus any aliases that were deliberately orphaned.
type RemovalReport struct {
	Name     string
	Steps    []StepResult
	Orphaned []string
}

// Failures returns the steps that failed.
func (r *RemovalReport) Failures() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

func (r *RemovalReport) step(label string, err error) {
	r.Steps = append(r.Steps, StepResult{Label: label, Err: err})
}

// Remove undoes the side effects attributed to name, deletes the install
// directory and finally the record, in that order. It continues best-effort
// through failures; if any step failed the returned error is a
// PartialRemovalError and the report still lists every attempted step.
//
// Removing a name that resolves to an alias record removes only the alias
// binding and its own attributed side effects, never the target install.
// Removing an installed application that aliases still target is rejected
// unless Force is set, which orphans the aliases and reports them.
func (in *Installer) Remove(ctx context.Context, name string, opts RemoveOptions) (*RemovalReport, error) {
	report := &RemovalReport{Name: name}
	err := in.withLock(ctx, func() error {
		return in.remove(name, opts, report)
	})
	return report, err
}

func (in *Installer) remove(name string, opts RemoveOptions, report *RemovalReport) error {
	rec, err := in.st.Get(name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if !opts.Force {
			return err
		}
		return in.removeUntracked(name, report)
	}

	if rec.Kind == store.KindInstalled && opts.full() {
		aliases, err := in.st.Aliases(name)
		if err != nil {
			return err
		}
		if len(aliases) > 0 {
			if !opts.Force {
				return fmt.Errorf("%w: %s <- %s", ErrAliasesRemain, name, strings.Join(aliases, ", "))
			}
			report.Orphaned = aliases
		}
	}

	if opts.full() || opts.PathOnly {
		for _, entry := range rec.PathEntries {
			report.step("path entry "+entry, in.removePathEntry(entry))
		}
	}
	if opts.full() || opts.DesktopOnly {
		for _, p := range rec.DesktopEntries {
			report.step("desktop entry "+p, in.desk.Remove([]string{p}))
		}
	}
	if opts.full() && rec.Kind == store.KindInstalled {
		report.step("install directory "+rec.InstallDir, removeTree(rec.InstallDir))
	}

	// The record is deleted last so a failed earlier step never strands
	// side effects without their attribution.
	if opts.full() {
		report.step("registry record", in.st.Delete(name))
	} else {
		if opts.PathOnly {
			rec.PathEntries = nil
		}
		if opts.DesktopOnly {
			rec.DesktopEntries = nil
		}
		report.step("registry record", in.st.Put(rec))
	}

	if failures := report.Failures(); len(failures) > 0 {
		return &PartialRemovalError{Failures: failures}
	}
	return nil
}

// removeUntracked implements forced removal of a directory with no record:
// the filesystem, not the registry, is treated as ground truth. The default
// path entries that an install would have registered are dropped as well.
func (in *Installer) removeUntracked(name string, report *RemovalReport) error {
	dir := in.cfg.InstallDir(name)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("nothing to remove: no record and no directory for %s", name)
		}
		return err
	}

	for _, entry := range []string{filepath.Join(dir, "bin"), dir} {
		if changed, err := in.frag.Remove(entry); err != nil {
			report.step("path entry "+entry, err)
		} else if changed {
			report.step("path entry "+entry, nil)
		}
	}
	report.step("install directory "+dir, removeTree(dir))

	if failures := report.Failures(); len(failures) > 0 {
		return &PartialRemovalError{Failures: failures}
	}
	return nil
}

// removePathEntry reverses one attributed path entry: a symlink below the
// managed bin directory is deleted, anything else is dropped from the shell
// fragment.
func (in *Installer) removePathEntry(entry string) error {
	if filepath.Dir(entry) == in.cfg.BinDir() {
		if err := os.Remove(entry); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	_, err := in.frag.Remove(entry)
	return err
}

// removeTree deletes a directory tree; a missing tree is a no-op.
func removeTree(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return nil
}
