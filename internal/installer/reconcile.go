package installer

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fsnotify/fsnotify"

	"github.com/byte-cook/opt/internal/store"
)

// Finding describes one divergence between the registry and the filesystem.
type Finding struct {
	Kind   string // "orphaned-dir", "missing-dir", "dangling-alias"
	Name   string
	Detail string
}

// Doctor reconciles the registry against the install root and reports every
// divergence: install directories with no committed record (reclaimable
// garbage from interrupted installs or manual unpacking), records whose
// directory disappeared, and aliases whose target is gone. The registry
// stays authoritative; nothing is repaired automatically.
func (in *Installer) Doctor() ([]Finding, error) {
	records, err := in.st.List()
	if err != nil {
		return nil, err
	}

	installed := make(map[string]*store.Record)
	for _, rec := range records {
		if rec.Kind == store.KindInstalled {
			installed[rec.Name] = rec
		}
	}

	var findings []Finding

	entries, err := os.ReadDir(in.cfg.Root)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read install root %s: %w", in.cfg.Root, err)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".opt" {
			continue
		}
		if _, ok := installed[e.Name()]; !ok {
			findings = append(findings, Finding{
				Kind:   "orphaned-dir",
				Name:   e.Name(),
				Detail: fmt.Sprintf("directory %s has no record; reclaim with 'opt install %s <file>' or 'opt remove -f %s'", in.cfg.InstallDir(e.Name()), e.Name(), e.Name()),
			})
		}
	}

	for _, rec := range records {
		switch rec.Kind {
		case store.KindInstalled:
			if _, err := os.Stat(rec.InstallDir); os.IsNotExist(err) {
				findings = append(findings, Finding{
					Kind:   "missing-dir",
					Name:   rec.Name,
					Detail: fmt.Sprintf("record exists but %s is gone", rec.InstallDir),
				})
			}
		case store.KindAlias:
			if _, err := in.st.Resolve(rec.Name); err != nil {
				findings = append(findings, Finding{
					Kind:   "dangling-alias",
					Name:   rec.Name,
					Detail: fmt.Sprintf("alias targets %s, which is not installed", rec.AliasTarget),
				})
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Kind != findings[j].Kind {
			return findings[i].Kind < findings[j].Kind
		}
		return findings[i].Name < findings[j].Name
	})
	return findings, nil
}

// Watch re-runs Doctor whenever the install root changes and passes each
// fresh set of findings to report. It blocks until the context is cancelled.
func (in *Installer) Watch(ctx context.Context, report func([]Finding)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(in.cfg.Root); err != nil {
		return fmt.Errorf("cannot watch %s: %w", in.cfg.Root, err)
	}

	// Initial pass so the caller sees the current state immediately.
	findings, err := in.Doctor()
	if err != nil {
		return err
	}
	report(findings)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			findings, err := in.Doctor()
			if err != nil {
				return err
			}
			report(findings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("filesystem watcher error: %w", err)
		}
	}
}
