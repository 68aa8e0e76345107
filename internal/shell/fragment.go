// Package shell maintains the persisted shell-startup fragment that exposes
// installed applications on the search path.
//
// The fragment holds one export line per registered directory inside a marked
// section. Content outside the markers is preserved untouched, so the file
// can double as a regular profile script. Every mutation rewrites the file
// via a temp file and rename, so a crash can never leave a truncated
// fragment behind.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	beginMarker = "# >>> opt managed PATH >>>"
	endMarker   = "# <<< opt managed PATH <<<"
)

// Fragment manages the PATH entries persisted in a single startup file.
type Fragment struct {
	path string
}

// New returns a Fragment backed by the file at path. The file need not exist
// yet; it is created on the first Add.
func New(path string) *Fragment {
	return &Fragment{path: path}
}

// Path returns the fragment file location.
func (f *Fragment) Path() string {
	return f.path
}

// Add registers dir as a search-path entry. Adding an already-present
// directory is a no-op. Returns whether the file changed.
func (f *Fragment) Add(dir string) (bool, error) {
	head, entries, tail, err := f.read()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e == dir {
			return false, nil
		}
	}
	entries = append(entries, dir)
	if err := f.write(head, entries, tail); err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops dir from the registered entries. Removing an absent directory
// is a no-op. Returns whether the file changed.
func (f *Fragment) Remove(dir string) (bool, error) {
	head, entries, tail, err := f.read()
	if err != nil {
		return false, err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e != dir {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	if err := f.write(head, kept, tail); err != nil {
		return false, err
	}
	return true, nil
}

// Entries returns the registered directories in file order.
func (f *Fragment) Entries() ([]string, error) {
	_, entries, _, err := f.read()
	return entries, err
}

// read splits the file into the text before the managed section, the
// registered directories, and the text after it. A missing file or a file
// without markers yields empty entries.
func (f *Fragment) read() (head string, entries []string, tail string, err error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil, "", nil
	}
	if err != nil {
		return "", nil, "", fmt.Errorf("cannot read fragment %s: %w", f.path, err)
	}

	content := string(data)
	begin := strings.Index(content, beginMarker)
	if begin == -1 {
		return content, nil, "", nil
	}
	rest := content[begin+len(beginMarker):]
	end := strings.Index(rest, endMarker)
	if end == -1 {
		// Torn section: treat everything after the begin marker as tail
		// and rebuild the section from scratch.
		return content[:begin], nil, rest, nil
	}

	head = content[:begin]
	tail = rest[end+len(endMarker):]
	tail = strings.TrimPrefix(tail, "\n")

	for _, line := range strings.Split(rest[:end], "\n") {
		if dir, ok := parseExportLine(strings.TrimSpace(line)); ok {
			entries = append(entries, dir)
		}
	}
	return head, entries, tail, nil
}

// write rebuilds the fragment and replaces the file atomically. An empty
// entry set still writes the (empty) managed section so the markers remain
// stable across add/remove cycles.
func (f *Fragment) write(head string, entries []string, tail string) error {
	var sb strings.Builder
	sb.WriteString(head)
	sb.WriteString(beginMarker)
	sb.WriteString("\n")
	for _, dir := range entries {
		sb.WriteString(exportLine(dir))
		sb.WriteString("\n")
	}
	sb.WriteString(endMarker)
	sb.WriteString("\n")
	sb.WriteString(tail)

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create fragment directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".path-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temp fragment: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cannot write temp fragment: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cannot chmod temp fragment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot close temp fragment: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot replace fragment %s: %w", f.path, err)
	}
	return nil
}

func exportLine(dir string) string {
	return fmt.Sprintf("export PATH=%q:$PATH", dir)
}

// parseExportLine extracts the directory from a managed export line.
func parseExportLine(line string) (string, bool) {
	const prefix = `export PATH="`
	const suffix = `":$PATH`
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, suffix) {
		return "", false
	}
	dir := line[len(prefix) : len(line)-len(suffix)]
	if dir == "" {
		return "", false
	}
	return dir, true
}
