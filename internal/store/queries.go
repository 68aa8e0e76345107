package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Put inserts or replaces the record for rec.Name. The write is a single
// statement, so a reader can never observe a half-written record and a crash
// before commit leaves the previous state intact.
func (s *Store) Put(rec *Record) error {
	pathJSON, err := json.Marshal(entriesOrEmpty(rec.PathEntries))
	if err != nil {
		return fmt.Errorf("failed to marshal path entries: %w", err)
	}
	desktopJSON, err := json.Marshal(entriesOrEmpty(rec.DesktopEntries))
	if err != nil {
		return fmt.Errorf("failed to marshal desktop entries: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO records
		(name, kind, install_dir, alias_target, path_entries, desktop_entries, size_bytes, installed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		rec.Name,
		string(rec.Kind),
		rec.InstallDir,
		rec.AliasTarget,
		string(pathJSON),
		string(desktopJSON),
		rec.SizeBytes,
		rec.InstalledAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store record %s: %w", rec.Name, err)
	}
	return nil
}

// Get retrieves the record for name. Returns ErrNotFound if absent.
func (s *Store) Get(name string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT name, kind, install_dir, alias_target, path_entries, desktop_entries, size_bytes, installed_at, updated_at
		FROM records
		WHERE name = ?
	`, name)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", name, err)
	}
	return rec, nil
}

// List returns all records ordered lexicographically by name.
func (s *Store) List() ([]*Record, error) {
	rows, err := s.db.Query(`
		SELECT name, kind, install_dir, alias_target, path_entries, desktop_entries, size_bytes, installed_at, updated_at
		FROM records
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// Delete removes the record for name. Returns ErrNotFound if absent.
func (s *Store) Delete(name string) error {
	result, err := s.db.Exec(`DELETE FROM records WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result for %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Aliases returns the names of all alias records targeting the given
// installed name, ordered lexicographically.
func (s *Store) Aliases(target string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT name FROM records
		WHERE kind = ? AND alias_target = ?
		ORDER BY name
	`, string(KindAlias), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases of %s: %w", target, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan alias row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aliases: %w", err)
	}
	return names, nil
}

// scanRecord maps one row onto a Record using the given scan function,
// so it serves both QueryRow and Query result sets.
func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var rec Record
	var kind, pathJSON, desktopJSON, installedAt, updatedAt string
	var installDir, aliasTarget sql.NullString

	err := scan(
		&rec.Name,
		&kind,
		&installDir,
		&aliasTarget,
		&pathJSON,
		&desktopJSON,
		&rec.SizeBytes,
		&installedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Kind = Kind(kind)
	rec.InstallDir = installDir.String
	rec.AliasTarget = aliasTarget.String

	if err := json.Unmarshal([]byte(pathJSON), &rec.PathEntries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal path entries for %s: %w", rec.Name, err)
	}
	if err := json.Unmarshal([]byte(desktopJSON), &rec.DesktopEntries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal desktop entries for %s: %w", rec.Name, err)
	}

	if rec.InstalledAt, err = time.Parse(time.RFC3339, installedAt); err != nil {
		return nil, fmt.Errorf("failed to parse installed_at for %s: %w", rec.Name, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for %s: %w", rec.Name, err)
	}

	return &rec, nil
}

// entriesOrEmpty normalizes nil slices so the stored JSON is always an array.
func entriesOrEmpty(entries []string) []string {
	if entries == nil {
		return []string{}
	}
	return entries
}
