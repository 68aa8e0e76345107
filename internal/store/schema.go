package store

const schema = `
CREATE TABLE IF NOT EXISTS records (
    name TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('installed', 'alias')),
    install_dir TEXT,
    alias_target TEXT,
    path_entries TEXT NOT NULL DEFAULT '[]',
    desktop_entries TEXT NOT NULL DEFAULT '[]',
    size_bytes INTEGER NOT NULL DEFAULT 0,
    installed_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_alias_target ON records(alias_target);
`
