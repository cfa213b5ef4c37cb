package db

const (
	// SchemaV1 defines version 1 of the local blob store schema: one
	// row per named JSON document, mirroring the remote file API.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS healthlog_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS files (
    name VARCHAR(150) PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
