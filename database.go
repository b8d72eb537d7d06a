package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS directories (
	id TEXT PRIMARY KEY,
	location_id TEXT NOT NULL,
	directory_name TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	config TEXT NOT NULL,
	styling TEXT NOT NULL,
	header_code TEXT NOT NULL DEFAULT '',
	footer_code TEXT NOT NULL DEFAULT '',
	code_valid INTEGER NOT NULL DEFAULT 0,
	active INTEGER NOT NULL DEFAULT 1,
	sync_status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (location_id, directory_name)
);

CREATE TABLE IF NOT EXISTS collections (
	id TEXT PRIMARY KEY,
	location_id TEXT NOT NULL,
	directory_name TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	ghl_collection_id TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 1,
	sync_status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (location_id, slug)
);

CREATE TABLE IF NOT EXISTS listings (
	id TEXT PRIMARY KEY,
	location_id TEXT NOT NULL,
	directory_name TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	image_url TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	ghl_product_id TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 1,
	sync_status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (location_id, slug)
);

CREATE INDEX IF NOT EXISTS idx_listings_directory ON listings (location_id, directory_name);

CREATE TABLE IF NOT EXISTS collection_items (
	collection_id TEXT NOT NULL REFERENCES collections (id) ON DELETE CASCADE,
	listing_id TEXT NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
	sort_order INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (collection_id, listing_id)
);

CREATE TABLE IF NOT EXISTS listing_addons (
	id TEXT PRIMARY KEY,
	listing_id TEXT NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS oauth_connections (
	location_id TEXT NOT NULL,
	provider TEXT NOT NULL,
	account_id TEXT NOT NULL DEFAULT '',
	account_name TEXT NOT NULL DEFAULT '',
	company_id TEXT NOT NULL DEFAULT '',
	scope TEXT NOT NULL DEFAULT '',
	token TEXT NOT NULL,
	token_expires DATETIME,
	connected_at DATETIME NOT NULL,
	PRIMARY KEY (location_id, provider)
);
`

// OpenDatabase opens the sqlite file at path with foreign keys enabled and
// applies the schema.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to open database", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to initialize database", err)
	}
	return db, nil
}

// isUniqueViolation recognizes sqlite unique constraint failures.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// wrapWriteError maps a failed insert or update to the error taxonomy.
func wrapWriteError(resource string, err error) error {
	if isUniqueViolation(err) {
		return WrapDatabaseError(ErrTypeConstraint, resource+" already exists", err)
	}
	return WrapDatabaseError(ErrTypeConnection, fmt.Sprintf("failed to save %s", resource), err)
}

// requireAffected turns a zero-row update or delete into a not found error.
func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to read result", err)
	}
	if n == 0 {
		return notFound(resource)
	}
	return nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and joins its words with hyphens.
func slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

var directoryNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _-]{0,63}$`)

// isValidDirectoryName accepts the names that are safe in public form URLs.
func isValidDirectoryName(name string) bool {
	return directoryNamePattern.MatchString(name)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
