// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, driver string) error {
	ddl, err := schemaFor(driver)
	if err != nil {
		return err
	}

	// One statement per Exec; not every driver accepts batches
	for _, stmt := range splitStatements(ddl) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// splitStatements drops "--" comment lines and splits the rest on ";".
func splitStatements(ddl string) []string {
	var b strings.Builder
	for _, line := range strings.Split(ddl, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func schemaFor(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return strings.ReplaceAll(schema, "{{serial}}", "BIGSERIAL PRIMARY KEY"), nil
	case DriverSQLite:
		return strings.ReplaceAll(schema, "{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

const schema = `
-- Profiles (one nickname per authenticated user)
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    nickname TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

-- Guestbook messages, ids key the ornament layout
CREATE TABLE IF NOT EXISTS messages (
    id {{serial}},
    user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);

-- Manito participants
CREATE TABLE IF NOT EXISTS manito_participants (
    id {{serial}},
    user_id TEXT NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    joined_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_manito_participants_joined_at ON manito_participants(joined_at);

-- Draw guard: at most one row, so only one draw can ever commit
CREATE TABLE IF NOT EXISTS manito_draw (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    match_count INTEGER NOT NULL,
    drawn_at TIMESTAMP NOT NULL
);

-- Manito matches
CREATE TABLE IF NOT EXISTS manito_matches (
    id {{serial}},
    giver_user_id TEXT NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    receiver_user_id TEXT NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    CHECK (giver_user_id <> receiver_user_id)
);
`
