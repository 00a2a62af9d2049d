// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and stores Manito draws.

# Drivers

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite). SQLite
connections get foreign keys and a busy timeout, and are limited to one open
connection:

	conn, err := db.Open(db.DriverSQLite, "file:holiday.db")

Both drivers accept $1-style placeholders, so queries are shared.

# Schema Creation

Open calls CreateSchema, which is safe to run repeatedly (IF NOT EXISTS):

  - profiles: one nickname per user, unique
  - messages: guestbook entries; ids key the ornament layout
  - manito_participants: one row per joined user
  - manito_draw: at most one row, claimed by the draw that commits
  - manito_matches: giver and receiver each unique

All foreign keys reference profiles with ON DELETE CASCADE.

# Match Store

MatchStore implements matching.Store. SaveMatches claims the draw row and
inserts every match in one transaction; a lost race returns
matching.ErrAlreadyMatched.

IsUniqueViolation recognizes unique and primary-key failures from either
driver.
*/
package db
