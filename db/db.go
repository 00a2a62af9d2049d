// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown database driver")

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Open connects to the database, verifies the connection and creates the schema.
func Open(driver, url string) (*sql.DB, error) {
	var dsn string
	switch driver {
	case DriverPostgres:
		dsn = url
	case DriverSQLite:
		dsn = sqliteDSN(url)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == DriverSQLite {
		// Single writer; also keeps ":memory:" databases on one connection
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := CreateSchema(conn, driver); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if strings.Contains(url, "?") {
		return url + "&" + pragmas
	}
	return url + "?" + pragmas
}

// IsUniqueViolation reports whether err is a unique or primary-key
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
