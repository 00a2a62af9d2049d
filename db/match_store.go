// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/holiday-tree/matching"
)

// MatchStore persists Manito participants and draws.
type MatchStore struct {
	db *sql.DB
}

func NewMatchStore(db *sql.DB) *MatchStore {
	return &MatchStore{db: db}
}

// ListParticipants returns participant user ids in join order.
func (s *MatchStore) ListParticipants(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id FROM manito_participants
		ORDER BY joined_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasMatches reports whether a draw or any match row exists.
func (s *MatchStore) HasMatches(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM manito_draw) + (SELECT COUNT(*) FROM manito_matches)
	`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count matches: %w", err)
	}
	return count > 0, nil
}

// SaveMatches claims the single draw slot and inserts the matches in one
// transaction. A concurrent draw that already claimed the slot surfaces as
// matching.ErrAlreadyMatched.
func (s *MatchStore) SaveMatches(ctx context.Context, matches []matching.Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO manito_draw (id, match_count, drawn_at)
		VALUES (1, $1, $2)
	`, len(matches), now)
	if IsUniqueViolation(err) {
		return fmt.Errorf("claim draw: %w", matching.ErrAlreadyMatched)
	}
	if err != nil {
		return fmt.Errorf("claim draw: %w", err)
	}

	for _, m := range matches {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO manito_matches (giver_user_id, receiver_user_id, created_at)
			VALUES ($1, $2, $3)
		`, m.Giver, m.Receiver, now)
		if IsUniqueViolation(err) {
			return fmt.Errorf("insert match: %w", matching.ErrAlreadyMatched)
		}
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit matches: %w", err)
	}
	return nil
}

// ListMatches returns every stored match, ordered by insertion.
func (s *MatchStore) ListMatches(ctx context.Context) ([]matching.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT giver_user_id, receiver_user_id FROM manito_matches ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []matching.Match
	for rows.Next() {
		var m matching.Match
		if err := rows.Scan(&m.Giver, &m.Receiver); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

var _ matching.Store = (*MatchStore)(nil)
