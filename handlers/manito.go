// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/holiday-tree/auth"
	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/db"
	"github.com/danielhkuo/holiday-tree/matching"
	"github.com/danielhkuo/holiday-tree/middleware"
	"github.com/danielhkuo/holiday-tree/models"
)

// AdminKeyHeader authorizes the matching trigger.
const AdminKeyHeader = "X-Admin-Key"

type ManitoHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	store    *db.MatchStore
	shuffler matching.Shuffler
}

func NewManitoHandler(conn *sql.DB, cfg cliparse.Config, shuffler matching.Shuffler) *ManitoHandler {
	return &ManitoHandler{
		db:       conn,
		cfg:      cfg,
		store:    db.NewMatchStore(conn),
		shuffler: shuffler,
	}
}

// triggerError writes the {"error": ...} body used by the matching trigger.
func triggerError(w http.ResponseWriter, statusCode int, message string) {
	middleware.JSONResponse(w, statusCode, models.ErrorResponse{Error: message})
}

// RunMatching handles POST /manito/run-matching
// Draws the Secret Santa cycle once for every current participant.
func (h *ManitoHandler) RunMatching(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(r.Header.Get(AdminKeyHeader), h.cfg.AdminKey); err != nil {
		triggerError(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	gen := matching.NewGenerator(h.store, h.shuffler)
	matches, err := gen.Run(r.Context())

	var persistErr *matching.PersistenceError
	switch {
	case errors.Is(err, matching.ErrTooFewParticipants), errors.Is(err, matching.ErrAlreadyMatched):
		triggerError(w, http.StatusBadRequest, err.Error())
		return
	case errors.As(err, &persistErr):
		slog.Error("manito matching failed", "op", persistErr.Op, "error", persistErr.Err)
		triggerError(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		slog.Error("manito matching failed", "error", err)
		triggerError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RunMatchingResponse{
		Success:      true,
		Message:      fmt.Sprintf("%d matches created", len(matches)),
		MatchesCount: len(matches),
	})
}

// ListParticipants handles GET /api/manito/participants
func (h *ManitoHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT mp.id, mp.user_id, p.nickname, mp.joined_at
		FROM manito_participants mp
		JOIN profiles p ON p.id = mp.user_id
		ORDER BY mp.joined_at, mp.id
	`)
	if err != nil {
		slog.Error("failed to query participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.UserID, &p.Nickname, &p.JoinedAt); err != nil {
			slog.Error("failed to scan participant", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		p.JoinedAgo = humanize.Time(p.JoinedAt)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ParticipantsResponse{
		Participants: participants,
		Count:        len(participants),
	})
}

// Join handles POST /api/manito/participants
// Joining closes once the draw has run.
func (h *ManitoHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	ok, err := hasProfile(r, h.db, userID)
	if err != nil {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !ok {
		middleware.ErrorResponse(w, http.StatusConflict, "Set a nickname before joining")
		return
	}

	drawn, err := h.store.HasMatches(r.Context())
	if err != nil {
		slog.Error("failed to check matches", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if drawn {
		middleware.ErrorResponse(w, http.StatusConflict, "Matching already completed")
		return
	}

	resp := models.JoinManitoResponse{JoinedAt: time.Now().UTC()}
	err = h.db.QueryRowContext(r.Context(), `
		INSERT INTO manito_participants (user_id, joined_at)
		VALUES ($1, $2)
		RETURNING id
	`, userID, resp.JoinedAt).Scan(&resp.ParticipantID)

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Already joined")
		return
	}
	if err != nil {
		slog.Error("failed to insert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join")
		return
	}

	slog.Info("manito participant joined", "user_id", userID, "participant_id", resp.ParticipantID)

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// GetMe handles GET /api/manito/me
// Reports the caller's participation and, after the draw, their receiver.
func (h *ManitoHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	var (
		resp   models.ManitoStatusResponse
		joined int
	)
	err := h.db.QueryRowContext(r.Context(), `
		SELECT
			(SELECT COUNT(*) FROM manito_participants WHERE user_id = $1),
			(SELECT COUNT(*) FROM manito_participants)
	`, userID).Scan(&joined, &resp.ParticipantCount)
	if err != nil {
		slog.Error("failed to query participation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	resp.IsParticipant = joined > 0

	var match models.ManitoMatch
	err = h.db.QueryRowContext(r.Context(), `
		SELECT m.receiver_user_id, p.nickname
		FROM manito_matches m
		JOIN profiles p ON p.id = m.receiver_user_id
		WHERE m.giver_user_id = $1
	`, userID).Scan(&match.ReceiverUserID, &match.ReceiverNickname)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		slog.Error("failed to query match", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	default:
		resp.Match = &match
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
