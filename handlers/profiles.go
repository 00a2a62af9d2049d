// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/db"
	"github.com/danielhkuo/holiday-tree/middleware"
	"github.com/danielhkuo/holiday-tree/models"
)

type ProfileHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewProfileHandler(db *sql.DB, cfg cliparse.Config) *ProfileHandler {
	return &ProfileHandler{db: db, cfg: cfg}
}

// normalizeText trims surrounding space and composes the text to NFC so
// visually identical nicknames compare equal.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// validateLength checks a normalized value is non-empty and within max runes.
func validateLength(field, value string, max int) string {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return field + " is required"
	}
	if n > max {
		return field + " is too long"
	}
	return ""
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	var profile models.Profile
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, nickname, created_at FROM profiles WHERE id = $1
	`, userID).Scan(&profile.ID, &profile.Nickname, &profile.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Nickname not set")
		return
	}
	if err != nil {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, profile)
}

// SetNickname handles POST /api/profile
// A nickname is set once and must be unique.
func (h *ProfileHandler) SetNickname(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	var req models.SetNicknameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	nickname := normalizeText(req.Nickname)
	if msg := validateLength("nickname", nickname, models.MaxNicknameLength); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	var existing string
	err := h.db.QueryRowContext(r.Context(), "SELECT nickname FROM profiles WHERE id = $1", userID).Scan(&existing)
	if err == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Nickname already set")
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	profile := models.Profile{ID: userID, Nickname: nickname, CreatedAt: time.Now().UTC()}
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO profiles (id, nickname, created_at)
		VALUES ($1, $2, $3)
	`, profile.ID, profile.Nickname, profile.CreatedAt)

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Nickname already taken")
		return
	}
	if err != nil {
		slog.Error("failed to insert profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save nickname")
		return
	}

	slog.Info("nickname set", "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, profile)
}

// hasProfile reports whether userID has chosen a nickname.
func hasProfile(r *http.Request, conn *sql.DB, userID string) (bool, error) {
	var exists int
	err := conn.QueryRowContext(r.Context(), "SELECT 1 FROM profiles WHERE id = $1", userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
