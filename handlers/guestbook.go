// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/middleware"
	"github.com/danielhkuo/holiday-tree/models"
	"github.com/danielhkuo/holiday-tree/placement"
)

type GuestbookHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	layout *placement.Layout
}

func NewGuestbookHandler(db *sql.DB, cfg cliparse.Config, layout *placement.Layout) *GuestbookHandler {
	return &GuestbookHandler{db: db, cfg: cfg, layout: layout}
}

// ListMessages handles GET /api/messages
// Returns every message newest first.
func (h *GuestbookHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := RecentMessages(r.Context(), h.db, 0)
	if err != nil {
		slog.Error("failed to query messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, messages)
}

// PostMessage handles POST /api/messages
func (h *GuestbookHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	var req models.PostMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	content := normalizeText(req.Content)
	if msg := validateLength("content", content, models.MaxMessageLength); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	ok, err := hasProfile(r, h.db, userID)
	if err != nil {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !ok {
		middleware.ErrorResponse(w, http.StatusConflict, "Set a nickname before posting")
		return
	}

	var messageID int64
	err = h.db.QueryRowContext(r.Context(), `
		INSERT INTO messages (user_id, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, content, time.Now().UTC()).Scan(&messageID)

	if err != nil {
		slog.Error("failed to insert message", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to post message")
		return
	}

	slog.Info("message posted", "message_id", messageID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.PostMessageResponse{
		MessageID: messageID,
	})
}

// GetTree handles GET /api/tree
// Lays out the newest messages as ornaments.
func (h *GuestbookHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	messages, err := RecentMessages(r.Context(), h.db, h.cfg.MaxOrnaments)
	if err != nil {
		slog.Error("failed to query messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, BuildTree(h.layout, messages))
}

// BuildTree positions messages on the tree, ordered by message id.
func BuildTree(layout *placement.Layout, messages []models.Message) models.TreeResponse {
	cfg := layout.Config()

	byID := make(map[int64]models.Message, len(messages))
	ids := make([]int64, 0, len(messages))
	for _, m := range messages {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}

	placements := layout.Place(ids)
	ornaments := make([]models.Ornament, 0, len(placements))
	for _, p := range placements {
		m := byID[p.ID]
		left, top := p.Percent(cfg)
		ornaments = append(ornaments, models.Ornament{
			MessageID:   p.ID,
			Nickname:    m.Nickname,
			Content:     m.Content,
			Category:    string(p.Category),
			X:           p.X,
			Y:           p.Y,
			LeftPercent: left,
			TopPercent:  top,
			Fallback:    p.Fallback,
		})
	}

	return models.TreeResponse{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Ornaments: ornaments,
	}
}

// RecentMessages returns up to limit messages newest first; limit <= 0
// returns all of them.
func RecentMessages(ctx context.Context, conn *sql.DB, limit int) ([]models.Message, error) {
	query := `
		SELECT m.id, m.user_id, p.nickname, m.content, m.created_at
		FROM messages m
		JOIN profiles p ON p.id = m.user_id
		ORDER BY m.created_at DESC, m.id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Nickname, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
