// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/handlers"
	"github.com/danielhkuo/holiday-tree/matching"
	"github.com/danielhkuo/holiday-tree/middleware"
	"github.com/danielhkuo/holiday-tree/placement"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, layout *placement.Layout, shuffler matching.Shuffler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.WithTracing)
	r.Use(middleware.CORS)

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(db, cfg)
	guestbookHandler := handlers.NewGuestbookHandler(db, cfg, layout)
	manitoHandler := handlers.NewManitoHandler(db, cfg, shuffler)

	user := middleware.RequireUser(cfg.JWTSecret)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Matching trigger (admin key)
	r.Post("/manito/run-matching", middleware.WithLogging(manitoHandler.RunMatching))

	r.Route("/api", func(r chi.Router) {
		// Profiles
		r.Get("/profile", middleware.WithLogging(user(profileHandler.GetProfile)))
		r.Post("/profile", middleware.WithLogging(user(profileHandler.SetNickname)))

		// Guestbook (reads are public)
		r.Get("/messages", middleware.WithLogging(guestbookHandler.ListMessages))
		r.Post("/messages", middleware.WithLogging(user(guestbookHandler.PostMessage)))
		r.Get("/tree", middleware.WithLogging(guestbookHandler.GetTree))

		// Manito
		r.Get("/manito/participants", middleware.WithLogging(user(manitoHandler.ListParticipants)))
		r.Post("/manito/participants", middleware.WithLogging(user(manitoHandler.Join)))
		r.Get("/manito/me", middleware.WithLogging(user(manitoHandler.GetMe)))
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("holiday-tree API v1"))
	})

	return r
}
