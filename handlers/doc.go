// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the holiday-tree API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ProfileHandler: Nickname selection
  - GuestbookHandler: Messages and the ornament tree
  - ManitoHandler: Secret Santa participation and the draw

Handlers are created via constructor functions:

	profileHandler := handlers.NewProfileHandler(db, cfg)
	guestbookHandler := handlers.NewGuestbookHandler(db, cfg, layout)
	manitoHandler := handlers.NewManitoHandler(db, cfg, shuffler)

Authenticated handlers read the caller from middleware.UserID, set by
middleware.RequireUser.

# Profiles

A user picks a nickname once. Nicknames are trimmed, NFC-normalized, at most
20 characters and unique:

	POST /api/profile → SetNickname (409 when taken or already set)

# Guestbook

	GET  /api/messages → ListMessages (newest first)
	POST /api/messages → PostMessage (requires a nickname)
	GET  /api/tree     → GetTree

GetTree takes the newest MAX_ORNAMENTS messages and positions them with
placement.Layout; positions are returned in canvas units and as percentages.

# Manito

Users join until the draw runs:

	POST /api/manito/participants → Join
	POST /manito/run-matching     → RunMatching (X-Admin-Key)

RunMatching answers in the {"error": ...} shape: 400 for too few participants
or a repeated draw, 500 with the storage error otherwise.
*/
package handlers
