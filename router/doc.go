// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the holiday-tree API.

# Route Registration

NewRouter returns a chi router with every endpoint, wrapped in tracing and
CORS middleware:

	r := router.NewRouter(db, cfg, layout, shuffler)

# Endpoints

Health:

	GET /health
	GET /

Secret Santa draw (requires X-Admin-Key):

	POST /manito/run-matching

Profiles (bearer token):

	GET  /api/profile - Own nickname
	POST /api/profile - Choose a nickname (once)

Guestbook:

	GET  /api/messages - All messages, newest first
	POST /api/messages - Post a message (bearer token)
	GET  /api/tree     - Newest messages laid out as ornaments

Manito (bearer token):

	GET  /api/manito/participants - Who has joined
	POST /api/manito/participants - Join before the draw
	GET  /api/manito/me           - Own status and receiver
*/
package router
