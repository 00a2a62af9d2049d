// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	r.Get("/api/messages", middleware.WithLogging(h.List))

Logs request start (method, path, remote) and completion (status,
duration_ms). Every request carries an X-Request-ID, taken from the client
or generated.

# Tracing

WithTracing opens a server span per request on the global OpenTelemetry
tracer provider. See package telemetry for the exporter setup.

# Authentication

RequireUser checks the bearer token on the Authorization header and puts the
caller's id on the request context:

	r.Get("/api/profile", middleware.RequireUser(secret)(h.Get))
	userID, _ := middleware.UserID(r.Context())

# CORS Middleware

CORS allows any origin, methods GET, POST and OPTIONS, and the headers in
CORSAllowHeaders. Preflight requests are answered with 200 "ok".

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.PostMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
