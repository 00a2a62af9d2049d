// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the holiday-tree command: the API server and its
maintenance commands.

holiday-tree backs a holiday guestbook whose messages hang as ornaments on
a tree, and a Secret Santa ("Manito") draw among the users who join.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... JWT_SECRET=... ADMIN_KEY=... go run . serve

Or against a local SQLite file:

	go run . -t sqlite -d file:holiday.db --jwt-secret dev --admin-key dev serve

# Commands

  - serve: HTTP API server, shut down gracefully on SIGINT/SIGTERM
  - match: run the draw from the command line (--seed for a reproducible draw)
  - layout: print ornament positions as YAML for --ids or the stored messages
  - token: issue a bearer token for local development

# Configuration

Required settings (serve):

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite file
  - JWT_SECRET (--jwt-secret): HS256 secret for user bearer tokens
  - ADMIN_KEY (--admin-key): Key for POST /manito/run-matching

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres (default) or sqlite
  - LAYOUT_CONFIG: YAML file overriding the tree geometry
  - MAX_ORNAMENTS: Newest messages on the tree (default: 50)
  - TRACE_OUTPUT: "-" or a file path to export OpenTelemetry spans

# Architecture

  - matching: Secret Santa cycle generation
  - placement: Non-overlapping ornament layout
  - handlers: HTTP request handlers (profiles, guestbook, manito)
  - router: chi route definitions
  - middleware: CORS, logging, tracing, auth, JSON helpers
  - models: Request/response types
  - auth: Bearer tokens and the admin key
  - db: Drivers, schema and the match store
  - telemetry: Trace exporter setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
