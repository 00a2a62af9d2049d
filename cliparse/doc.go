// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

Commands register the flags on their cobra flag set and resolve them after
parsing, then validate what they need:

	flags := cliparse.Register(root.PersistentFlags())
	// ... cobra parses ...
	cfg, err := flags.Resolve()
	err = cfg.Validate()          // serve
	err = cfg.ValidateDatabase()  // match, layout

ParseFlags does both steps on a standalone flag set:

	cfg, err := cliparse.ParseFlags(args)

# Sources

Values are read in this order, later sources winning:

 1. defaults (struct tags)
 2. a .env file in the working directory, if present
 3. environment variables
 4. flags set explicitly on the command line

# Config Fields

	PORT           -p, --port           Server port (default: 3318)
	DATABASE_URL   -d, --database-url   Connection string (required)
	DATABASE_TYPE  -t, --database-type  postgres (default) or sqlite
	JWT_SECRET     --jwt-secret         HS256 secret for user tokens (required)
	ADMIN_KEY      --admin-key          Key for triggering the draw (required)
	LAYOUT_CONFIG  --layout-config      YAML tree layout overrides
	MAX_ORNAMENTS  --max-ornaments      Newest messages on the tree (default: 50, 0 = all)
	TRACE_OUTPUT   --trace-output       Trace destination; empty disables tracing
*/
package cliparse
