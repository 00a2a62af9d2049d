// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package telemetry wires OpenTelemetry tracing to a stdout or file exporter.

	shutdown, err := telemetry.Setup("holiday-tree", version, cfg.TraceOutput)
	defer shutdown(ctx)

TRACE_OUTPUT selects the destination: empty disables tracing, "-" writes to
standard output, anything else is a file path.
*/
package telemetry
