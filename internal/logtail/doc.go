// Package logtail reads the tail of Kitchen's log file for the in-app log
// view.
//
// # Reading
//
// Read returns the last maxLines lines of a file in one pass, keeping only a
// ring buffer of maxLines entries in memory. A missing file is not an error;
// it simply has no lines yet. Lines longer than 1MB fail the read.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Parsing
//
// Kitchen logs through slog's text handler, so every line is a sequence of
// key=value pairs:
//
//	time=2026-10-19T09:12:44.120+02:00 level=WARN msg="api request failed" key="[\"tags\"]" error="Network Error: No response received from server"
//
// ParseLine splits such a line into an Entry with its time, level, message
// and remaining attributes. Quoted values are unquoted. Anything that does
// not parse is returned with Message set to the raw line, so the log view
// can still show it.
package logtail
