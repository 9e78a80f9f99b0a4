package report

import (
	"io"
)

// ShowHelp prints usage information for the report tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Peloton Season Report
=====================

Loads a season snapshot and prints the league analytics.

Usage:
  go run ./cmd/report [options]

Options:
  -source string
        Snapshot file path or http(s) URL (default "data/season.json")
  -format string
        Output format: text or json (default "text")
  -top int
        Rows per ranked table (default 10)
  -horizon float
        Trend projection horizon in days, at most 365 (default 5)
  -window int
        Trailing history days per projection (default 5)
  -timeout duration
        Fetch timeout (default 10s)
  -retries int
        Retries after a failed fetch; 0 makes a single attempt (default 2)
  -verbose
        Enable verbose logging on stderr
  -help
        Show this help message

Examples:
  # Report on the bundled snapshot
  go run ./cmd/report

  # Project three days ahead from a remote snapshot as JSON
  go run ./cmd/report -source https://example.org/season.json -horizon 3 -format json
`)
}
