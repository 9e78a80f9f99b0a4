package report

import (
	"io"
	"time"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds configuration for one report run.
type Config struct {
	Source  string        // Snapshot file path or http(s) URL
	Format  string        // text or json
	TopN    int           // Rows per ranked table
	Horizon float64       // Trend projection horizon in days
	Window  int           // Trailing history days per projection
	Timeout time.Duration // Fetch timeout
	Retries int           // Retries after a failed fetch
	Out     io.Writer     // Destination of the rendered report
}
