package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/report"
	"github.com/okian/peloton/pkg/logger"
)

// Default configuration constants.
const (
	defaultSource   = "data/season.json"
	defaultTopN     = 10
	defaultHorizon  = 5.0
	defaultWindow   = 5
	defaultTimeout  = 10 * time.Second
	defaultRetries  = 2
	defaultRunLimit = 2 * time.Minute
)

func main() {
	var (
		source  = flag.String("source", defaultSource, "Snapshot file path or http(s) URL")
		format  = flag.String("format", report.FormatText, "Output format: text or json")
		topN    = flag.Int("top", defaultTopN, "Rows per ranked table")
		horizon = flag.Float64("horizon", defaultHorizon, "Trend projection horizon in days")
		window  = flag.Int("window", defaultWindow, "Trailing history days per projection")
		timeout = flag.Duration("timeout", defaultTimeout, "Fetch timeout")
		retries = flag.Int("retries", defaultRetries, "Retries after a failed fetch")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		report.ShowHelp(os.Stdout)
		return
	}

	// Logs go to stderr so the report itself can be piped.
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	config := &report.Config{
		Source:  *source,
		Format:  *format,
		TopN:    *topN,
		Horizon: *horizon,
		Window:  *window,
		Timeout: *timeout,
		Retries: *retries,
		Out:     os.Stdout,
	}

	if err := report.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Report failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
