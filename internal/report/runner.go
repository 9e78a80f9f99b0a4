// Package report renders the season analytics of one snapshot for the
// command line.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/peloton/internal/adapters/snapshot"
	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/pkg/logger"
)

// ErrUnknownFormat is returned for an output format other than text or json.
var ErrUnknownFormat = errors.New("unknown report format")

// document is the JSON form of a report run.
type document struct {
	RunID       string            `json:"run_id"`
	Source      string            `json:"source"`
	GeneratedAt time.Time         `json:"generated_at"`
	Report      *analytics.Report `json:"report"`
}

// Run loads the snapshot, analyses it and writes the report to cfg.Out.
func Run(ctx context.Context, cfg *Config) error {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, cfg.Format)
	}
	if !analytics.ValidHorizon(cfg.Horizon) {
		return fmt.Errorf("%w: %v days", analytics.ErrHorizonOutOfRange, cfg.Horizon)
	}

	runID := uuid.NewString()
	log := logger.Get().Named("report")
	log.Info(ctx, "starting season report",
		logger.String("run_id", runID),
		logger.String("source", cfg.Source),
		logger.String("format", format),
	)

	loader := snapshot.NewLoader(cfg.Source,
		snapshot.WithTimeout(cfg.Timeout),
		snapshot.WithRetries(cfg.Retries),
		snapshot.WithLogger(log),
	)
	snap, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	engine := analytics.NewEngine(
		analytics.WithTopN(cfg.TopN),
		analytics.WithTrendWindow(cfg.Window),
		analytics.WithHorizonDays(cfg.Horizon),
	)
	rep := engine.Analyse(snap)

	if format == FormatJSON {
		enc := json.NewEncoder(cfg.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(document{RunID: runID, Source: snap.Source, GeneratedAt: time.Now().UTC(), Report: rep})
	}

	r := &renderer{w: cfg.Out, top: cfg.TopN}
	r.header(runID, snap.Source, rep)
	r.render(rep)
	if r.err != nil {
		return fmt.Errorf("write report: %w", r.err)
	}
	log.Info(ctx, "season report written", logger.String("run_id", runID))
	return nil
}
