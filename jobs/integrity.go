package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/orderdesk/internal/jobs"
	"github.com/odyssey-erp/orderdesk/internal/integrity"
)

// IntegrityScanner runs one integrity pass.
type IntegrityScanner interface {
	Scan(ctx context.Context) (integrity.Report, error)
}

// IntegrityJob logs and counts every violation the scanner reports.
type IntegrityJob struct {
	Scanner IntegrityScanner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewIntegrityJob initialises the integrity scan handler.
func NewIntegrityJob(scanner IntegrityScanner, logger *slog.Logger, metrics *jobmetrics.Metrics) *IntegrityJob {
	return &IntegrityJob{Scanner: scanner, Logger: logger, Metrics: metrics}
}

// Handle executes the scan. Violations are reported, not repaired.
func (j *IntegrityJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Scanner == nil {
		return errors.New("integrity job: scanner not configured")
	}
	var payload IntegrityPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	run := j.Metrics.Start(TaskInventoryIntegrity)
	defer func() {
		resultErr = run.Finish(resultErr)
	}()

	start := time.Now()
	logger := j.logger().With(slog.String("source", payload.Source))
	logger.Info("starting integrity scan")

	report, err := j.Scanner.Scan(ctx)
	if err != nil {
		logger.Error("integrity scan failed", slog.Any("error", err))
		return err
	}

	for _, v := range report.Violations {
		logger.Warn("integrity violation",
			slog.String("kind", v.Kind),
			slog.String("entity", v.Entity),
			slog.Int64("entity_id", v.EntityID),
			slog.String("detail", v.Detail),
		)
	}
	j.Metrics.SetViolations(report.ByKind)

	logger.Info("completed integrity scan",
		slog.Int("violations", len(report.Violations)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *IntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskInventoryIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskInventoryIntegrity))
}
