package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fundlens/backend/internal/analytics"
	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/pkg/config"
	"github.com/wonny/fundlens/backend/pkg/logger"
)

// MetricsSnapshotJob recomputes the full metric bundle daily and persists it
// ⭐ SSOT: 指标快照的定时任务只在这里
type MetricsSnapshotJob struct {
	service   *analytics.Service
	snapshots *analytics.SnapshotRepository
	calendar  *calendar.Calendar
	config    *config.Config
	logger    *logger.Logger
}

// NewMetricsSnapshotJob creates a new metrics snapshot job
func NewMetricsSnapshotJob(svc *analytics.Service, repo *analytics.SnapshotRepository, cfg *config.Config, log *logger.Logger) *MetricsSnapshotJob {
	return &MetricsSnapshotJob{
		service:   svc,
		snapshots: repo,
		calendar:  calendar.NewSSE(),
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *MetricsSnapshotJob) Name() string {
	return "metrics_snapshot"
}

// Schedule returns the cron schedule (every day at 5 PM)
func (j *MetricsSnapshotJob) Schedule() string {
	return "0 0 17 * * *" // 5 PM daily (with seconds)
}

// Run recomputes the report and stores the latest metric snapshot
func (j *MetricsSnapshotJob) Run(ctx context.Context) error {
	today := calendar.FormatDate(time.Now())
	if trading, err := j.calendar.IsTradingDay(today); err == nil && !trading {
		j.logger.WithField("date", today).Info("Non-trading day, skipping metrics snapshot")
		return nil
	}

	j.logger.Info("Starting scheduled metrics snapshot")

	full, err := j.service.BuildFullReport(ctx)
	if err != nil {
		return fmt.Errorf("build full report: %w", err)
	}

	date := full.Overview.LatestNavDate
	if date == "" {
		return fmt.Errorf("report has no nav date")
	}

	if err := j.snapshots.SaveMetrics(ctx, date, full.Metrics); err != nil {
		return fmt.Errorf("save metrics snapshot: %w", err)
	}

	j.logger.WithField("snapshot_date", date).Info("Scheduled metrics snapshot completed successfully")
	return nil
}
