package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/internal/nav"
)

// SnapshotRepository persists daily metric snapshots.
// ⭐ SSOT: 报告快照只在这里落库
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// SaveMetrics upserts the metric bundle for a valuation date.
func (r *SnapshotRepository) SaveMetrics(ctx context.Context, date string, metrics nav.AllMetrics) error {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics snapshot: %w", err)
	}

	query := `
		INSERT INTO fund.metric_snapshots (snapshot_date, metrics, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (snapshot_date) DO UPDATE SET
			metrics = EXCLUDED.metrics,
			created_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, d, payload); err != nil {
		return fmt.Errorf("save metrics snapshot %s: %w", date, err)
	}
	return nil
}

// LatestMetrics retrieves the most recent metric snapshot.
func (r *SnapshotRepository) LatestMetrics(ctx context.Context) (string, *nav.AllMetrics, error) {
	query := `
		SELECT snapshot_date, metrics
		FROM fund.metric_snapshots
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	var date time.Time
	var payload []byte
	if err := r.pool.QueryRow(ctx, query).Scan(&date, &payload); err != nil {
		return "", nil, fmt.Errorf("query latest metrics snapshot: %w", err)
	}

	var metrics nav.AllMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return "", nil, fmt.Errorf("decode metrics snapshot: %w", err)
	}
	return calendar.FormatDate(date), &metrics, nil
}
