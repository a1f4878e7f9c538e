package analytics

import (
	"sync"
	"time"

	"github.com/wonny/fundlens/backend/pkg/logger"
)

// ReportCache is an in-memory cache for the assembled report payload.
// 报告重算成本高，API 请求间共享同一份结果。
// ⭐ SSOT: 报告的进程内缓存只在这个结构体
type ReportCache struct {
	mu      sync.RWMutex
	report  *FullReport
	builtAt time.Time
	ttl     time.Duration
	logger  *logger.Logger
}

// NewReportCache creates a new report cache
func NewReportCache(ttl time.Duration, log *logger.Logger) *ReportCache {
	return &ReportCache{
		ttl:    ttl,
		logger: log,
	}
}

// Get retrieves the cached report, missing when empty or expired
func (c *ReportCache) Get() (*FullReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.report == nil {
		return nil, false
	}

	if time.Since(c.builtAt) > c.ttl {
		c.logger.WithField("built_at", c.builtAt).Debug("Report cache expired")
		return nil, false
	}

	return c.report, true
}

// Set stores a freshly built report
func (c *ReportCache) Set(report *FullReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
	c.builtAt = time.Now()

	c.logger.WithField("ttl", c.ttl.String()).Debug("Updated report cache")
}

// Invalidate drops the cached report
func (c *ReportCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = nil
}
