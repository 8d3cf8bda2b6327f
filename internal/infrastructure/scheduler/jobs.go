package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CountCachePurgeJobName names the job that drops expired payslip counts
const CountCachePurgeJobName = "count-cache-purge"

// Purger drops expired entries and reports how many were removed
type Purger interface {
	Purge() int
}

// NewCountCachePurgeJob builds the job that purges expired entries of the
// in-memory payslip count cache
func NewCountCachePurgeJob(cache Purger, interval time.Duration, logger *zap.Logger) Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Job{
		Name:     CountCachePurgeJobName,
		Interval: interval,
		Run: func(ctx context.Context) error {
			if removed := cache.Purge(); removed > 0 {
				logger.Debug("Purged expired payslip counts", zap.Int("removed", removed))
			}
			return nil
		},
	}
}
