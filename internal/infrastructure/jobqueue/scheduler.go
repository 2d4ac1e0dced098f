package jobqueue

import (
	"context"
	"time"

	"github.com/footylytics/rating-engine/internal/platform/logging"
)

// Publisher is the queue-side contract the schedulers need.
type Publisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

const purgeJobPath = "/internal/jobs/purge-matches"

type PurgeSchedulerConfig struct {
	Interval      time.Duration
	RetentionDays int
	Workers       int
}

// PurgeScheduler periodically enqueues the match purge job. The queue calls
// the service back on the internal job endpoint, so a multi-replica deployment
// still runs the purge once per schedule via the deduplication id.
type PurgeScheduler struct {
	publisher     Publisher
	interval      time.Duration
	retentionDays int
	workers       int
	logger        *logging.Logger
}

func NewPurgeScheduler(publisher Publisher, cfg PurgeSchedulerConfig, logger *logging.Logger) *PurgeScheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PurgeScheduler{
		publisher:     publisher,
		interval:      interval,
		retentionDays: cfg.RetentionDays,
		workers:       cfg.Workers,
		logger:        logger,
	}
}

// Run blocks until the context is cancelled.
func (s *PurgeScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.PublishPurge(ctx)
		}
	}
}

// PublishPurge enqueues one purge job, deduplicated per UTC day.
func (s *PurgeScheduler) PublishPurge(ctx context.Context) {
	deduplicationID := "purge-matches-" + time.Now().UTC().Format("2006-01-02")
	payload := map[string]int{
		"retentionDays": s.retentionDays,
		"workers":       s.workers,
	}

	if err := s.publisher.Enqueue(ctx, purgeJobPath, payload, 0, deduplicationID); err != nil {
		s.logger.ErrorContext(ctx, "schedule purge job failed", "error", err)
		return
	}

	s.logger.InfoContext(ctx, "purge job scheduled", "deduplication_id", deduplicationID, "retention_days", s.retentionDays)
}
