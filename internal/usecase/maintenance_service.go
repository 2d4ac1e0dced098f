package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/platform/logging"
)

const defaultPurgeWorkers = 4

// MaintenanceService runs bulk housekeeping jobs. Purges fan out over a
// bounded worker pool; each match is removed through the ledger so its rating
// entries disappear with it, and one failed match never aborts the rest.
type MaintenanceService struct {
	matchRepo match.Repository
	ledger    *LedgerService
	logger    *logging.Logger
}

func NewMaintenanceService(matchRepo match.Repository, ledger *LedgerService, logger *logging.Logger) *MaintenanceService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MaintenanceService{
		matchRepo: matchRepo,
		ledger:    ledger,
		logger:    logger,
	}
}

type PurgeResult struct {
	Scanned int
	Purged  int
	Failed  int
	Cutoff  time.Time
}

// PurgeMatchesOlderThan removes every match dated before the cutoff together
// with its rating entries.
func (s *MaintenanceService) PurgeMatchesOlderThan(ctx context.Context, cutoff time.Time, workerCount int) (PurgeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.PurgeMatchesOlderThan")
	defer span.End()

	if cutoff.IsZero() {
		return PurgeResult{}, fmt.Errorf("%w: cutoff is required", ErrInvalidInput)
	}
	if workerCount <= 0 {
		workerCount = defaultPurgeWorkers
	}

	ids, err := s.matchRepo.ListIDsOlderThan(ctx, cutoff)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("list matches older than cutoff: %w", err)
	}

	result := PurgeResult{Scanned: len(ids), Cutoff: cutoff}
	if len(ids) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var purged, failed atomic.Int32
	var workers sync.WaitGroup
	for _, id := range ids {
		id := id
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if err := s.ledger.RemoveMatch(ctx, id); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "purge match failed", "match_id", id, "error", err)
				return
			}
			purged.Add(1)
		}); err != nil {
			workers.Done()
			return PurgeResult{}, fmt.Errorf("submit purge task: %w", err)
		}
	}
	workers.Wait()

	result.Purged = int(purged.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "match purge finished",
		"cutoff", cutoff.Format("2006-01-02"),
		"scanned", result.Scanned,
		"purged", result.Purged,
		"failed", result.Failed,
	)
	return result, nil
}
