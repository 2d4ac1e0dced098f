package usecase

import (
	"context"
	"fmt"

	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/player"
	"github.com/footylytics/rating-engine/internal/platform/cache"
	"github.com/footylytics/rating-engine/internal/platform/logging"
)

// standingsCachePrefix keys every memoised aggregation result. Ledger writes
// invalidate the whole prefix so standings never serve stale squads.
const standingsCachePrefix = "standings:"

// LedgerService owns all rating history mutations. Every write path that
// touches match-type rating entries goes through here, which keeps the
// at-most-one-entry-per-(player, match) invariant in one place.
type LedgerService struct {
	playerRepo player.Repository
	matchRepo  match.Repository
	cache      *cache.Store
	logger     *logging.Logger
}

func NewLedgerService(playerRepo player.Repository, matchRepo match.Repository, cacheStore *cache.Store, logger *logging.Logger) *LedgerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LedgerService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		cache:      cacheStore,
		logger:     logger,
	}
}

// RecordMatch writes one rating entry per starter on both sides, all dated at
// the match date. The repository write is all-or-nothing.
func (s *LedgerService) RecordMatch(ctx context.Context, m match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.RecordMatch")
	defer span.End()

	entries := matchEntries(m)
	if len(entries) == 0 {
		return nil
	}

	if err := s.playerRepo.AppendMatchEntries(ctx, m.ID, entries); err != nil {
		return fmt.Errorf("append match entries: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "match recorded in ledger", "match_id", m.ID, "entries", len(entries))
	return nil
}

// ReviseMatch reconciles the ledger after a match update. Players absent from
// the new starter lists lose their entry for this match, every current
// starter ends up with exactly one entry carrying the new delta. The whole
// reconciliation happens in a single repository transaction, so a reader
// never observes the intermediate state.
func (s *LedgerService) ReviseMatch(ctx context.Context, m match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.ReviseMatch")
	defer span.End()

	entries := matchEntries(m)

	previouslyRated, err := s.playerRepo.ListIDsWithMatchEntry(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("list previously rated players: %w", err)
	}

	removed := make([]string, 0, len(previouslyRated))
	for _, id := range previouslyRated {
		if _, stillStarting := entries[id]; !stillStarting {
			removed = append(removed, id)
		}
	}

	if err := s.playerRepo.ReplaceMatchEntries(ctx, m.ID, entries, removed); err != nil {
		return fmt.Errorf("replace match entries: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "match revised in ledger", "match_id", m.ID, "entries", len(entries), "removed", len(removed))
	return nil
}

// RemoveMatch deletes every rating entry referencing the match and then the
// match itself. Entries go first so a crash in between leaves no entry
// pointing at a missing match; re-running the removal completes it.
func (s *LedgerService) RemoveMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.RemoveMatch")
	defer span.End()

	if err := s.playerRepo.RemoveMatchEntries(ctx, matchID); err != nil {
		return fmt.Errorf("remove match entries: %w", err)
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "match removed from ledger", "match_id", matchID)
	return nil
}

func (s *LedgerService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, standingsCachePrefix)
	}
}

func matchEntries(m match.Match) map[string]player.RatingEntry {
	entries := make(map[string]player.RatingEntry)
	for _, id := range m.Home.StarterIDs() {
		entries[id] = player.RatingEntry{
			Date:      m.Date,
			NewRating: m.Outcome.HomeChange,
			Type:      player.EntryTypeMatch,
			MatchID:   m.ID,
		}
	}
	for _, id := range m.Away.StarterIDs() {
		entries[id] = player.RatingEntry{
			Date:      m.Date,
			NewRating: m.Outcome.AwayChange,
			Type:      player.EntryTypeMatch,
			MatchID:   m.ID,
		}
	}

	return entries
}
