package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

var _ player.Repository = (*PlayerRepository)(nil)

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) Insert(_ context.Context, p player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.players[p.ID]; exists {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	r.store.players[p.ID] = clonePlayer(p)
	r.store.playerOrder = append(r.store.playerOrder, p.ID)

	return nil
}

func (r *PlayerRepository) Update(_ context.Context, p player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.players[p.ID]; !exists {
		return fmt.Errorf("player %s not found", p.ID)
	}
	r.store.players[p.ID] = clonePlayer(p)

	return nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.players[id]
	if !ok {
		return player.Player{}, false, nil
	}

	return clonePlayer(p), true, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, ids []string) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.store.players[id]; ok {
			out = append(out, clonePlayer(p))
		}
	}

	return out, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(r.store.playerOrder))
	for _, id := range r.store.playerOrder {
		out = append(out, clonePlayer(r.store.players[id]))
	}

	return out, nil
}

func (r *PlayerRepository) FindByNameAndBirthDate(_ context.Context, name string, dateOfBirth time.Time) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.playerOrder {
		p := r.store.players[id]
		if strings.EqualFold(p.Name, name) && sameCalendarDay(p.DateOfBirth, dateOfBirth) {
			return clonePlayer(p), true, nil
		}
	}

	return player.Player{}, false, nil
}

func (r *PlayerRepository) ListByCurrentClub(_ context.Context, clubID string) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []player.Player
	for _, id := range r.store.playerOrder {
		if p := r.store.players[id]; p.PlaysForClub(clubID) {
			out = append(out, clonePlayer(p))
		}
	}

	return out, nil
}

func (r *PlayerRepository) ListByClubAt(_ context.Context, clubID string, at time.Time) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []player.Player
	for _, id := range r.store.playerOrder {
		if p := r.store.players[id]; p.PlayedForClubAt(clubID, at) {
			out = append(out, clonePlayer(p))
		}
	}

	return out, nil
}

func (r *PlayerRepository) ListByNationalTeam(_ context.Context, country, teamType string, asOf time.Time) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []player.Player
	for _, id := range r.store.playerOrder {
		if p := r.store.players[id]; p.PlaysForNationalTeam(country, teamType, asOf) {
			out = append(out, clonePlayer(p))
		}
	}

	return out, nil
}

func (r *PlayerRepository) ListIDsWithMatchEntry(_ context.Context, matchID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []string
	for _, id := range r.store.playerOrder {
		for _, e := range r.store.players[id].RatingHistory {
			if e.Type == player.EntryTypeMatch && e.MatchID == matchID {
				out = append(out, id)
				break
			}
		}
	}
	sort.Strings(out)

	return out, nil
}

// AppendMatchEntries writes one entry per player, replacing any existing
// entry for the same match so the write is idempotent. All players are
// checked before the first mutation.
func (r *PlayerRepository) AppendMatchEntries(_ context.Context, matchID string, entries map[string]player.RatingEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.appendMatchEntriesLocked(matchID, entries)
}

// ReplaceMatchEntries reconciles the ledger for one match atomically: removed
// players lose their entry, every keyed player ends with exactly one.
func (r *PlayerRepository) ReplaceMatchEntries(_ context.Context, matchID string, entries map[string]player.RatingEntry, removedPlayerIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id := range entries {
		if _, ok := r.store.players[id]; !ok {
			return fmt.Errorf("player %s not found", id)
		}
	}

	for _, id := range removedPlayerIDs {
		if p, ok := r.store.players[id]; ok {
			p.RatingHistory = entriesWithoutMatch(p.RatingHistory, matchID)
			r.store.players[id] = p
		}
	}

	return r.appendMatchEntriesLocked(matchID, entries)
}

func (r *PlayerRepository) RemoveMatchEntries(_ context.Context, matchID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, p := range r.store.players {
		p.RatingHistory = entriesWithoutMatch(p.RatingHistory, matchID)
		r.store.players[id] = p
	}

	return nil
}

func (r *PlayerRepository) appendMatchEntriesLocked(matchID string, entries map[string]player.RatingEntry) error {
	for id := range entries {
		if _, ok := r.store.players[id]; !ok {
			return fmt.Errorf("player %s not found", id)
		}
	}

	for id, entry := range entries {
		p := r.store.players[id]
		p.RatingHistory = append(entriesWithoutMatch(p.RatingHistory, matchID), entry)
		r.store.players[id] = p
	}

	return nil
}

func entriesWithoutMatch(history []player.RatingEntry, matchID string) []player.RatingEntry {
	out := make([]player.RatingEntry, 0, len(history))
	for _, e := range history {
		if e.Type == player.EntryTypeMatch && e.MatchID == matchID {
			continue
		}
		out = append(out, e)
	}

	return out
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()

	return ay == by && am == bm && ad == bd
}

// clonePlayer deep-copies the slices so callers never alias stored state.
func clonePlayer(p player.Player) player.Player {
	out := p
	if p.CurrentClub != nil {
		stint := *p.CurrentClub
		out.CurrentClub = &stint
	}
	out.PreviousClubs = append([]player.ClubStint(nil), p.PreviousClubs...)
	out.NationalTeams = append([]player.Tenure(nil), p.NationalTeams...)
	out.RatingHistory = append([]player.RatingEntry(nil), p.RatingHistory...)

	return out
}
