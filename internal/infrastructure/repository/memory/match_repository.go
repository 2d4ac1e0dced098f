package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

var _ match.Repository = (*MatchRepository)(nil)

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) Insert(_ context.Context, m match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.matches[m.ID]; exists {
		return fmt.Errorf("match %s already exists", m.ID)
	}
	r.store.matches[m.ID] = cloneMatch(m)
	r.store.matchOrder = append(r.store.matchOrder, m.ID)

	return nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.matches[m.ID]; !exists {
		return fmt.Errorf("match %s not found", m.ID)
	}
	r.store.matches[m.ID] = cloneMatch(m)

	return nil
}

func (r *MatchRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.matches, id)
	r.store.matchOrder = removeID(r.store.matchOrder, id)

	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}

	return cloneMatch(m), true, nil
}

// List pages matches newest first, optionally filtered by a venue substring.
func (r *MatchRepository) List(_ context.Context, filter match.ListFilter) ([]match.Match, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var all []match.Match
	for _, id := range r.store.matchOrder {
		m := r.store.matches[id]
		if filter.Search != "" && !strings.Contains(strings.ToLower(m.Venue), strings.ToLower(strings.TrimSpace(filter.Search))) {
			continue
		}
		all = append(all, cloneMatch(m))
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	total := len(all)
	start := (filter.Page - 1) * filter.PerPage
	if start < 0 || start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.PerPage
	if end > len(all) {
		end = len(all)
	}

	return all[start:end], total, nil
}

func (r *MatchRepository) FindByTeamOnDay(_ context.Context, kind match.Kind, teamID string, day time.Time) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.matchOrder {
		m := r.store.matches[id]
		if m.Kind != kind || !match.SameDay(m.Date, day) {
			continue
		}
		if m.Home.TeamID == teamID || m.Away.TeamID == teamID {
			return cloneMatch(m), true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) ListIDsOlderThan(_ context.Context, cutoff time.Time) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []string
	for _, id := range r.store.matchOrder {
		if r.store.matches[id].Date.Before(cutoff) {
			out = append(out, id)
		}
	}

	return out, nil
}

func cloneMatch(m match.Match) match.Match {
	out := m
	out.Home.Lineup = append([]match.Appearance(nil), m.Home.Lineup...)
	out.Away.Lineup = append([]match.Appearance(nil), m.Away.Lineup...)

	return out
}
