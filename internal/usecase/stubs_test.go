package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/fixture"
	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
)

// Hand-rolled repository stubs shared by the service tests. The player and
// match stubs carry a mutex because purge and aggregation paths hit them from
// worker goroutines.

type stubPlayerRepo struct {
	mu      sync.Mutex
	players map[string]player.Player
	order   []string
}

var _ player.Repository = (*stubPlayerRepo)(nil)

func newStubPlayerRepo(players ...player.Player) *stubPlayerRepo {
	r := &stubPlayerRepo{players: make(map[string]player.Player)}
	for _, p := range players {
		r.players[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *stubPlayerRepo) Insert(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubPlayerRepo) Update(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[p.ID]; !ok {
		return fmt.Errorf("player %s not found", p.ID)
	}
	r.players[p.ID] = p
	return nil
}

func (r *stubPlayerRepo) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	return p, ok, nil
}

func (r *stubPlayerRepo) GetByIDs(_ context.Context, ids []string) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPlayerRepo) List(_ context.Context) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out, nil
}

func (r *stubPlayerRepo) FindByNameAndBirthDate(_ context.Context, name string, dob time.Time) (player.Player, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		p := r.players[id]
		if strings.EqualFold(p.Name, name) && sameDate(p.DateOfBirth, dob) {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *stubPlayerRepo) ListByCurrentClub(_ context.Context, clubID string) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []player.Player
	for _, id := range r.order {
		if p := r.players[id]; p.PlaysForClub(clubID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPlayerRepo) ListByClubAt(_ context.Context, clubID string, at time.Time) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []player.Player
	for _, id := range r.order {
		if p := r.players[id]; p.PlayedForClubAt(clubID, at) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPlayerRepo) ListByNationalTeam(_ context.Context, country, teamType string, asOf time.Time) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []player.Player
	for _, id := range r.order {
		if p := r.players[id]; p.PlaysForNationalTeam(country, teamType, asOf) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPlayerRepo) ListIDsWithMatchEntry(_ context.Context, matchID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, id := range r.order {
		for _, e := range r.players[id].RatingHistory {
			if e.Type == player.EntryTypeMatch && e.MatchID == matchID {
				out = append(out, id)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubPlayerRepo) AppendMatchEntries(_ context.Context, matchID string, entries map[string]player.RatingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.appendMatchEntriesLocked(matchID, entries)
}

func (r *stubPlayerRepo) appendMatchEntriesLocked(matchID string, entries map[string]player.RatingEntry) error {
	for id := range entries {
		if _, ok := r.players[id]; !ok {
			return fmt.Errorf("player %s not found", id)
		}
	}
	for id, entry := range entries {
		p := r.players[id]
		p.RatingHistory = append(withoutMatchEntry(p.RatingHistory, matchID), entry)
		r.players[id] = p
	}
	return nil
}

func (r *stubPlayerRepo) ReplaceMatchEntries(_ context.Context, matchID string, entries map[string]player.RatingEntry, removedPlayerIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range removedPlayerIDs {
		if p, ok := r.players[id]; ok {
			p.RatingHistory = withoutMatchEntry(p.RatingHistory, matchID)
			r.players[id] = p
		}
	}
	return r.appendMatchEntriesLocked(matchID, entries)
}

func (r *stubPlayerRepo) RemoveMatchEntries(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.players {
		p.RatingHistory = withoutMatchEntry(p.RatingHistory, matchID)
		r.players[id] = p
	}
	return nil
}

func withoutMatchEntry(history []player.RatingEntry, matchID string) []player.RatingEntry {
	out := make([]player.RatingEntry, 0, len(history))
	for _, e := range history {
		if e.Type == player.EntryTypeMatch && e.MatchID == matchID {
			continue
		}
		out = append(out, e)
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

type stubClubRepo struct {
	clubs map[string]club.Club
	order []string
}

var _ club.Repository = (*stubClubRepo)(nil)

func newStubClubRepo(clubs ...club.Club) *stubClubRepo {
	r := &stubClubRepo{clubs: make(map[string]club.Club)}
	for _, c := range clubs {
		r.clubs[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r
}

func (r *stubClubRepo) Insert(_ context.Context, c club.Club) error {
	r.clubs[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubClubRepo) Update(_ context.Context, c club.Club) error {
	r.clubs[c.ID] = c
	return nil
}

func (r *stubClubRepo) Delete(_ context.Context, id string) error {
	delete(r.clubs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubClubRepo) GetByID(_ context.Context, id string) (club.Club, bool, error) {
	c, ok := r.clubs[id]
	return c, ok, nil
}

func (r *stubClubRepo) FindByName(_ context.Context, name string) (club.Club, bool, error) {
	for _, id := range r.order {
		if strings.EqualFold(r.clubs[id].Name, name) {
			return r.clubs[id], true, nil
		}
	}
	return club.Club{}, false, nil
}

func (r *stubClubRepo) List(_ context.Context) ([]club.Club, error) {
	out := make([]club.Club, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clubs[id])
	}
	return out, nil
}

func (r *stubClubRepo) ListActive(_ context.Context) ([]club.Club, error) {
	var out []club.Club
	for _, id := range r.order {
		if r.clubs[id].IsActive() {
			out = append(out, r.clubs[id])
		}
	}
	return out, nil
}

type stubTeamRepo struct {
	teams map[string]nationalteam.Team
	order []string
}

var _ nationalteam.Repository = (*stubTeamRepo)(nil)

func newStubTeamRepo(teams ...nationalteam.Team) *stubTeamRepo {
	r := &stubTeamRepo{teams: make(map[string]nationalteam.Team)}
	for _, t := range teams {
		r.teams[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return r
}

func (r *stubTeamRepo) Insert(_ context.Context, t nationalteam.Team) error {
	r.teams[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *stubTeamRepo) GetByID(_ context.Context, id string) (nationalteam.Team, bool, error) {
	t, ok := r.teams[id]
	return t, ok, nil
}

func (r *stubTeamRepo) FindByCountryAndType(_ context.Context, country, teamType string) (nationalteam.Team, bool, error) {
	for _, id := range r.order {
		t := r.teams[id]
		if strings.EqualFold(t.Country, country) && strings.EqualFold(t.Type, teamType) {
			return t, true, nil
		}
	}
	return nationalteam.Team{}, false, nil
}

func (r *stubTeamRepo) List(_ context.Context) ([]nationalteam.Team, error) {
	out := make([]nationalteam.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id])
	}
	return out, nil
}

type stubMatchRepo struct {
	mu      sync.Mutex
	matches map[string]match.Match
	order   []string
}

var _ match.Repository = (*stubMatchRepo)(nil)

func newStubMatchRepo(matches ...match.Match) *stubMatchRepo {
	r := &stubMatchRepo{matches: make(map[string]match.Match)}
	for _, m := range matches {
		r.matches[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	return r
}

func (r *stubMatchRepo) Insert(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = m
	r.order = append(r.order, m.ID)
	return nil
}

func (r *stubMatchRepo) Update(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.matches[m.ID]; !ok {
		return fmt.Errorf("match %s not found", m.ID)
	}
	r.matches[m.ID] = m
	return nil
}

func (r *stubMatchRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.matches, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubMatchRepo) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[id]
	return m, ok, nil
}

func (r *stubMatchRepo) List(_ context.Context, filter match.ListFilter) ([]match.Match, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []match.Match
	for _, id := range r.order {
		m := r.matches[id]
		if filter.Search != "" && !strings.Contains(strings.ToLower(m.Venue), strings.ToLower(filter.Search)) {
			continue
		}
		all = append(all, m)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	total := len(all)
	start := (filter.Page - 1) * filter.PerPage
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubMatchRepo) FindByTeamOnDay(_ context.Context, kind match.Kind, teamID string, day time.Time) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		m := r.matches[id]
		if m.Kind != kind || !match.SameDay(m.Date, day) {
			continue
		}
		if m.Home.TeamID == teamID || m.Away.TeamID == teamID {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *stubMatchRepo) ListIDsOlderThan(_ context.Context, cutoff time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, id := range r.order {
		if r.matches[id].Date.Before(cutoff) {
			out = append(out, id)
		}
	}
	return out, nil
}

type stubFixtureRepo struct {
	fixtures map[string]fixture.Fixture
	order    []string
}

var _ fixture.Repository = (*stubFixtureRepo)(nil)

func newStubFixtureRepo(fixtures ...fixture.Fixture) *stubFixtureRepo {
	r := &stubFixtureRepo{fixtures: make(map[string]fixture.Fixture)}
	for _, f := range fixtures {
		r.fixtures[f.ID] = f
		r.order = append(r.order, f.ID)
	}
	return r
}

func (r *stubFixtureRepo) Insert(_ context.Context, f fixture.Fixture) error {
	r.fixtures[f.ID] = f
	r.order = append(r.order, f.ID)
	return nil
}

func (r *stubFixtureRepo) Delete(_ context.Context, id string) error {
	delete(r.fixtures, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubFixtureRepo) GetByID(_ context.Context, id string) (fixture.Fixture, bool, error) {
	f, ok := r.fixtures[id]
	return f, ok, nil
}

func (r *stubFixtureRepo) List(_ context.Context) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.fixtures[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// seqIDGenerator hands out deterministic ids for assertions.
type seqIDGenerator struct {
	prefix string
	next   int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
