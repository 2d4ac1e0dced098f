package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
)

type NationalTeamRepository struct {
	store *Store
}

var _ nationalteam.Repository = (*NationalTeamRepository)(nil)

func NewNationalTeamRepository(store *Store) *NationalTeamRepository {
	return &NationalTeamRepository{store: store}
}

func (r *NationalTeamRepository) Insert(_ context.Context, t nationalteam.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.teams[t.ID]; exists {
		return fmt.Errorf("national team %s already exists", t.ID)
	}
	r.store.teams[t.ID] = t
	r.store.teamOrder = append(r.store.teamOrder, t.ID)

	return nil
}

func (r *NationalTeamRepository) GetByID(_ context.Context, id string) (nationalteam.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.teams[id]

	return t, ok, nil
}

func (r *NationalTeamRepository) FindByCountryAndType(_ context.Context, country, teamType string) (nationalteam.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.teamOrder {
		t := r.store.teams[id]
		if strings.EqualFold(t.Country, country) && strings.EqualFold(t.Type, teamType) {
			return t, true, nil
		}
	}

	return nationalteam.Team{}, false, nil
}

func (r *NationalTeamRepository) List(_ context.Context) ([]nationalteam.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]nationalteam.Team, 0, len(r.store.teamOrder))
	for _, id := range r.store.teamOrder {
		out = append(out, r.store.teams[id])
	}

	return out, nil
}
