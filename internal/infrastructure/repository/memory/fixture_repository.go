package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/footylytics/rating-engine/internal/domain/fixture"
)

type FixtureRepository struct {
	store *Store
}

var _ fixture.Repository = (*FixtureRepository)(nil)

func NewFixtureRepository(store *Store) *FixtureRepository {
	return &FixtureRepository{store: store}
}

func (r *FixtureRepository) Insert(_ context.Context, f fixture.Fixture) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.fixtures[f.ID]; exists {
		return fmt.Errorf("fixture %s already exists", f.ID)
	}
	r.store.fixtures[f.ID] = f
	r.store.fixtureOrder = append(r.store.fixtureOrder, f.ID)

	return nil
}

func (r *FixtureRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.fixtures, id)
	r.store.fixtureOrder = removeID(r.store.fixtureOrder, id)

	return nil
}

func (r *FixtureRepository) GetByID(_ context.Context, id string) (fixture.Fixture, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	f, ok := r.store.fixtures[id]

	return f, ok, nil
}

// List returns fixtures ordered by date ascending.
func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.store.fixtureOrder))
	for _, id := range r.store.fixtureOrder {
		out = append(out, r.store.fixtures[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}
