package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/footylytics/rating-engine/internal/domain/club"
)

type ClubRepository struct {
	store *Store
}

var _ club.Repository = (*ClubRepository)(nil)

func NewClubRepository(store *Store) *ClubRepository {
	return &ClubRepository{store: store}
}

func (r *ClubRepository) Insert(_ context.Context, c club.Club) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.clubs[c.ID]; exists {
		return fmt.Errorf("club %s already exists", c.ID)
	}
	r.store.clubs[c.ID] = c
	r.store.clubOrder = append(r.store.clubOrder, c.ID)

	return nil
}

func (r *ClubRepository) Update(_ context.Context, c club.Club) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.clubs[c.ID]; !exists {
		return fmt.Errorf("club %s not found", c.ID)
	}
	r.store.clubs[c.ID] = c

	return nil
}

func (r *ClubRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.clubs, id)
	r.store.clubOrder = removeID(r.store.clubOrder, id)

	return nil
}

func (r *ClubRepository) GetByID(_ context.Context, id string) (club.Club, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clubs[id]

	return c, ok, nil
}

func (r *ClubRepository) FindByName(_ context.Context, name string) (club.Club, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.clubOrder {
		if strings.EqualFold(r.store.clubs[id].Name, name) {
			return r.store.clubs[id], true, nil
		}
	}

	return club.Club{}, false, nil
}

func (r *ClubRepository) List(_ context.Context) ([]club.Club, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]club.Club, 0, len(r.store.clubOrder))
	for _, id := range r.store.clubOrder {
		out = append(out, r.store.clubs[id])
	}

	return out, nil
}

func (r *ClubRepository) ListActive(_ context.Context) ([]club.Club, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []club.Club
	for _, id := range r.store.clubOrder {
		if r.store.clubs[id].IsActive() {
			out = append(out, r.store.clubs[id])
		}
	}

	return out, nil
}
