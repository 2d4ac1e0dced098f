package memory

import (
	"sync"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/fixture"
	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
)

// Store is the shared in-memory database. All entity repositories hold the
// same Store so multi-entity writes, like replacing a match's rating entries,
// run under one lock.
type Store struct {
	mu sync.RWMutex

	players     map[string]player.Player
	playerOrder []string

	clubs     map[string]club.Club
	clubOrder []string

	teams     map[string]nationalteam.Team
	teamOrder []string

	matches    map[string]match.Match
	matchOrder []string

	fixtures     map[string]fixture.Fixture
	fixtureOrder []string
}

func NewStore() *Store {
	return &Store{
		players:  make(map[string]player.Player),
		clubs:    make(map[string]club.Club),
		teams:    make(map[string]nationalteam.Team),
		matches:  make(map[string]match.Match),
		fixtures: make(map[string]fixture.Fixture),
	}
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}

	return ids
}
