package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/footylytics/rating-engine/internal/domain/club"
)

func newClubService(clubs ...club.Club) (*ClubService, *stubClubRepo) {
	repo := newStubClubRepo(clubs...)
	return NewClubService(repo, nil, &seqIDGenerator{prefix: "club"}, nil), repo
}

func TestClubServiceCreateClub(t *testing.T) {
	t.Parallel()

	svc, repo := newClubService()

	created, err := svc.CreateClub(context.Background(), ClubInput{Name: "Riverside FC"})
	if err != nil {
		t.Fatalf("CreateClub() error = %v", err)
	}
	if created.Status != club.StatusActive {
		t.Fatalf("status = %q, want default Active", created.Status)
	}
	if _, ok := repo.clubs[created.ID]; !ok {
		t.Fatal("club not persisted")
	}

	if _, err := svc.CreateClub(context.Background(), ClubInput{Name: "riverside fc"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name error = %v, want ErrConflict", err)
	}
	if _, err := svc.CreateClub(context.Background(), ClubInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateClub(context.Background(), ClubInput{Name: "Summit Town", Status: "Dormant"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status error = %v, want ErrInvalidInput", err)
	}
}

func TestClubServiceUpdateClub(t *testing.T) {
	t.Parallel()

	svc, _ := newClubService(
		club.Club{ID: "c1", Name: "Riverside FC", Status: club.StatusActive},
		club.Club{ID: "c2", Name: "Harbour United", Status: club.StatusActive},
	)

	updated, err := svc.UpdateClub(context.Background(), "c1", ClubInput{Status: "Inactive"})
	if err != nil {
		t.Fatalf("UpdateClub() error = %v", err)
	}
	if updated.Status != club.StatusInactive || updated.Name != "Riverside FC" {
		t.Fatalf("updated club = %+v", updated)
	}

	if _, err := svc.UpdateClub(context.Background(), "c1", ClubInput{Name: "harbour united"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("rename onto taken name error = %v, want ErrConflict", err)
	}
	if _, err := svc.UpdateClub(context.Background(), "c-ghost", ClubInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown club error = %v, want ErrNotFound", err)
	}
}

func TestClubServiceDeleteClub(t *testing.T) {
	t.Parallel()

	svc, repo := newClubService(club.Club{ID: "c1", Name: "Riverside FC", Status: club.StatusActive})

	if err := svc.DeleteClub(context.Background(), "c1"); err != nil {
		t.Fatalf("DeleteClub() error = %v", err)
	}
	if len(repo.clubs) != 0 {
		t.Fatal("club still stored after delete")
	}
	if err := svc.DeleteClub(context.Background(), "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteClub() error = %v, want ErrNotFound", err)
	}
}

func TestClubServiceListActiveClubsSortsByName(t *testing.T) {
	t.Parallel()

	svc, _ := newClubService(
		club.Club{ID: "c1", Name: "Summit Town", Status: club.StatusActive},
		club.Club{ID: "c2", Name: "Harbour United", Status: club.StatusActive},
		club.Club{ID: "c3", Name: "Riverside FC", Status: club.StatusInactive},
	)

	active, err := svc.ListActiveClubs(context.Background())
	if err != nil {
		t.Fatalf("ListActiveClubs() error = %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active clubs = %d, want 2", len(active))
	}
	if active[0].Name != "Harbour United" || active[1].Name != "Summit Town" {
		t.Fatalf("active clubs out of order: %q, %q", active[0].Name, active[1].Name)
	}
}
