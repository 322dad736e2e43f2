package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/geo"
)

func newTestDemand(t *testing.T, repo DemandRepository, lng, lat float64) *domain.Demand {
	t.Helper()
	d := &domain.Demand{
		Title:       "Hospital",
		Description: "Need a hospital",
		Location:    domain.PointAt(lng, lat),
		Category:    domain.DemandCategoryHealthcare,
		Status:      domain.DemandStatusNotFulfilled,
		UpVoteCount: domain.InitialUpVoteCount,
	}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	return d
}

func TestMemoryDemandCreateAndGet(t *testing.T) {
	repo := NewMemoryDemandRepository()
	created := newTestDemand(t, repo, 77.2090, 28.6139)

	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Hospital" || got.UpVoteCount != 1 || len(got.Voters) != 0 {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestMemoryDemandNotFound(t *testing.T) {
	repo := NewMemoryDemandRepository()
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get err = %v, want ErrNotFound", err)
	}
	if _, _, err := repo.ToggleUpvote(ctx, "missing", "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle err = %v, want ErrNotFound", err)
	}
	if _, err := repo.AddComment(ctx, &domain.DemandComment{DemandID: "missing", Text: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("comment err = %v, want ErrNotFound", err)
	}
}

func TestMemoryDemandReturnsCopies(t *testing.T) {
	repo := NewMemoryDemandRepository()
	created := newTestDemand(t, repo, 0, 0)

	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Voters = append(got.Voters, "intruder")
	got.UpVoteCount = 99

	again, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.UpVoteCount != 1 || len(again.Voters) != 0 {
		t.Errorf("stored demand was mutated through a returned copy: %+v", again)
	}
}

func TestMemoryDemandCommentsKeepOrder(t *testing.T) {
	repo := NewMemoryDemandRepository()
	created := newTestDemand(t, repo, 0, 0)
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		c := &domain.DemandComment{DemandID: created.ID, AuthorID: "u1", Text: fmt.Sprintf("comment %d", i)}
		if _, err := repo.AddComment(ctx, c); err != nil {
			t.Fatalf("add comment %d: %v", i, err)
		}
		if c.ID == 0 || c.Timestamp.IsZero() {
			t.Fatalf("comment %d not stamped: %+v", i, c)
		}
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Comments) != n {
		t.Fatalf("got %d comments, want %d", len(got.Comments), n)
	}
	for i, c := range got.Comments {
		if want := fmt.Sprintf("comment %d", i); c.Text != want {
			t.Errorf("comments[%d] = %q, want %q", i, c.Text, want)
		}
	}
}

func TestMemoryDemandFindNear(t *testing.T) {
	repo := NewMemoryDemandRepository()
	ctx := context.Background()
	center := domain.PointAt(77.2090, 28.6139)

	here := newTestDemand(t, repo, 77.2090, 28.6139)
	// about 5 km north and 2 km north
	far := newTestDemand(t, repo, 77.2090, 28.6139+5000/111195.0)
	near := newTestDemand(t, repo, 77.2090, 28.6139+2000/111195.0)
	newTestDemand(t, repo, 72.8777, 19.0760)

	tests := []struct {
		name    string
		radius  float64
		wantIDs []string
	}{
		{"one meter", 1, []string{here.ID}},
		{"three km", 3000, []string{here.ID, near.ID}},
		{"ten km ordered nearest first", 10000, []string{here.ID, near.ID, far.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindNear(ctx, center, tt.radius)
			if err != nil {
				t.Fatalf("find near: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d demands, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result[%d] = %s, want %s", i, got[i].ID, id)
				}
				if d := geo.DistanceMeters(center, got[i].Location); d > tt.radius {
					t.Errorf("result[%d] at %.1f m exceeds radius %.1f", i, d, tt.radius)
				}
			}
		})
	}
}

func TestMemoryDemandConcurrentTogglesStayConsistent(t *testing.T) {
	repo := NewMemoryDemandRepository()
	created := newTestDemand(t, repo, 0, 0)
	ctx := context.Background()

	const toggles = 50
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := repo.ToggleUpvote(ctx, created.ID, "u1"); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// an even number of toggles lands back on the initial state
	if got.UpVoteCount != domain.InitialUpVoteCount || len(got.Voters) != 0 {
		t.Errorf("count = %d voters = %v, want %d and none", got.UpVoteCount, got.Voters, domain.InitialUpVoteCount)
	}
}
