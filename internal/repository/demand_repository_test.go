package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/persistence"
)

// newPostgresDemandRepository connects to POSTGRES_DSN and applies migrations.
// Tests using it are skipped when no database is configured.
func newPostgresDemandRepository(t *testing.T) (DemandRepository, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := persistence.RunMigrations(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewDemandRepository(pool), pool
}

func deleteDemandOnCleanup(t *testing.T, pool *pgxpool.Pool, id string) {
	t.Helper()
	t.Cleanup(func() {
		if _, err := pool.Exec(context.Background(), `DELETE FROM demands WHERE id = $1`, id); err != nil {
			t.Logf("cleanup demand %s: %v", id, err)
		}
	})
}

func TestPostgresDemandConcurrentToggles(t *testing.T) {
	repo, pool := newPostgresDemandRepository(t)
	ctx := context.Background()
	demand := newTestDemand(t, repo, 77.2090, 28.6139)
	deleteDemandOnCleanup(t, pool, demand.ID)

	// Voters toggle an odd number of times and end up holding a vote;
	// the flipper toggles an even number of times and ends up without one.
	voters := make([]string, 12)
	for i := range voters {
		voters[i] = uuid.NewString()
	}
	flipper := uuid.NewString()

	var wg sync.WaitGroup
	errs := make(chan error, len(voters)*3+4)
	toggle := func(user string, times int) {
		defer wg.Done()
		for i := 0; i < times; i++ {
			if _, _, err := repo.ToggleUpvote(ctx, demand.ID, user); err != nil {
				errs <- err
				return
			}
		}
	}
	for _, v := range voters {
		wg.Add(1)
		go toggle(v, 3)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go toggle(flipper, 1)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("toggle: %v", err)
	}

	var consistent bool
	var count, cardinality int
	err := pool.QueryRow(ctx,
		`SELECT up_vote_count - 1 = cardinality(voters), up_vote_count, cardinality(voters) FROM demands WHERE id = $1`,
		demand.ID).Scan(&consistent, &count, &cardinality)
	if err != nil {
		t.Fatalf("read counters: %v", err)
	}
	if !consistent {
		t.Fatalf("up_vote_count=%d does not match %d voters", count, cardinality)
	}
	if cardinality != len(voters) {
		t.Errorf("voters = %d, want %d", cardinality, len(voters))
	}

	got, err := repo.GetByID(ctx, demand.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, v := range got.Voters {
		if v == flipper {
			t.Error("even number of toggles left a vote behind")
		}
	}

	// A sequential toggle reports the vote it just placed.
	user := uuid.NewString()
	updated, voted, err := repo.ToggleUpvote(ctx, demand.ID, user)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !voted || updated.UpVoteCount != len(voters)+2 {
		t.Errorf("voted=%v count=%d", voted, updated.UpVoteCount)
	}
}

func TestPostgresDemandCommentsInOrder(t *testing.T) {
	repo, pool := newPostgresDemandRepository(t)
	ctx := context.Background()
	demand := newTestDemand(t, repo, 72.8777, 19.0760)
	deleteDemandOnCleanup(t, pool, demand.ID)

	const total = 8
	var wg sync.WaitGroup
	errs := make(chan error, total)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			comment := &domain.DemandComment{DemandID: demand.ID, AuthorID: uuid.NewString(), Text: "Needed here too"}
			if _, err := repo.AddComment(ctx, comment); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("add comment: %v", err)
	}

	got, err := repo.GetByID(ctx, demand.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Comments) != total {
		t.Fatalf("comments = %d, want %d", len(got.Comments), total)
	}
	for i := 1; i < len(got.Comments); i++ {
		if got.Comments[i].ID <= got.Comments[i-1].ID {
			t.Errorf("comment %d out of order: %d after %d", i, got.Comments[i].ID, got.Comments[i-1].ID)
		}
	}
}

func TestPostgresDemandMissingRecord(t *testing.T) {
	repo, _ := newPostgresDemandRepository(t)
	ctx := context.Background()
	missing := uuid.NewString()

	if _, _, err := repo.ToggleUpvote(ctx, missing, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle err = %v, want ErrNotFound", err)
	}
	comment := &domain.DemandComment{DemandID: missing, AuthorID: uuid.NewString(), Text: "hello"}
	if _, err := repo.AddComment(ctx, comment); !errors.Is(err, ErrNotFound) {
		t.Errorf("comment err = %v, want ErrNotFound", err)
	}
}
