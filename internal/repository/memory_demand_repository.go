package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/geo"
)

type memoryDemandRepository struct {
	mu          sync.RWMutex
	demands     map[string]*domain.Demand
	order       []string
	nextComment int64
	now         func() time.Time
}

// NewMemoryDemandRepository returns a process-local store. Proximity uses the
// haversine distance, matching the spherical semantics of the PostGIS store.
func NewMemoryDemandRepository() DemandRepository {
	return &memoryDemandRepository{
		demands: make(map[string]*domain.Demand),
		now:     time.Now,
	}
}

func (r *memoryDemandRepository) Create(_ context.Context, demand *domain.Demand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	demand.ID = uuid.NewString()
	demand.CreatedAt = now
	demand.UpdatedAt = now
	demand.Voters = []string{}
	demand.Comments = []domain.DemandComment{}

	stored := cloneDemand(demand)
	r.demands[demand.ID] = stored
	r.order = append(r.order, demand.ID)
	return nil
}

func (r *memoryDemandRepository) GetByID(_ context.Context, id string) (*domain.Demand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	demand, ok := r.demands[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDemand(demand), nil
}

func (r *memoryDemandRepository) List(_ context.Context) ([]domain.Demand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Demand, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		result = append(result, *cloneDemand(r.demands[r.order[i]]))
	}
	return result, nil
}

func (r *memoryDemandRepository) FindNear(_ context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.Demand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type hit struct {
		demand   *domain.Demand
		distance float64
	}
	var hits []hit
	for _, id := range r.order {
		demand := r.demands[id]
		if d := geo.DistanceMeters(center, demand.Location); d <= radiusMeters {
			hits = append(hits, hit{demand: demand, distance: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	result := make([]domain.Demand, 0, len(hits))
	for _, h := range hits {
		result = append(result, *cloneDemand(h.demand))
	}
	return result, nil
}

func (r *memoryDemandRepository) ToggleUpvote(_ context.Context, demandID, userID string) (*domain.Demand, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	demand, ok := r.demands[demandID]
	if !ok {
		return nil, false, ErrNotFound
	}
	voted := demand.ToggleVote(userID)
	demand.UpdatedAt = r.now().UTC()
	return cloneDemand(demand), voted, nil
}

func (r *memoryDemandRepository) AddComment(_ context.Context, comment *domain.DemandComment) (*domain.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	demand, ok := r.demands[comment.DemandID]
	if !ok {
		return nil, ErrNotFound
	}
	r.nextComment++
	comment.ID = r.nextComment
	comment.Timestamp = r.now().UTC()

	demand.Comments = append(demand.Comments, *comment)
	demand.UpdatedAt = comment.Timestamp
	return cloneDemand(demand), nil
}

func cloneDemand(d *domain.Demand) *domain.Demand {
	out := *d
	if d.CreatorID != nil {
		creator := *d.CreatorID
		out.CreatorID = &creator
	}
	out.Voters = append([]string{}, d.Voters...)
	out.Comments = append([]domain.DemandComment{}, d.Comments...)
	return &out
}
