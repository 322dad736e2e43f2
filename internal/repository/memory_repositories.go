package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
)

type memoryPropertyRepository struct {
	mu         sync.RWMutex
	properties map[string]domain.Property
	order      []string
}

// NewMemoryPropertyRepository returns a process-local property store.
func NewMemoryPropertyRepository() PropertyRepository {
	return &memoryPropertyRepository{properties: make(map[string]domain.Property)}
}

func (r *memoryPropertyRepository) Create(_ context.Context, property *domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	property.ID = uuid.NewString()
	property.CreatedAt = now
	property.UpdatedAt = now
	r.properties[property.ID] = *property
	r.order = append(r.order, property.ID)
	return nil
}

func (r *memoryPropertyRepository) GetByID(_ context.Context, id string) (*domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	property, ok := r.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &property, nil
}

func (r *memoryPropertyRepository) List(_ context.Context) ([]domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Property, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		result = append(result, r.properties[r.order[i]])
	}
	return result, nil
}

type memoryRatingRepository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Rating
}

// NewMemoryRatingRepository returns a process-local review store.
func NewMemoryRatingRepository() RatingRepository {
	return &memoryRatingRepository{byEmail: make(map[string]domain.Rating)}
}

func (r *memoryRatingRepository) Upsert(_ context.Context, rating *domain.Rating) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.byEmail[rating.Email]
	if ok {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	} else {
		rating.ID = uuid.NewString()
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now
	r.byEmail[rating.Email] = *rating
	return !ok, nil
}

func (r *memoryRatingRepository) ListNewestFirst(_ context.Context) ([]domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Rating, 0, len(r.byEmail))
	for _, rating := range r.byEmail {
		result = append(result, rating)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Email < result[j].Email
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository returns a process-local account store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}
