package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
)

// RatingRepository stores site reviews keyed by email.
type RatingRepository interface {
	// Upsert creates or replaces the review for rating.Email and reports whether it was new.
	Upsert(ctx context.Context, rating *domain.Rating) (bool, error)
	ListNewestFirst(ctx context.Context) ([]domain.Rating, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository returns a Postgres-backed implementation.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *domain.Rating) (bool, error) {
	const query = `
        INSERT INTO ratings (email, rating, review)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review, updated_at = NOW()
        RETURNING id, created_at, updated_at, (xmax = 0)`
	var inserted bool
	err := r.pool.QueryRow(ctx, query, rating.Email, rating.Rating, rating.Review).
		Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt, &inserted)
	return inserted, err
}

func (r *ratingRepository) ListNewestFirst(ctx context.Context) ([]domain.Rating, error) {
	const query = `
        SELECT id, email, rating, review, created_at, updated_at
        FROM ratings ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Rating{}
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.Email,
			&rating.Rating,
			&rating.Review,
			&rating.CreatedAt,
			&rating.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rating)
	}
	return result, rows.Err()
}
