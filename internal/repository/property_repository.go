package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
)

// PropertyRepository encapsulates property listing persistence.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
}

type propertyRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyRepository returns a PostGIS-backed implementation.
func NewPropertyRepository(pool *pgxpool.Pool) PropertyRepository {
	return &propertyRepository{pool: pool}
}

const propertyColumns = `id, title, description, category, listing_type, price, area, contact_number,
               ST_X(location::geometry), ST_Y(location::geometry), status, created_at, updated_at`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (title, description, category, listing_type, price, area, contact_number, location, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography, $10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		property.Title,
		property.Description,
		property.Category,
		property.ListingType,
		property.Price,
		property.Area,
		property.ContactNumber,
		property.Location.Longitude(),
		property.Location.Latitude(),
		property.Status,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(r.pool.QueryRow(ctx, query, id))
}

func (r *propertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Property{}
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *property)
	}
	return result, rows.Err()
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var (
		property domain.Property
		lng, lat float64
	)
	if err := row.Scan(
		&property.ID,
		&property.Title,
		&property.Description,
		&property.Category,
		&property.ListingType,
		&property.Price,
		&property.Area,
		&property.ContactNumber,
		&lng,
		&lat,
		&property.Status,
		&property.CreatedAt,
		&property.UpdatedAt,
	); err != nil {
		return nil, err
	}
	property.Location = domain.PointAt(lng, lat)
	return &property, nil
}
