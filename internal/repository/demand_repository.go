package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
)

// DemandRepository encapsulates demand persistence, the vote ledger and the comment log.
type DemandRepository interface {
	Create(ctx context.Context, demand *domain.Demand) error
	GetByID(ctx context.Context, id string) (*domain.Demand, error)
	List(ctx context.Context) ([]domain.Demand, error)
	// FindNear returns demands within radiusMeters of center on a sphere, nearest first.
	FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.Demand, error)
	// ToggleUpvote atomically flips userID's vote and reports whether it is now held.
	ToggleUpvote(ctx context.Context, demandID, userID string) (*domain.Demand, bool, error)
	// AddComment appends comment, filling its ID and Timestamp, and returns the updated demand.
	AddComment(ctx context.Context, comment *domain.DemandComment) (*domain.Demand, error)
}

type demandRepository struct {
	pool *pgxpool.Pool
}

// NewDemandRepository returns a PostGIS-backed implementation.
func NewDemandRepository(pool *pgxpool.Pool) DemandRepository {
	return &demandRepository{pool: pool}
}

const demandColumns = `id, creator_id, title, description,
               ST_X(location::geometry), ST_Y(location::geometry),
               category, status, up_vote_count, array_remove(voters, NULL), created_at, updated_at`

func (r *demandRepository) Create(ctx context.Context, demand *domain.Demand) error {
	const query = `
        INSERT INTO demands (creator_id, title, description, location, category, status, up_vote_count, voters)
        VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7, $8, '{}')
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		demand.CreatorID,
		demand.Title,
		demand.Description,
		demand.Location.Longitude(),
		demand.Location.Latitude(),
		demand.Category,
		demand.Status,
		demand.UpVoteCount,
	).Scan(&demand.ID, &demand.CreatedAt, &demand.UpdatedAt); err != nil {
		return err
	}
	demand.Voters = []string{}
	demand.Comments = []domain.DemandComment{}
	return nil
}

func (r *demandRepository) GetByID(ctx context.Context, id string) (*domain.Demand, error) {
	return getDemand(ctx, r.pool, id)
}

func (r *demandRepository) List(ctx context.Context) ([]domain.Demand, error) {
	query := `SELECT ` + demandColumns + ` FROM demands ORDER BY created_at DESC`
	return queryDemands(ctx, r.pool, query)
}

func (r *demandRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.Demand, error) {
	query := `SELECT ` + demandColumns + ` FROM demands
        WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3, false)
        ORDER BY ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, false) ASC`
	return queryDemands(ctx, r.pool, query, center.Longitude(), center.Latitude(), radiusMeters)
}

// ToggleUpvote runs as one UPDATE: the CASE branches read the pre-update row
// while the row lock serializes concurrent toggles on the same demand.
func (r *demandRepository) ToggleUpvote(ctx context.Context, demandID, userID string) (*domain.Demand, bool, error) {
	query := `
        UPDATE demands SET
            voters = CASE WHEN $2::uuid = ANY(voters)
                          THEN array_remove(array_remove(voters, NULL), $2::uuid)
                          ELSE array_append(array_remove(voters, NULL), $2::uuid) END,
            up_vote_count = CASE WHEN $2::uuid = ANY(voters)
                                 THEN up_vote_count - 1
                                 ELSE up_vote_count + 1 END,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + demandColumns + `, $2::uuid = ANY(voters)`

	var voted bool
	demand, err := scanDemand(r.pool.QueryRow(ctx, query, demandID, userID), &voted)
	if err != nil {
		return nil, false, err
	}
	if err := attachComments(ctx, r.pool, []*domain.Demand{demand}); err != nil {
		return nil, false, err
	}
	return demand, voted, nil
}

func (r *demandRepository) AddComment(ctx context.Context, comment *domain.DemandComment) (*domain.Demand, error) {
	var demand *domain.Demand
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
            INSERT INTO demand_comments (demand_id, author_id, text)
            SELECT id, $2::uuid, $3::text FROM demands WHERE id = $1
            RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insert, comment.DemandID, comment.AuthorID, comment.Text).
			Scan(&comment.ID, &comment.Timestamp); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE demands SET updated_at = NOW() WHERE id = $1`, comment.DemandID); err != nil {
			return err
		}
		var err error
		demand, err = getDemand(ctx, tx, comment.DemandID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return demand, nil
}

func getDemand(ctx context.Context, q querier, id string) (*domain.Demand, error) {
	query := `SELECT ` + demandColumns + ` FROM demands WHERE id = $1`
	demand, err := scanDemand(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := attachComments(ctx, q, []*domain.Demand{demand}); err != nil {
		return nil, err
	}
	return demand, nil
}

func queryDemands(ctx context.Context, q querier, query string, args ...any) ([]domain.Demand, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Demand{}
	for rows.Next() {
		demand, err := scanDemand(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *demand)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*domain.Demand, len(result))
	for i := range result {
		ptrs[i] = &result[i]
	}
	if err := attachComments(ctx, q, ptrs); err != nil {
		return nil, err
	}
	return result, nil
}

func scanDemand(row pgx.Row, extra ...any) (*domain.Demand, error) {
	var (
		demand   domain.Demand
		lng, lat float64
	)
	dest := []any{
		&demand.ID,
		&demand.CreatorID,
		&demand.Title,
		&demand.Description,
		&lng,
		&lat,
		&demand.Category,
		&demand.Status,
		&demand.UpVoteCount,
		&demand.Voters,
		&demand.CreatedAt,
		&demand.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	demand.Location = domain.PointAt(lng, lat)
	if demand.Voters == nil {
		demand.Voters = []string{}
	}
	demand.Comments = []domain.DemandComment{}
	return &demand, nil
}

// attachComments loads the comment logs of demands in one query, preserving insertion order.
func attachComments(ctx context.Context, q querier, demands []*domain.Demand) error {
	if len(demands) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(demands))
	byID := make(map[string]*domain.Demand, len(demands))
	for _, d := range demands {
		parsed, err := uuid.Parse(d.ID)
		if err != nil {
			return err
		}
		ids = append(ids, parsed)
		byID[d.ID] = d
	}

	const query = `
        SELECT id, demand_id, author_id, text, created_at
        FROM demand_comments WHERE demand_id = ANY($1) ORDER BY id ASC`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.DemandComment
		if err := rows.Scan(&c.ID, &c.DemandID, &c.AuthorID, &c.Text, &c.Timestamp); err != nil {
			return err
		}
		if d, ok := byID[c.DemandID]; ok {
			d.Comments = append(d.Comments, c)
		}
	}
	return rows.Err()
}
