package clients

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name string, phone *string) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (public_id, name, phone)
		VALUES ($1,$2,$3)
		RETURNING id, public_id, name, phone, created_at, updated_at
	`, uuid.NewString(), name, phone)
	var c Client
	if err := row.Scan(&c.ID, &c.PublicID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetByPublicID(ctx context.Context, publicID string) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, public_id, name, phone, created_at, updated_at
		FROM clients WHERE public_id = $1
	`, publicID)
	var c Client
	if err := row.Scan(&c.ID, &c.PublicID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) AddVisit(ctx context.Context, clientID string, visitedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO client_visits (client_id, visited_at)
		VALUES ($1,$2)
	`, clientID, visitedAt)
	return err
}

func (r *Repo) ListVisits(ctx context.Context, clientID string) ([]Visit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, visited_at, created_at
		FROM client_visits
		WHERE client_id = $1
		ORDER BY visited_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.ClientID, &v.VisitedAt, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
