package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Categories */

func (r *Repo) CreateCategory(ctx context.Context, name string, description *string, accent string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO service_categories (public_id, name, description, accent)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, public_id, name, description, accent, created_at
	`, uuid.NewString(), name, description, accent)
	var c Category
	err := row.Scan(&c.ID, &c.PublicID, &c.Name, &c.Description, &c.Accent, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		// Уже есть — вернём существующую
		return r.GetCategoryByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, public_id, name, description, accent, created_at
		FROM service_categories WHERE name = $1
	`, name)
	var c Category
	if err := row.Scan(&c.ID, &c.PublicID, &c.Name, &c.Description, &c.Accent, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, public_id, name, description, accent, created_at
		FROM service_categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.PublicID, &c.Name, &c.Description, &c.Accent, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

/* Services */

func (r *Repo) CreateService(ctx context.Context, s Service) (*Service, error) {
	if s.PublicID == "" {
		s.PublicID = uuid.NewString()
	}
	if s.Billing == "" {
		s.Billing = BillingPerService
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (public_id, category_id, name, price, price_label, billing,
			hint, description, duration, trainer)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, public_id, category_id, name, price, price_label, billing,
			hint, description, duration, trainer, created_at
	`, s.PublicID, s.CategoryID, s.Name, s.Price, s.PriceLabel, s.Billing,
		s.Hint, s.Description, s.Duration, s.Trainer)

	var out Service
	if err := row.Scan(&out.ID, &out.PublicID, &out.CategoryID, &out.Name, &out.Price,
		&out.PriceLabel, &out.Billing, &out.Hint, &out.Description, &out.Duration,
		&out.Trainer, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) ListServices(ctx context.Context, categoryID int64) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, public_id, category_id, name, price, price_label, billing,
			hint, description, duration, trainer, created_at
		FROM services
		WHERE ($1 = 0 OR category_id = $1)
		ORDER BY name
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.PublicID, &s.CategoryID, &s.Name, &s.Price,
			&s.PriceLabel, &s.Billing, &s.Hint, &s.Description, &s.Duration,
			&s.Trainer, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
