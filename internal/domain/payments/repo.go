package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNegativeQuantity = errors.New("payments: negative quantity")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const paymentColumns = `id, public_id, client_id, client_name, client_phone, service_id,
	service_name, service_category, total_amount, cash_amount, transfer_amount,
	quantity, hours, comment, status, created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	if err := row.Scan(
		&p.ID, &p.PublicID, &p.ClientID, &p.ClientName, &p.ClientPhone, &p.ServiceID,
		&p.ServiceName, &p.ServiceCategory, &p.TotalAmount, &p.CashAmount, &p.TransferAmount,
		&p.Quantity, &p.Hours, &p.Comment, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context, serviceName, clientID string) ([]Payment, error) {
	q := `SELECT ` + paymentColumns + `
	      FROM payments
	      WHERE ($1 = '' OR service_name ILIKE '%' || $1 || '%')
	        AND ($2 = '' OR client_id = $2)
	      ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, serviceName, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByPublicID(ctx context.Context, publicID string) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE public_id = $1`, publicID)
	p, err := scanPayment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *Repo) Create(ctx context.Context, p Payment) (*Payment, error) {
	if p.PublicID == "" {
		p.PublicID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusCompleted
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (public_id, client_id, client_name, client_phone, service_id,
			service_name, service_category, total_amount, cash_amount, transfer_amount,
			quantity, hours, comment, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING `+paymentColumns,
		p.PublicID, p.ClientID, p.ClientName, p.ClientPhone, p.ServiceID,
		p.ServiceName, p.ServiceCategory, p.TotalAmount, p.CashAmount, p.TransferAmount,
		p.Quantity, p.Hours, p.Comment, p.Status,
	)
	return scanPayment(row)
}

// UpdateQuantity выставляет остаток занятий по платежу.
// Отрицательный остаток отклоняем до запроса к базе.
func (r *Repo) UpdateQuantity(ctx context.Context, publicID string, quantity int) (*Payment, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE payments
		SET quantity = $2, updated_at = NOW()
		WHERE public_id = $1
		RETURNING `+paymentColumns,
		publicID, quantity,
	)
	p, err := scanPayment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
