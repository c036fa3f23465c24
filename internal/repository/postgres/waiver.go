package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/repository"
)

type waiverRepository struct {
	db *sql.DB
}

func NewWaiverRepository(db *sql.DB) repository.WaiverRepository {
	return &waiverRepository{db: db}
}

func (r *waiverRepository) Create(ctx context.Context, w *domain.Waiver) error {
	query := `INSERT INTO waivers (customer_id, customer_name, activities, status, signed_date, expiry_date, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		w.CustomerID, w.CustomerName, pq.Array(w.Activities), w.Status,
		w.SignedDate, w.ExpiryDate, time.Now(),
	).Scan(&w.ID)
}

func (r *waiverRepository) GetLatestSigned(ctx context.Context, customerID int32) (*domain.Waiver, error) {
	w := &domain.Waiver{}
	query := `SELECT id, customer_id, customer_name, activities, status, signed_date, expiry_date, created_on
	          FROM waivers WHERE customer_id = $1 AND status = $2
	          ORDER BY signed_date DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, customerID, domain.WaiverStatusSigned).Scan(
		&w.ID, &w.CustomerID, &w.CustomerName, pq.Array(&w.Activities),
		&w.Status, &w.SignedDate, &w.ExpiryDate, &w.CreatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}
