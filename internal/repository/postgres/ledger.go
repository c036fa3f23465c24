package postgres

import (
	"context"
	"database/sql"
	"time"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Append(ctx context.Context, txn *domain.CustomerTransaction) error {
	query := `INSERT INTO customer_transactions (customer_id, rental_id, type, amount, payment_method, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		txn.CustomerID, txn.RentalID, txn.Type, txn.Amount,
		txn.PaymentMethod, txn.Description, time.Now(),
	).Scan(&txn.ID)
}

func (r *transactionRepository) ExistsForRental(ctx context.Context, rentalID int32, txnType domain.TransactionType) (bool, error) {
	var count int32
	query := `SELECT count(*) FROM customer_transactions WHERE rental_id = $1 AND type = $2`
	if err := r.db.QueryRowContext(ctx, query, rentalID, txnType).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
