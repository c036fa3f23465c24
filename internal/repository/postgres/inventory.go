package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/repository"
)

type inventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

const inventoryColumns = `id, name, category, status, condition, current_renter, expected_return, rental_price_per_day, total_rentals, total_revenue, created_on, updated_on`

func (r *inventoryRepository) GetByID(ctx context.Context, id int32) (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{}
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Category, &item.Status, &item.Condition,
		&item.CurrentRenter, &item.ExpectedReturn, &item.RentalPricePerDay,
		&item.TotalRentals, &item.TotalRevenue, &item.CreatedOn, &item.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "inventory item", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryRepository) ListByStatus(ctx context.Context, status domain.InventoryStatus) ([]domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.Status, &item.Condition,
			&item.CurrentRenter, &item.ExpectedReturn, &item.RentalPricePerDay,
			&item.TotalRentals, &item.TotalRevenue, &item.CreatedOn, &item.UpdatedOn,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkRented is the availability check and the claim in one statement. Two
// racing callers cannot both see an affected row.
func (r *inventoryRepository) MarkRented(ctx context.Context, id int32, renter string, expectedReturn time.Time) (bool, error) {
	query := `UPDATE inventory_items
	          SET status=$1, current_renter=$2, expected_return=$3, updated_on=$4
	          WHERE id=$5 AND status=$6`
	res, err := r.db.ExecContext(ctx, query,
		domain.InventoryStatusRented, renter, expectedReturn, time.Now(),
		id, domain.InventoryStatusAvailable)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *inventoryRepository) ForceRented(ctx context.Context, id int32, renter string, expectedReturn time.Time) error {
	query := `UPDATE inventory_items
	          SET status=$1, current_renter=$2, expected_return=$3, updated_on=$4
	          WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query,
		domain.InventoryStatusRented, renter, expectedReturn, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "inventory item", ID: id}
	}
	return nil
}

func (r *inventoryRepository) Release(ctx context.Context, id int32) (bool, error) {
	query := `UPDATE inventory_items
	          SET status=$1, current_renter=NULL, expected_return=NULL, updated_on=$2
	          WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query,
		domain.InventoryStatusAvailable, time.Now(), id, domain.InventoryStatusRented)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *inventoryRepository) ApplyReturn(ctx context.Context, id int32, status domain.InventoryStatus, condition domain.ItemCondition) error {
	query := `UPDATE inventory_items
	          SET status=$1, condition=$2, current_renter=NULL, expected_return=NULL, updated_on=$3
	          WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, status, condition, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "inventory item", ID: id}
	}
	return nil
}

func (r *inventoryRepository) RecordCompletedRental(ctx context.Context, id int32, revenue decimal.Decimal) error {
	query := `UPDATE inventory_items
	          SET total_rentals = total_rentals + 1, total_revenue = total_revenue + $1, updated_on=$2
	          WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, revenue, time.Now(), id)
	return err
}
