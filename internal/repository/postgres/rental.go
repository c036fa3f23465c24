package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, customer_id, customer_name, start_date, end_date, return_date, status, total_amount, insurance_cost, late_fees, damage_charges, waiver_collected, notes, created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO rentals (customer_id, customer_name, start_date, end_date, status, total_amount, insurance_cost, late_fees, damage_charges, waiver_collected, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	err = tx.QueryRowContext(ctx, query,
		rt.CustomerID, rt.CustomerName, rt.StartDate, rt.EndDate, rt.Status,
		rt.TotalAmount, rt.InsuranceCost, rt.LateFees, rt.DamageCharges,
		rt.WaiverCollected, rt.Notes, now, now,
	).Scan(&rt.ID)
	if err != nil {
		return err
	}

	itemQuery := `INSERT INTO rental_items (rental_id, inventory_item_id, quantity, daily_rate, insurance_selected, item_notes)
	              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	for i := range rt.Items {
		it := &rt.Items[i]
		it.RentalID = rt.ID
		if err := tx.QueryRowContext(ctx, itemQuery,
			it.RentalID, it.InventoryItemID, it.Quantity, it.DailyRate,
			it.InsuranceSelected, it.ItemNotes,
		).Scan(&it.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.CustomerID, &rt.CustomerName, &rt.StartDate, &rt.EndDate,
		&rt.ReturnDate, &rt.Status, &rt.TotalAmount, &rt.InsuranceCost,
		&rt.LateFees, &rt.DamageCharges, &rt.WaiverCollected, &rt.Notes,
		&rt.CreatedOn, &rt.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "rental", ID: id}
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []int32{rt.ID})
	if err != nil {
		return nil, err
	}
	rt.Items = items[rt.ID]
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, return_date=$2, late_fees=$3, damage_charges=$4, notes=$5, updated_on=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query,
		rt.Status, rt.ReturnDate, rt.LateFees, rt.DamageCharges, rt.Notes, time.Now(), rt.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "rental", ID: rt.ID}
	}
	return nil
}

func (r *rentalRepository) MarkReturned(ctx context.Context, id int32, returnDate time.Time, lateFees, damageCharges decimal.Decimal, notes string) (bool, error) {
	query := `UPDATE rentals
	          SET status=$1, return_date=$2, late_fees=$3, damage_charges=$4, notes = notes || $5, updated_on=$6
	          WHERE id=$7 AND status=$8`
	res, err := r.db.ExecContext(ctx, query,
		domain.RentalStatusReturned, returnDate, lateFees, damageCharges,
		notes, time.Now(), id, domain.RentalStatusActive)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *rentalRepository) ListActive(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals, err := scanRentals(rows)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, rentals)
}

func (r *rentalRepository) List(ctx context.Context, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals`

	args := []interface{}{}
	argIdx := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rentals, err := scanRentals(rows)
	if err != nil {
		return nil, 0, err
	}
	rentals, err = r.attachItems(ctx, rentals)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func scanRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(
			&rt.ID, &rt.CustomerID, &rt.CustomerName, &rt.StartDate, &rt.EndDate,
			&rt.ReturnDate, &rt.Status, &rt.TotalAmount, &rt.InsuranceCost,
			&rt.LateFees, &rt.DamageCharges, &rt.WaiverCollected, &rt.Notes,
			&rt.CreatedOn, &rt.UpdatedOn,
		); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) attachItems(ctx context.Context, rentals []domain.Rental) ([]domain.Rental, error) {
	if len(rentals) == 0 {
		return rentals, nil
	}
	ids := make([]int32, len(rentals))
	for i := range rentals {
		ids[i] = rentals[i].ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range rentals {
		rentals[i].Items = items[rentals[i].ID]
	}
	return rentals, nil
}

func (r *rentalRepository) loadItems(ctx context.Context, rentalIDs []int32) (map[int32][]domain.RentalItem, error) {
	query := `SELECT id, rental_id, inventory_item_id, quantity, daily_rate, insurance_selected, item_notes
	          FROM rental_items WHERE rental_id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(rentalIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int32][]domain.RentalItem)
	for rows.Next() {
		var it domain.RentalItem
		if err := rows.Scan(&it.ID, &it.RentalID, &it.InventoryItemID, &it.Quantity, &it.DailyRate, &it.InsuranceSelected, &it.ItemNotes); err != nil {
			return nil, err
		}
		items[it.RentalID] = append(items[it.RentalID], it)
	}
	return items, rows.Err()
}
