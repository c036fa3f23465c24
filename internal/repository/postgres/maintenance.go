package postgres

import (
	"context"
	"database/sql"
	"time"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/repository"
)

type maintenanceRepository struct {
	db *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Append(ctx context.Context, rec *domain.MaintenanceRecord) error {
	query := `INSERT INTO maintenance_records (inventory_item_id, rental_id, type, before_condition, after_condition, cost, downtime_hours, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		rec.InventoryItemID, rec.RentalID, rec.Type, rec.BeforeCondition,
		rec.AfterCondition, rec.Cost, rec.DowntimeHours, rec.Notes, time.Now(),
	).Scan(&rec.ID)
}

func (r *maintenanceRepository) ExistsForRental(ctx context.Context, rentalID, inventoryItemID int32) (bool, error) {
	var count int32
	query := `SELECT count(*) FROM maintenance_records WHERE rental_id = $1 AND inventory_item_id = $2`
	if err := r.db.QueryRowContext(ctx, query, rentalID, inventoryItemID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
