package jobs

import (
	"context"
	"time"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/logger"
)

// ReconcileInventory repairs drift between inventory item status and the set
// of active rentals. Safe to re-run; a clean second pass reports no changes.
func (jr *JobRunner) ReconcileInventory() {
	jr.runWithRecovery("ReconcileInventory", func() {
		ctx := context.Background()

		report, err := jr.services.Reconciliation.ReconcileInventory(ctx)
		if err != nil {
			logger.Error("Inventory reconciliation failed", "error", err)
			return
		}

		logger.Info("Inventory reconciliation finished",
			"released", len(report.Released),
			"reasserted", len(report.Reasserted),
			"conflicts", len(report.Conflicts))

		for _, c := range report.Conflicts {
			logger.Warn("Inventory reconciliation conflict",
				"item_id", c.InventoryItemID,
				"item_status", c.Status,
				"rental_ids", c.RentalIDs,
				"message", c.Message)
		}
	})
}

// ReportOverdueRentals logs active rentals past their end date. Overdue is a
// derived status, so this job only reports; nothing is written back.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func() {
		ctx := context.Background()

		overdue, _, err := jr.services.Rental.ListRentals(ctx, domain.RentalStatusOverdue, 1, 0)
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		logger.Info("Overdue rentals", "count", len(overdue))
		now := time.Now()
		for _, rt := range overdue {
			logger.Debug("Rental overdue",
				"rental_id", rt.ID,
				"customer", rt.CustomerName,
				"end_date", rt.EndDate.Format("2006-01-02"),
				"days_late", int(now.Sub(rt.EndDate).Hours()/24))
		}
	})
}
