package service

import (
	"context"
	"fmt"
	"time"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/logger"
	"gearhouse-backend/internal/repository"
)

type reconciliationService struct {
	rentalRepo repository.RentalRepository
	invRepo    repository.InventoryRepository
}

func NewReconciliationService(
	rentalRepo repository.RentalRepository,
	invRepo repository.InventoryRepository,
) ReconciliationService {
	return &reconciliationService{
		rentalRepo: rentalRepo,
		invRepo:    invRepo,
	}
}

// ReconcileInventory recomputes every item's rented status from the active
// rentals, which are the source of truth for "is this item on loan".
// Inventory status is a materialized view of that fact; this pass rebuilds
// it with per-item writes and converges on re-run.
func (s *reconciliationService) ReconcileInventory(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{}

	active, err := s.rentalRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	claims := make(map[int32][]*domain.Rental)
	for i := range active {
		rt := &active[i]
		for _, it := range rt.Items {
			claims[it.InventoryItemID] = append(claims[it.InventoryItemID], rt)
		}
	}

	// Pass 1: items stuck in RENTED that no active rental claims. These are
	// rentals that were returned or cancelled without a clean write-back.
	rented, err := s.invRepo.ListByStatus(ctx, domain.InventoryStatusRented)
	if err != nil {
		return nil, err
	}
	for _, item := range rented {
		if _, claimed := claims[item.ID]; claimed {
			continue
		}
		released, err := s.invRepo.Release(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if released {
			report.Released = append(report.Released, item.ID)
			logger.Info("Reconciliation released orphaned item", "item_id", item.ID)
		}
	}

	// Pass 2: every item of an active rental must read as rented by that
	// rental's customer. Items parked in maintenance or retired are never
	// overwritten; a claim on one means a double-booking upstream and is
	// only surfaced.
	for itemID, holders := range claims {
		if len(holders) > 1 {
			report.Conflicts = append(report.Conflicts, ReconciliationConflict{
				InventoryItemID: itemID,
				Status:          domain.InventoryStatusRented,
				RentalIDs:       rentalIDs(holders),
				Message:         fmt.Sprintf("item %d is claimed by %d active rentals", itemID, len(holders)),
			})
			logger.Warn("Reconciliation found double-booked item", "item_id", itemID, "rental_ids", rentalIDs(holders))
			continue
		}
		rt := holders[0]

		item, err := s.invRepo.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		switch item.Status {
		case domain.InventoryStatusMaintenance, domain.InventoryStatusRetired:
			report.Conflicts = append(report.Conflicts, ReconciliationConflict{
				InventoryItemID: itemID,
				Status:          item.Status,
				RentalIDs:       []int32{rt.ID},
				Message:         fmt.Sprintf("item %d is %s but claimed by active rental %d", itemID, item.Status, rt.ID),
			})
			logger.Warn("Reconciliation found claimed out-of-service item",
				"item_id", itemID, "item_status", item.Status, "rental_id", rt.ID)
			continue
		}
		if itemMatchesRental(item, rt) {
			continue
		}
		if err := s.invRepo.ForceRented(ctx, itemID, rt.CustomerName, rt.EndDate); err != nil {
			return nil, err
		}
		report.Reasserted = append(report.Reasserted, itemID)
		logger.Info("Reconciliation reasserted rented item", "item_id", itemID, "rental_id", rt.ID)
	}

	return report, nil
}

func itemMatchesRental(item *domain.InventoryItem, rt *domain.Rental) bool {
	if item.Status != domain.InventoryStatusRented {
		return false
	}
	if item.CurrentRenter == nil || *item.CurrentRenter != rt.CustomerName {
		return false
	}
	if item.ExpectedReturn == nil || !sameDate(*item.ExpectedReturn, rt.EndDate) {
		return false
	}
	return true
}

func sameDate(a, b time.Time) bool {
	return domain.DateOf(a).Equal(domain.DateOf(b))
}

func rentalIDs(rentals []*domain.Rental) []int32 {
	ids := make([]int32, len(rentals))
	for i, rt := range rentals {
		ids[i] = rt.ID
	}
	return ids
}
