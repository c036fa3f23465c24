package service

import (
	"context"
	"fmt"
	"time"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/logger"
	"gearhouse-backend/internal/pricing"
	"gearhouse-backend/internal/repository"
)

// EquipmentRentalActivity is the activity tag a waiver must cover before a
// plain equipment rental proceeds.
const EquipmentRentalActivity = "Equipment Rental"

type rentalService struct {
	rentalRepo   repository.RentalRepository
	invRepo      repository.InventoryRepository
	customerRepo repository.CustomerRepository
	waiverSvc    WaiverService
	policies     domain.PolicySet
	now          func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	invRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
	waiverSvc WaiverService,
	policies domain.PolicySet,
) RentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		invRepo:      invRepo,
		customerRepo: customerRepo,
		waiverSvc:    waiverSvc,
		policies:     policies,
		now:          time.Now,
	}
}

func (s *rentalService) CreateRental(ctx context.Context, input CreateRentalInput) (*CreateRentalResult, error) {
	if len(input.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Message: "at least one item is required"}
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, &domain.ValidationError{Field: "end_date", Message: "end date must not be before start date"}
	}
	for _, it := range input.Items {
		if it.Quantity < 1 {
			return nil, &domain.ValidationError{
				Field:   "quantity",
				Message: fmt.Sprintf("quantity for item %d must be at least 1", it.InventoryItemID),
			}
		}
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	waiverOK, err := s.waiverSvc.IsValid(ctx, customer.ID, []string{EquipmentRentalActivity})
	if err != nil {
		return nil, err
	}

	// Snapshot each item's price and verify availability up front. The
	// authoritative claim happens below via the conditional update; this
	// pass just rejects obviously unavailable items early.
	items := make([]domain.RentalItem, 0, len(input.Items))
	for _, in := range input.Items {
		inv, err := s.invRepo.GetByID(ctx, in.InventoryItemID)
		if err != nil {
			return nil, err
		}
		if inv.Status != domain.InventoryStatusAvailable {
			return nil, &domain.ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("item %d (%s) is not available", inv.ID, inv.Name),
			}
		}
		items = append(items, domain.RentalItem{
			InventoryItemID:   inv.ID,
			Quantity:          in.Quantity,
			DailyRate:         inv.RentalPricePerDay,
			InsuranceSelected: in.InsuranceSelected,
			ItemNotes:         in.ItemNotes,
		})
	}

	days := pricing.RentalDays(input.StartDate, input.EndDate)
	total, insurance := pricing.RentalCharges(items, days, s.policies.Insurance)

	rental := &domain.Rental{
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          domain.RentalStatusActive,
		TotalAmount:     total,
		InsuranceCost:   insurance,
		WaiverCollected: waiverOK,
		Notes:           input.Notes,
		Items:           items,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	// Claim every item. Zero rows affected means another caller won the
	// race since the availability pass; abort and undo what we claimed.
	for i, it := range rental.Items {
		claimed, err := s.invRepo.MarkRented(ctx, it.InventoryItemID, customer.Name, input.EndDate)
		if err == nil && !claimed {
			err = &domain.ConflictError{
				Resource: "inventory item",
				ID:       it.InventoryItemID,
				Message:  "no longer available",
			}
		}
		if err != nil {
			s.abortCreation(ctx, rental, rental.Items[:i])
			return nil, err
		}
	}

	result := &CreateRentalResult{Rental: rental}
	if !waiverOK {
		result.WaiverWarning = fmt.Sprintf("no valid waiver on file for %s; collect one before pickup", customer.Name)
	}
	return result, nil
}

// abortCreation is best effort: it cancels the half-created rental and
// releases any items already claimed. Anything it fails to undo is repaired
// by the next reconciliation run.
func (s *rentalService) abortCreation(ctx context.Context, rental *domain.Rental, claimed []domain.RentalItem) {
	rental.Status = domain.RentalStatusCancelled
	rental.Notes = appendNote(rental.Notes, "cancelled: item unavailable at creation")
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		logger.Error("Failed to cancel aborted rental", "rental_id", rental.ID, "error", err)
	}
	for _, it := range claimed {
		if _, err := s.invRepo.Release(ctx, it.InventoryItemID); err != nil {
			logger.Error("Failed to release item of aborted rental", "item_id", it.InventoryItemID, "error", err)
		}
	}
}

func (s *rentalService) GetRental(ctx context.Context, id int32) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, id)
}

func (s *rentalService) ListRentals(ctx context.Context, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	// OVERDUE is never stored; it is active rentals past their end date,
	// filtered after the read.
	if status == domain.RentalStatusOverdue {
		rentals, err := s.rentalRepo.ListActive(ctx)
		if err != nil {
			return nil, 0, err
		}
		now := s.now()
		var overdue []domain.Rental
		for _, rt := range rentals {
			if rt.EffectiveStatus(now) == domain.RentalStatusOverdue {
				overdue = append(overdue, rt)
			}
		}
		return overdue, int32(len(overdue)), nil
	}
	return s.rentalRepo.List(ctx, status, page, pageSize)
}

func (s *rentalService) CancelRental(ctx context.Context, id int32, reason string) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch rental.Status {
	case domain.RentalStatusCancelled:
		return rental, nil
	case domain.RentalStatusReturned:
		return nil, &domain.ValidationError{Field: "status", Message: "a returned rental cannot be cancelled"}
	}

	rental.Status = domain.RentalStatusCancelled
	rental.Notes = appendNote(rental.Notes, "cancelled: "+reason)
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	// Items are held until explicitly released.
	for _, it := range rental.Items {
		if _, err := s.invRepo.Release(ctx, it.InventoryItemID); err != nil {
			logger.Error("Failed to release item of cancelled rental", "rental_id", id, "item_id", it.InventoryItemID, "error", err)
		}
	}
	return rental, nil
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
