package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gearhouse-backend/internal/domain"
)

type CreateRentalItemInput struct {
	InventoryItemID   int32
	Quantity          int32
	InsuranceSelected bool
	ItemNotes         string
}

type CreateRentalInput struct {
	CustomerID int32
	StartDate  time.Time
	EndDate    time.Time
	Notes      string
	Items      []CreateRentalItemInput
}

// CreateRentalResult carries the created rental plus the waiver verdict.
// A missing waiver does not block creation; the shop may collect one after
// the fact, so it surfaces as a warning for the caller to act on.
type CreateRentalResult struct {
	Rental        *domain.Rental
	WaiverWarning string
}

type RentalService interface {
	CreateRental(ctx context.Context, input CreateRentalInput) (*CreateRentalResult, error)
	GetRental(ctx context.Context, id int32) (*domain.Rental, error)
	ListRentals(ctx context.Context, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	CancelRental(ctx context.Context, id int32, reason string) (*domain.Rental, error)
}

// DamageInput is the operator's damage report for one rental item.
type DamageInput struct {
	RentalItemID       int32
	Description        string
	EstimatedCost      string // decimal string; parsed and validated by the service
	CoveredByInsurance *bool  // nil keeps the rental item's insurance selection
}

type ReturnService interface {
	StartReturn(ctx context.Context, rentalID int32) (*ReturnSession, error)
	GetSession(id uuid.UUID) (*ReturnSession, error)
	// RecordInspection assigns a condition to every rental item. With at
	// least one damaged item the session advances to the damage step.
	RecordInspection(ctx context.Context, sessionID uuid.UUID, conditions map[int32]domain.ItemCondition) (*ReturnSession, error)
	// SaveAndComplete is the damage-free fast path: items go straight back
	// to inventory and no fees are recorded, late or not.
	SaveAndComplete(ctx context.Context, sessionID uuid.UUID, returnDate time.Time, notes string) (*domain.Rental, error)
	// RecordDamage stores the per-item damage reports and advances to the
	// payment step with computed totals.
	RecordDamage(ctx context.Context, sessionID uuid.UUID, damages []DamageInput) (*ReturnSession, error)
	SetPaymentMethod(ctx context.Context, sessionID uuid.UUID, method domain.PaymentMethod) (*ReturnSession, error)
	// Complete closes out the rental: persists the return, writes back item
	// statuses, appends maintenance records and ledger transactions. Each
	// step is idempotent; a failed completion can be retried.
	Complete(ctx context.Context, sessionID uuid.UUID, returnDate time.Time, notes string) (*domain.Rental, error)
}

// ReconciliationConflict flags an item the reconciler refuses to touch: a
// maintenance or retired item claimed by an active rental, or one item
// claimed by two rentals. Both indicate an upstream double-booking.
type ReconciliationConflict struct {
	InventoryItemID int32                  `json:"inventory_item_id"`
	Status          domain.InventoryStatus `json:"status"`
	RentalIDs       []int32                `json:"rental_ids"`
	Message         string                 `json:"message"`
}

type ReconciliationReport struct {
	Released   []int32                  `json:"released"`
	Reasserted []int32                  `json:"reasserted"`
	Conflicts  []ReconciliationConflict `json:"conflicts"`
}

// Changed reports whether the run repaired anything.
func (r *ReconciliationReport) Changed() bool {
	return len(r.Released) > 0 || len(r.Reasserted) > 0
}

type ReconciliationService interface {
	// ReconcileInventory recomputes inventory item status from the set of
	// active rentals. Idempotent and safe to run at any time.
	ReconcileInventory(ctx context.Context) (*ReconciliationReport, error)
}

type WaiverService interface {
	// IsValid reports whether the customer holds a waiver covering the
	// requested activities under current policy.
	IsValid(ctx context.Context, customerID int32, requestedActivities []string) (bool, error)
	// CreateWaiver signs a new waiver, computing its expiry date from the
	// activity type's policy period.
	CreateWaiver(ctx context.Context, customerID *int32, customerName string, activities []string, signedDate time.Time) (*domain.Waiver, error)
}
