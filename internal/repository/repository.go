package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gearhouse-backend/internal/domain"
)

type RentalRepository interface {
	// Create persists the rental and its item lines, assigning IDs.
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	// MarkReturned closes the rental in a single conditional update guarded
	// on ACTIVE status. Returns false when no row was updated, which lets a
	// retried completion detect that step 1 already ran.
	MarkReturned(ctx context.Context, id int32, returnDate time.Time, lateFees, damageCharges decimal.Decimal, notes string) (bool, error)
	ListActive(ctx context.Context) ([]domain.Rental, error)
	List(ctx context.Context, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
}

type InventoryRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.InventoryItem, error)
	ListByStatus(ctx context.Context, status domain.InventoryStatus) ([]domain.InventoryItem, error)
	// MarkRented claims an item for a renter with a conditional update
	// guarded on AVAILABLE status. Returns false when another caller holds
	// the item; the check-then-write race resolves here, not in Go code.
	MarkRented(ctx context.Context, id int32, renter string, expectedReturn time.Time) (bool, error)
	// ForceRented asserts the rented state unconditionally. Reconciliation
	// uses it to repair drift; regular callers must use MarkRented.
	ForceRented(ctx context.Context, id int32, renter string, expectedReturn time.Time) error
	// Release returns a RENTED item to AVAILABLE and clears the renter
	// fields. A no-op (false) for items in any other status.
	Release(ctx context.Context, id int32) (bool, error)
	// ApplyReturn writes the post-return status and condition and clears
	// the renter fields.
	ApplyReturn(ctx context.Context, id int32, status domain.InventoryStatus, condition domain.ItemCondition) error
	// RecordCompletedRental bumps the cumulative counters. Counters only
	// ever grow.
	RecordCompletedRental(ctx context.Context, id int32, revenue decimal.Decimal) error
}

type MaintenanceRepository interface {
	Append(ctx context.Context, record *domain.MaintenanceRecord) error
	// ExistsForRental reports whether a record for this (rental, item) pair
	// was already appended, so a retried completion can skip it.
	ExistsForRental(ctx context.Context, rentalID, inventoryItemID int32) (bool, error)
}

type TransactionRepository interface {
	Append(ctx context.Context, txn *domain.CustomerTransaction) error
	// ExistsForRental reports whether a transaction of this type was
	// already appended for the rental.
	ExistsForRental(ctx context.Context, rentalID int32, txnType domain.TransactionType) (bool, error)
}

type WaiverRepository interface {
	Create(ctx context.Context, waiver *domain.Waiver) error
	// GetLatestSigned returns the customer's most recent SIGNED waiver, or
	// (nil, nil) when none exists.
	GetLatestSigned(ctx context.Context, customerID int32) (*domain.Waiver, error)
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
}
