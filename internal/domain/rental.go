package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusOverdue   RentalStatus = "OVERDUE"
	RentalStatusReturned  RentalStatus = "RETURNED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

type Rental struct {
	ID           int32      `json:"id"`
	CustomerID   int32      `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	// Status holds the last persisted state. OVERDUE is a derived view;
	// callers must go through EffectiveStatus instead of trusting this field.
	Status          RentalStatus    `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	InsuranceCost   decimal.Decimal `json:"insurance_cost"`
	LateFees        decimal.Decimal `json:"late_fees"`
	DamageCharges   decimal.Decimal `json:"damage_charges"`
	WaiverCollected bool            `json:"waiver_collected"`
	Notes           string          `json:"notes"`
	Items           []RentalItem    `json:"items"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

type RentalItem struct {
	ID              int32 `json:"id"`
	RentalID        int32 `json:"rental_id"`
	InventoryItemID int32 `json:"inventory_item_id"`
	Quantity        int32 `json:"quantity"`
	// DailyRate is a price snapshot captured from the inventory item at
	// rental creation time. Cost calculations use this snapshot, not the
	// live item price.
	DailyRate         decimal.Decimal `json:"daily_rate"`
	InsuranceSelected bool            `json:"insurance_selected"`
	ItemNotes         string          `json:"item_notes"`
}

// EffectiveStatus derives the rental status as of now. Terminal statuses pass
// through; an active rental past its end date reads as OVERDUE without any
// background job having to flip the stored field.
func (r *Rental) EffectiveStatus(now time.Time) RentalStatus {
	switch r.Status {
	case RentalStatusReturned, RentalStatusCancelled:
		return r.Status
	}
	if DateOf(now).After(DateOf(r.EndDate)) {
		return RentalStatusOverdue
	}
	return RentalStatusActive
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
