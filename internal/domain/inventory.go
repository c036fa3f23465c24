package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryStatus string

const (
	InventoryStatusAvailable   InventoryStatus = "AVAILABLE"
	InventoryStatusRented      InventoryStatus = "RENTED"
	InventoryStatusMaintenance InventoryStatus = "MAINTENANCE"
	InventoryStatusRetired     InventoryStatus = "RETIRED"
)

type ItemCondition string

const (
	ConditionExcellent ItemCondition = "EXCELLENT"
	ConditionGood      ItemCondition = "GOOD"
	ConditionFair      ItemCondition = "FAIR"
	// ConditionDamaged is an inspection verdict only; it is never stored on
	// an inventory item. A damaged item is written back as NEEDS_REPAIR.
	ConditionDamaged     ItemCondition = "DAMAGED"
	ConditionNeedsRepair ItemCondition = "NEEDS_REPAIR"
	ConditionRetired     ItemCondition = "RETIRED"
)

// InventoryItem carries a denormalized rental status. CurrentRenter and
// ExpectedReturn are set iff Status is RENTED; the reconciliation service
// treats active rentals as the source of truth and repairs any drift here.
type InventoryItem struct {
	ID                int32           `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Status            InventoryStatus `json:"status"`
	Condition         ItemCondition   `json:"condition"`
	CurrentRenter     *string         `json:"current_renter,omitempty"`
	ExpectedReturn    *time.Time      `json:"expected_return,omitempty"`
	RentalPricePerDay decimal.Decimal `json:"rental_price_per_day"`
	// Cumulative counters, incremented by completed rentals. Never decrease.
	TotalRentals int32           `json:"total_rentals"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	CreatedOn    time.Time       `json:"created_on"`
	UpdatedOn    time.Time       `json:"updated_on"`
}

type MaintenanceType string

const (
	MaintenanceTypeRepair     MaintenanceType = "REPAIR"
	MaintenanceTypeInspection MaintenanceType = "INSPECTION"
)

// MaintenanceRecord is append-only. RentalID scopes records created by the
// return workflow so a retried completion does not append a duplicate.
type MaintenanceRecord struct {
	ID              int32           `json:"id"`
	InventoryItemID int32           `json:"inventory_item_id"`
	RentalID        *int32          `json:"rental_id,omitempty"`
	Type            MaintenanceType `json:"type"`
	BeforeCondition ItemCondition   `json:"before_condition"`
	AfterCondition  ItemCondition   `json:"after_condition"`
	Cost            decimal.Decimal `json:"cost"`
	DowntimeHours   int32           `json:"downtime_hours"`
	Notes           string          `json:"notes"`
	CreatedOn       time.Time       `json:"created_on"`
}
