package domain

import "github.com/shopspring/decimal"

// DamageAssessment is the per-item verdict recorded during the return
// workflow's inspection and damage steps.
type DamageAssessment struct {
	RentalItemID    int32           `json:"rental_item_id"`
	InventoryItemID int32           `json:"inventory_item_id"`
	Condition       ItemCondition   `json:"condition"`
	Description     string          `json:"description"`
	EstimatedCost   decimal.Decimal `json:"estimated_cost"`
	// CoveredByInsurance defaults to the rental item's insurance selection
	// and may be overridden by the operator per item.
	CoveredByInsurance bool `json:"covered_by_insurance"`
}
