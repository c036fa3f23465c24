package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gearhouse-backend/internal/domain"
)

type ReturnStep string

const (
	StepInspection ReturnStep = "INSPECTION"
	StepDamage     ReturnStep = "DAMAGE"
	StepPayment    ReturnStep = "PAYMENT"
	StepComplete   ReturnStep = "COMPLETE"
)

// ReturnSession is the return workflow's state, held in memory until
// completion. Nothing is persisted before the complete step runs, so an
// abandoned session changes no financial or inventory state.
type ReturnSession struct {
	ID            uuid.UUID                          `json:"id"`
	RentalID      int32                              `json:"rental_id"`
	Step          ReturnStep                         `json:"step"`
	Assessments   map[int32]*domain.DamageAssessment `json:"assessments"`
	LateFee       decimal.Decimal                    `json:"late_fee"`
	DamageCharge  decimal.Decimal                    `json:"damage_charge"`
	PaymentMethod domain.PaymentMethod               `json:"payment_method,omitempty"`

	rental *domain.Rental
}

func newReturnSession(rental *domain.Rental) *ReturnSession {
	assessments := make(map[int32]*domain.DamageAssessment, len(rental.Items))
	for _, it := range rental.Items {
		assessments[it.ID] = &domain.DamageAssessment{
			RentalItemID:       it.ID,
			InventoryItemID:    it.InventoryItemID,
			CoveredByInsurance: it.InsuranceSelected,
		}
	}
	return &ReturnSession{
		ID:           uuid.New(),
		RentalID:     rental.ID,
		Step:         StepInspection,
		Assessments:  assessments,
		LateFee:      decimal.Zero,
		DamageCharge: decimal.Zero,
		rental:       rental,
	}
}

func (s *ReturnSession) Rental() *domain.Rental { return s.rental }

var inspectionConditions = map[domain.ItemCondition]bool{
	domain.ConditionExcellent: true,
	domain.ConditionGood:      true,
	domain.ConditionFair:      true,
	domain.ConditionDamaged:   true,
}

// recordInspection assigns a condition to every rental item. If anything is
// damaged the session advances to the damage step; otherwise it stays in
// inspection, from where the fast path may complete directly.
func (s *ReturnSession) recordInspection(conditions map[int32]domain.ItemCondition) error {
	if s.Step != StepInspection {
		return &domain.ValidationError{Field: "step", Message: "inspection already recorded"}
	}
	for itemID, a := range s.Assessments {
		cond, ok := conditions[itemID]
		if !ok {
			return &domain.ValidationError{
				Field:   "conditions",
				Message: fmt.Sprintf("rental item %d has no assessed condition", itemID),
			}
		}
		if !inspectionConditions[cond] {
			return &domain.ValidationError{
				Field:   "conditions",
				Message: fmt.Sprintf("invalid condition %q for rental item %d", cond, itemID),
			}
		}
		a.Condition = cond
	}
	if s.hasDamage() {
		s.Step = StepDamage
	}
	return nil
}

func (s *ReturnSession) hasDamage() bool {
	for _, a := range s.Assessments {
		if a.Condition == domain.ConditionDamaged {
			return true
		}
	}
	return false
}

func (s *ReturnSession) inspected() bool {
	for _, a := range s.Assessments {
		if a.Condition == "" {
			return false
		}
	}
	return true
}

// recordDamage fills in the damage reports. Every damaged item needs a
// description and a positive repair estimate before the session may advance.
func (s *ReturnSession) recordDamage(damages map[int32]damageReport) error {
	if s.Step != StepDamage {
		return &domain.ValidationError{Field: "step", Message: "session is not in the damage step"}
	}
	for itemID, a := range s.Assessments {
		if a.Condition != domain.ConditionDamaged {
			continue
		}
		report, ok := damages[itemID]
		if !ok || report.description == "" {
			return &domain.ValidationError{
				Field:   "description",
				Message: fmt.Sprintf("damaged rental item %d needs a damage description", itemID),
			}
		}
		if !report.estimatedCost.IsPositive() {
			return &domain.ValidationError{
				Field:   "estimated_cost",
				Message: fmt.Sprintf("repair cost for rental item %d must be greater than zero", itemID),
			}
		}
		a.Description = report.description
		a.EstimatedCost = report.estimatedCost
		if report.coveredByInsurance != nil {
			a.CoveredByInsurance = *report.coveredByInsurance
		}
	}
	return nil
}

type damageReport struct {
	description        string
	estimatedCost      decimal.Decimal
	coveredByInsurance *bool
}

func (s *ReturnSession) setPaymentMethod(method domain.PaymentMethod) error {
	if s.Step != StepPayment {
		return &domain.ValidationError{Field: "step", Message: "session is not in the payment step"}
	}
	if method != domain.PaymentMethodCard && method != domain.PaymentMethodCash {
		return &domain.ValidationError{Field: "payment_method", Message: fmt.Sprintf("unknown payment method %q", method)}
	}
	s.PaymentMethod = method
	return nil
}

func (s *ReturnSession) amountOwed() decimal.Decimal {
	return s.LateFee.Add(s.DamageCharge)
}

func (s *ReturnSession) assessmentList() []domain.DamageAssessment {
	out := make([]domain.DamageAssessment, 0, len(s.Assessments))
	for _, it := range s.rental.Items {
		out = append(out, *s.Assessments[it.ID])
	}
	return out
}
