package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"gearhouse-backend/internal/domain"
)

var hoursPerDay = decimal.NewFromInt(24)

// LateFee computes the charge for returning after the rental's end date.
// Fees accrue per started day late at 24x the hourly rate, clamped at the
// policy maximum. Note that policy.GraceHours is not subtracted from the
// day count; see TestLateFee_GraceHoursNotApplied.
func LateFee(endDate, now time.Time, policy domain.LateFeePolicy) decimal.Decimal {
	if !now.After(endDate) {
		return decimal.Zero
	}
	if !policy.Enabled {
		return decimal.Zero
	}
	daysLate := int64(math.Ceil(now.Sub(endDate).Hours() / 24))
	fee := decimal.NewFromInt(daysLate).Mul(hoursPerDay).Mul(policy.HourlyRate)
	if fee.GreaterThan(policy.MaxFee) {
		return policy.MaxFee
	}
	return fee
}

// DamageCharge sums the estimated repair cost of damaged items not covered
// by insurance. Every damaged item must carry a positive estimate; zero and
// negative costs are rejected, not clamped.
func DamageCharge(assessments []domain.DamageAssessment) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range assessments {
		if a.Condition != domain.ConditionDamaged {
			continue
		}
		if !a.EstimatedCost.IsPositive() {
			return decimal.Zero, &domain.ValidationError{
				Field:   "estimated_cost",
				Message: fmt.Sprintf("repair cost for item %d must be greater than zero", a.InventoryItemID),
			}
		}
		if a.CoveredByInsurance {
			continue
		}
		total = total.Add(a.EstimatedCost)
	}
	return total, nil
}

// RentalDays returns the billable day count for a date range: the elapsed
// time rounded up to whole days, with a one-day minimum.
func RentalDays(start, end time.Time) int32 {
	days := int32(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// RentalCharges computes the rental total and its insurance component from
// the item lines and the billable day count. Insurance is priced per insured
// unit per day; the returned total includes it.
func RentalCharges(items []domain.RentalItem, days int32, policy domain.InsurancePolicy) (total, insurance decimal.Decimal) {
	total = decimal.Zero
	insurance = decimal.Zero
	d := decimal.NewFromInt32(days)
	for _, it := range items {
		qty := decimal.NewFromInt32(it.Quantity)
		total = total.Add(it.DailyRate.Mul(qty).Mul(d))
		if it.InsuranceSelected {
			insurance = insurance.Add(policy.UnitCostPerDay.Mul(qty).Mul(d))
		}
	}
	return total.Add(insurance), insurance
}
