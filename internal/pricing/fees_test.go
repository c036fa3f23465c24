package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearhouse-backend/internal/domain"
)

func lateFeePolicy() domain.LateFeePolicy {
	return domain.LateFeePolicy{
		Enabled:    true,
		GraceHours: 2,
		HourlyRate: decimal.NewFromInt(10),
		MaxFee:     decimal.NewFromInt(50),
	}
}

func TestLateFee(t *testing.T) {
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("not late", func(t *testing.T) {
		fee := LateFee(end, end.Add(-time.Hour), lateFeePolicy())
		assert.True(t, fee.IsZero())
	})

	t.Run("exactly on time", func(t *testing.T) {
		fee := LateFee(end, end, lateFeePolicy())
		assert.True(t, fee.IsZero())
	})

	t.Run("disabled", func(t *testing.T) {
		policy := lateFeePolicy()
		policy.Enabled = false
		fee := LateFee(end, end.Add(48*time.Hour), policy)
		assert.True(t, fee.IsZero())
	})

	t.Run("clamped to max", func(t *testing.T) {
		// Two days late at 10/hour is 480, far past the 50 cap.
		now := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
		fee := LateFee(end, now, lateFeePolicy())
		assert.True(t, fee.Equal(decimal.NewFromInt(50)), "got %s", fee)
	})

	t.Run("partial day rounds up", func(t *testing.T) {
		policy := lateFeePolicy()
		policy.MaxFee = decimal.NewFromInt(1000)
		fee := LateFee(end, end.Add(25*time.Hour), policy)
		// 25h late counts as 2 started days: 2 * 24 * 10.
		assert.True(t, fee.Equal(decimal.NewFromInt(480)), "got %s", fee)
	})
}

// TestLateFee_GraceHoursNotApplied pins down the current accrual behavior:
// the grace hours in the policy do not delay when fees start. A return one
// hour past the end date is charged a full day even with a two hour grace.
func TestLateFee_GraceHoursNotApplied(t *testing.T) {
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	policy := lateFeePolicy()
	policy.MaxFee = decimal.NewFromInt(1000)

	fee := LateFee(end, end.Add(time.Hour), policy)
	assert.True(t, fee.Equal(decimal.NewFromInt(240)), "got %s", fee)
}

func TestDamageCharge(t *testing.T) {
	t.Run("skips insured and undamaged items", func(t *testing.T) {
		assessments := []domain.DamageAssessment{
			{InventoryItemID: 1, Condition: domain.ConditionGood},
			{InventoryItemID: 2, Condition: domain.ConditionDamaged, EstimatedCost: decimal.NewFromInt(40), CoveredByInsurance: true},
			{InventoryItemID: 3, Condition: domain.ConditionDamaged, EstimatedCost: decimal.NewFromInt(60)},
		}
		total, err := DamageCharge(assessments)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(60)), "got %s", total)
	})

	t.Run("rejects zero cost", func(t *testing.T) {
		assessments := []domain.DamageAssessment{
			{InventoryItemID: 7, Condition: domain.ConditionDamaged},
		}
		_, err := DamageCharge(assessments)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("rejects negative cost even when insured", func(t *testing.T) {
		assessments := []domain.DamageAssessment{
			{InventoryItemID: 7, Condition: domain.ConditionDamaged, EstimatedCost: decimal.NewFromInt(-5), CoveredByInsurance: true},
		}
		_, err := DamageCharge(assessments)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("empty list", func(t *testing.T) {
		total, err := DamageCharge(nil)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestRentalDays(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, int32(1), RentalDays(start, start))
	assert.Equal(t, int32(1), RentalDays(start, start.Add(6*time.Hour)))
	assert.Equal(t, int32(2), RentalDays(start, start.Add(30*time.Hour)))
	assert.Equal(t, int32(7), RentalDays(start, start.AddDate(0, 0, 7)))
}

func TestRentalCharges(t *testing.T) {
	items := []domain.RentalItem{
		{Quantity: 2, DailyRate: decimal.NewFromInt(15), InsuranceSelected: true},
		{Quantity: 1, DailyRate: decimal.NewFromInt(30)},
	}
	policy := domain.InsurancePolicy{UnitCostPerDay: decimal.NewFromInt(5)}

	total, insurance := RentalCharges(items, 3, policy)
	// Base: 2*15*3 + 1*30*3 = 180. Insurance: 2*5*3 = 30.
	assert.True(t, insurance.Equal(decimal.NewFromInt(30)), "got %s", insurance)
	assert.True(t, total.Equal(decimal.NewFromInt(210)), "got %s", total)
}
