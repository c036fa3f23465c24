package domain

import "github.com/shopspring/decimal"

// LateFeePolicy drives late-fee accrual at return time.
type LateFeePolicy struct {
	Enabled bool
	// GraceHours is carried in the policy but does not currently shift when
	// fees start accruing. Known discrepancy with the field's intent; kept
	// as-is pending a product decision.
	GraceHours int
	HourlyRate decimal.Decimal
	MaxFee     decimal.Decimal
}

// WaiverPolicy governs how long a signed waiver stays valid for an activity
// type and whether a fresh waiver is required for every new booking.
type WaiverPolicy struct {
	ExpiryPeriodDays      int
	RequireNewPerActivity bool
}

// InsurancePolicy prices the optional per-item damage insurance.
type InsurancePolicy struct {
	UnitCostPerDay decimal.Decimal
}

// PolicySet is the full read-only policy configuration consumed by the engine.
type PolicySet struct {
	LateFees  LateFeePolicy
	Waiver    map[ActivityType]WaiverPolicy
	Insurance InsurancePolicy
}

// WaiverFor returns the waiver rules for an activity type, falling back to
// the rental rules for unknown types.
func (p PolicySet) WaiverFor(t ActivityType) WaiverPolicy {
	if wp, ok := p.Waiver[t]; ok {
		return wp
	}
	return p.Waiver[ActivityTypeRental]
}
