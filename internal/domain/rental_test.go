package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRentalEffectiveStatus(t *testing.T) {
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("active before end date", func(t *testing.T) {
		r := &Rental{Status: RentalStatusActive, EndDate: end}
		assert.Equal(t, RentalStatusActive, r.EffectiveStatus(end.AddDate(0, 0, -1)))
	})

	t.Run("active on the end date itself", func(t *testing.T) {
		r := &Rental{Status: RentalStatusActive, EndDate: end}
		assert.Equal(t, RentalStatusActive, r.EffectiveStatus(end.Add(23*time.Hour)))
	})

	t.Run("overdue the day after", func(t *testing.T) {
		r := &Rental{Status: RentalStatusActive, EndDate: end}
		assert.Equal(t, RentalStatusOverdue, r.EffectiveStatus(end.AddDate(0, 0, 1)))
	})

	t.Run("terminal statuses pass through", func(t *testing.T) {
		late := end.AddDate(0, 0, 30)
		returned := &Rental{Status: RentalStatusReturned, EndDate: end}
		cancelled := &Rental{Status: RentalStatusCancelled, EndDate: end}
		assert.Equal(t, RentalStatusReturned, returned.EffectiveStatus(late))
		assert.Equal(t, RentalStatusCancelled, cancelled.EffectiveStatus(late))
	})
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 2024-03-10 07:00 +10 is 2024-03-09 21:00 UTC.
	local := time.Date(2024, 3, 10, 7, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), DateOf(local))
}
