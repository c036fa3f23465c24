package domain

import (
	"strings"
	"time"
)

type WaiverStatus string

const (
	WaiverStatusSigned  WaiverStatus = "SIGNED"
	WaiverStatusPending WaiverStatus = "PENDING"
	WaiverStatusExpired WaiverStatus = "EXPIRED"
)

type ActivityType string

const (
	ActivityTypeRental ActivityType = "rental"
	ActivityTypeLesson ActivityType = "lesson"
)

// Waiver covers a set of activities until its expiry date. An expired waiver
// never re-activates; a new one must be signed.
type Waiver struct {
	ID           int32        `json:"id"`
	CustomerID   *int32       `json:"customer_id,omitempty"`
	CustomerName string       `json:"customer_name"`
	Activities   []string     `json:"activities"`
	Status       WaiverStatus `json:"status"`
	SignedDate   time.Time    `json:"signed_date"`
	ExpiryDate   time.Time    `json:"expiry_date"`
	CreatedOn    time.Time    `json:"created_on"`
}

// ActivityTypeFor classifies a requested activity set. Anything mentioning a
// lesson or instruction falls under the lesson waiver rules; everything else
// is a plain rental.
func ActivityTypeFor(activities []string) ActivityType {
	for _, a := range activities {
		lower := strings.ToLower(a)
		if strings.Contains(lower, "lesson") || strings.Contains(lower, "instruction") {
			return ActivityTypeLesson
		}
	}
	return ActivityTypeRental
}

// Covers reports whether the waiver's activity set is a superset of the
// requested activities.
func (w *Waiver) Covers(requested []string) bool {
	held := make(map[string]bool, len(w.Activities))
	for _, a := range w.Activities {
		held[strings.ToLower(a)] = true
	}
	for _, a := range requested {
		if !held[strings.ToLower(a)] {
			return false
		}
	}
	return true
}

// ExpiredAsOf reports whether the waiver has lapsed by the given day.
func (w *Waiver) ExpiredAsOf(today time.Time) bool {
	return DateOf(w.ExpiryDate).Before(DateOf(today))
}
