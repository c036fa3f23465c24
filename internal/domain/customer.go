package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedOn time.Time `json:"created_on"`
}

type TransactionType string

const (
	TransactionTypeLateFee      TransactionType = "LATE_FEE"
	TransactionTypeDamageCharge TransactionType = "DAMAGE_CHARGE"
)

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodCash PaymentMethod = "CASH"
)

// CustomerTransaction is an append-only ledger entry, never mutated. The
// (rental, type) pair is the idempotency key for the return workflow: at most
// one late-fee and one damage-charge entry exist per rental.
type CustomerTransaction struct {
	ID            int32           `json:"id"`
	CustomerID    int32           `json:"customer_id"`
	RentalID      *int32          `json:"rental_id,omitempty"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Description   string          `json:"description"`
	CreatedOn     time.Time       `json:"created_on"`
}
