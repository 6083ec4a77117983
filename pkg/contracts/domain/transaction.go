package domain

import (
	"time"
)

// Transaction represents a single sales transaction loaded from the
// transactions CSV. Records are immutable once loaded; many transactions
// may share a customer reference.
type Transaction struct {
	ID         string    `json:"txn_id" csv:"txn_id" validate:"required"`
	Date       time.Time `json:"txn_date" csv:"txn_date"`
	CustomerID string    `json:"customer_id" csv:"customer_id" validate:"required"`
	Product    string    `json:"product" csv:"product" validate:"required"`
	Quantity   int64     `json:"quantity" csv:"quantity" validate:"gt=0"`
	UnitPrice  float64   `json:"unit_price" csv:"unit_price" validate:"gte=0"`
	Currency   string    `json:"currency,omitempty" csv:"currency"`
}

// Amount returns the revenue contributed by this transaction.
func (t Transaction) Amount() float64 {
	return float64(t.Quantity) * t.UnitPrice
}

// Month returns the calendar month key of the transaction date (2006-01).
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// CustomerType classifies a transaction as belonging to a customer's first
// calendar month of activity or a later one.
type CustomerType string

const (
	CustomerTypeNew       CustomerType = "New"
	CustomerTypeReturning CustomerType = "Returning"
)

// EnrichedTransaction is a transaction joined with its customer's segment
// and channel plus the new-vs-returning classification. Unmatched customer
// references carry the Unknown segment and channel.
type EnrichedTransaction struct {
	Transaction
	Segment      string       `json:"segment"`
	Channel      string       `json:"channel"`
	CustomerType CustomerType `json:"customer_type"`
}
