package domain

import (
	"time"
)

// UnknownBucket is the segment/channel bucket used for transactions whose
// customer reference does not resolve to a known customer. Degrading to a
// bucket keeps the run going instead of failing it.
const UnknownBucket = "Unknown"

// Customer represents a customer record loaded from the customers CSV.
// Immutable once loaded; the identifier is unique.
type Customer struct {
	ID         string    `json:"customer_id" csv:"customer_id" validate:"required"`
	SignupDate time.Time `json:"signup_date" csv:"signup_date"`
	Segment    string    `json:"segment" csv:"segment" validate:"required"`
	Channel    string    `json:"channel" csv:"channel" validate:"required"`
}

// CohortMonth returns the customer's signup cohort month key (2006-01).
func (c Customer) CohortMonth() string {
	return c.SignupDate.Format("2006-01")
}
