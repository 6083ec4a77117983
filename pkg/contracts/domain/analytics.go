package domain

import (
	"time"
)

// KPISet holds the top-level key performance indicators for one run.
// Derived, recomputed on every invocation, never persisted.
type KPISet struct {
	TotalRevenue float64   `json:"total_revenue"`
	Orders       int       `json:"orders"`
	Customers    int       `json:"customers"`
	AOV          float64   `json:"aov"`
	RepeatRate   float64   `json:"repeat_order_rate"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// MonthlyRow is one calendar month of revenue and order counts.
type MonthlyRow struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// ProductRow is the aggregate for one product in the top products table.
type ProductRow struct {
	Product   string  `json:"product"`
	UnitsSold int64   `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

// SegmentChannelRow is the aggregate for one (segment, channel) pair.
type SegmentChannelRow struct {
	Segment string  `json:"segment"`
	Channel string  `json:"channel"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// NewReturningRow splits one month's activity between customers in their
// first calendar month of activity and everyone else.
type NewReturningRow struct {
	Month            string  `json:"month"`
	NewRevenue       float64 `json:"new_revenue"`
	NewOrders        int     `json:"new_orders"`
	ReturningRevenue float64 `json:"returning_revenue"`
	ReturningOrders  int     `json:"returning_orders"`
}

// CohortRow is revenue for one signup cohort in one activity month.
type CohortRow struct {
	CohortMonth string  `json:"cohort_month"`
	Month       string  `json:"month"`
	Revenue     float64 `json:"revenue"`
}

// Report bundles the KPI set with every breakdown table produced by one
// aggregation pass. Exporters render it as a workbook and an HTML snapshot.
type Report struct {
	KPIs           KPISet                `json:"kpis"`
	Monthly        []MonthlyRow          `json:"monthly"`
	TopProducts    []ProductRow          `json:"top_products"`
	SegmentChannel []SegmentChannelRow   `json:"segment_channel"`
	NewReturning   []NewReturningRow     `json:"new_returning"`
	Cohorts        []CohortRow           `json:"cohorts"`
	Transactions   []EnrichedTransaction `json:"transactions"`
}
