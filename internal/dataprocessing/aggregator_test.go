package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/shared/testutil"
	"salescli/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(id string, date time.Time, customer, product string, qty int64, price float64) domain.Transaction {
	return domain.Transaction{
		ID:         id,
		Date:       date,
		CustomerID: customer,
		Product:    product,
		Quantity:   qty,
		UnitPrice:  price,
		Currency:   "USD",
	}
}

// Worked example: one customer buying in two consecutive months.
func TestAggregateSingleRepeatCustomer(t *testing.T) {
	txns := []domain.Transaction{
		txn("T1", day(2024, 1, 5), "C1", "Widget", 2, 10.00),
		txn("T2", day(2024, 2, 1), "C1", "Widget", 1, 10.00),
	}
	customers := []domain.Customer{
		{ID: "C1", SignupDate: day(2023, 12, 1), Segment: "SMB", Channel: "Online"},
	}

	report := NewAggregator(nil, AggregatorConfig{}).Aggregate(context.Background(), txns, customers)

	assert.Equal(t, 30.00, report.KPIs.TotalRevenue)
	assert.Equal(t, 2, report.KPIs.Orders)
	assert.Equal(t, 1, report.KPIs.Customers)
	assert.Equal(t, 15.00, report.KPIs.AOV)
	assert.Equal(t, 1.0, report.KPIs.RepeatRate)

	require.Len(t, report.NewReturning, 2)
	jan, feb := report.NewReturning[0], report.NewReturning[1]
	assert.Equal(t, "2024-01", jan.Month)
	assert.Equal(t, 20.00, jan.NewRevenue)
	assert.Equal(t, 0.00, jan.ReturningRevenue)
	assert.Equal(t, "2024-02", feb.Month)
	assert.Equal(t, 0.00, feb.NewRevenue)
	assert.Equal(t, 10.00, feb.ReturningRevenue)
}

func TestAggregateEmptyInput(t *testing.T) {
	report := NewAggregator(nil, AggregatorConfig{}).Aggregate(context.Background(), nil, nil)

	assert.Zero(t, report.KPIs.TotalRevenue)
	assert.Zero(t, report.KPIs.Orders)
	assert.Zero(t, report.KPIs.Customers)
	assert.Zero(t, report.KPIs.AOV)
	assert.Zero(t, report.KPIs.RepeatRate)
	assert.Empty(t, report.Monthly)
	assert.Empty(t, report.TopProducts)
	assert.Empty(t, report.Transactions)
}

func TestAggregateKPIProperties(t *testing.T) {
	txns := []domain.Transaction{
		txn("T1", day(2025, 1, 5), "C1", "Basic", 1, 49.00),
		txn("T2", day(2025, 1, 15), "C2", "Pro", 1, 149.00),
		txn("T3", day(2025, 1, 22), "C3", "Enterprise", 1, 499.00),
		txn("T4", day(2025, 2, 1), "C1", "Basic", 2, 49.00),
		txn("T5", day(2025, 2, 10), "C4", "Basic", 1, 49.00),
		txn("T6", day(2025, 2, 20), "C5", "Pro", 1, 149.00),
		txn("T7", day(2025, 3, 3), "C3", "Enterprise", 1, 499.00),
		txn("T8", day(2025, 3, 12), "C2", "Pro", 1, 149.00),
		txn("T9", day(2025, 3, 18), "C1", "Basic", 1, 49.00),
	}
	customers := []domain.Customer{
		{ID: "C1", SignupDate: day(2024, 12, 15), Segment: "Retail", Channel: "Online"},
		{ID: "C2", SignupDate: day(2025, 1, 10), Segment: "SMB", Channel: "Partner"},
		{ID: "C3", SignupDate: day(2025, 1, 20), Segment: "Enterprise", Channel: "Direct"},
		{ID: "C4", SignupDate: day(2025, 2, 5), Segment: "Retail", Channel: "Online"},
		{ID: "C5", SignupDate: day(2025, 2, 15), Segment: "SMB", Channel: "Online"},
	}

	report := NewAggregator(nil, AggregatorConfig{}).Aggregate(context.Background(), txns, customers)

	// total_revenue is the exact sum of quantity x unit_price
	var expectedTotal float64
	for _, tx := range txns {
		expectedTotal += tx.Amount()
	}
	assert.Equal(t, expectedTotal, report.KPIs.TotalRevenue)
	assert.Equal(t, 9, report.KPIs.Orders)
	assert.Equal(t, 5, report.KPIs.Customers)

	// AOV x orders reproduces total revenue
	assert.InDelta(t, report.KPIs.TotalRevenue, report.KPIs.AOV*float64(report.KPIs.Orders), 1e-9)

	// C1, C2, C3 repeat; C4, C5 do not
	assert.InDelta(t, 3.0/5.0, report.KPIs.RepeatRate, 1e-9)

	// Monthly rows sum to total revenue and are chronological
	var monthlySum float64
	for i, row := range report.Monthly {
		monthlySum += row.Revenue
		if i > 0 {
			assert.Less(t, report.Monthly[i-1].Month, row.Month)
		}
	}
	assert.InDelta(t, report.KPIs.TotalRevenue, monthlySum, 1e-9)

	// New-vs-returning rows also sum to total revenue
	var splitSum float64
	for _, row := range report.NewReturning {
		splitSum += row.NewRevenue + row.ReturningRevenue
	}
	assert.InDelta(t, report.KPIs.TotalRevenue, splitSum, 1e-9)

	// Cohort rows sum to total revenue as well
	var cohortSum float64
	for _, row := range report.Cohorts {
		cohortSum += row.Revenue
	}
	assert.InDelta(t, report.KPIs.TotalRevenue, cohortSum, 1e-9)

	// Top products descending by revenue
	require.Len(t, report.TopProducts, 3)
	assert.Equal(t, "Enterprise", report.TopProducts[0].Product)
	assert.Equal(t, 998.00, report.TopProducts[0].Revenue)
	for i := 1; i < len(report.TopProducts); i++ {
		assert.GreaterOrEqual(t, report.TopProducts[i-1].Revenue, report.TopProducts[i].Revenue)
	}

	// Segment x channel descending by revenue
	for i := 1; i < len(report.SegmentChannel); i++ {
		assert.GreaterOrEqual(t, report.SegmentChannel[i-1].Revenue, report.SegmentChannel[i].Revenue)
	}
}

func TestAggregateDuplicateTransactionIDs(t *testing.T) {
	// Orders counts distinct identifiers even when rows repeat
	txns := []domain.Transaction{
		txn("T1", day(2024, 1, 5), "C1", "Widget", 1, 10.00),
		txn("T1", day(2024, 1, 5), "C1", "Widget", 1, 10.00),
		txn("T2", day(2024, 1, 6), "C1", "Widget", 1, 10.00),
	}

	report := NewAggregator(nil, AggregatorConfig{}).Aggregate(context.Background(), txns, nil)

	assert.Equal(t, 2, report.KPIs.Orders)
	assert.Equal(t, 30.00, report.KPIs.TotalRevenue)
}

func TestAggregateRepeatRateZeroWhenAllSingle(t *testing.T) {
	txns := []domain.Transaction{
		txn("T1", day(2024, 1, 5), "C1", "Widget", 1, 10.00),
		txn("T2", day(2024, 1, 6), "C2", "Widget", 1, 10.00),
	}

	report := NewAggregator(nil, AggregatorConfig{}).Aggregate(context.Background(), txns, nil)
	assert.Equal(t, 0.0, report.KPIs.RepeatRate)
}

func TestAggregateUnknownCustomerBucket(t *testing.T) {
	txns := []domain.Transaction{
		txn("T1", day(2024, 1, 5), "C1", "Widget", 1, 100.00),
		txn("T2", day(2024, 1, 6), "GHOST", "Widget", 1, 25.00),
	}
	customers := []domain.Customer{
		{ID: "C1", SignupDate: day(2023, 12, 1), Segment: "SMB", Channel: "Online"},
	}

	logger, handler := testutil.NewTestLogger(t)
	report := NewAggregator(logger, AggregatorConfig{}).Aggregate(context.Background(), txns, customers)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "unknown customers")

	require.Len(t, report.SegmentChannel, 2)
	assert.Equal(t, "SMB", report.SegmentChannel[0].Segment)
	assert.Equal(t, domain.UnknownBucket, report.SegmentChannel[1].Segment)
	assert.Equal(t, domain.UnknownBucket, report.SegmentChannel[1].Channel)
	assert.Equal(t, 25.00, report.SegmentChannel[1].Revenue)

	// The unknown reference still counts toward totals
	assert.Equal(t, 125.00, report.KPIs.TotalRevenue)
	assert.Equal(t, 2, report.KPIs.Customers)
}

func TestAggregateTopProductsLimitAndTies(t *testing.T) {
	txns := []domain.Transaction{
		txn("T1", day(2024, 1, 1), "C1", "Bravo", 1, 50.00),
		txn("T2", day(2024, 1, 2), "C1", "Alpha", 1, 50.00),
		txn("T3", day(2024, 1, 3), "C1", "Charlie", 1, 80.00),
		txn("T4", day(2024, 1, 4), "C1", "Delta", 1, 20.00),
	}

	report := NewAggregator(nil, AggregatorConfig{TopProducts: 3}).Aggregate(context.Background(), txns, nil)

	require.Len(t, report.TopProducts, 3)
	assert.Equal(t, "Charlie", report.TopProducts[0].Product)
	// Tie at 50.00 broken alphabetically
	assert.Equal(t, "Alpha", report.TopProducts[1].Product)
	assert.Equal(t, "Bravo", report.TopProducts[2].Product)
}

func TestAggregateEnrichedTransactions(t *testing.T) {
	txns := []domain.Transaction{
		txn("T2", day(2024, 2, 1), "C1", "Widget", 1, 10.00),
		txn("T1", day(2024, 1, 5), "C1", "Widget", 2, 10.00),
	}
	customers := []domain.Customer{
		{ID: "C1", SignupDate: day(2023, 12, 1), Segment: "SMB", Channel: "Online"},
	}

	report := NewAggregator(nil, AggregatorConfig{}).Aggregate(context.Background(), txns, customers)

	require.Len(t, report.Transactions, 2)
	assert.Equal(t, "T1", report.Transactions[0].ID)
	assert.Equal(t, domain.CustomerTypeNew, report.Transactions[0].CustomerType)
	assert.Equal(t, "T2", report.Transactions[1].ID)
	assert.Equal(t, domain.CustomerTypeReturning, report.Transactions[1].CustomerType)
	assert.Equal(t, "SMB", report.Transactions[0].Segment)
}

func TestAggregateDeterministic(t *testing.T) {
	txns := []domain.Transaction{
		txn("T1", day(2025, 1, 5), "C1", "Basic", 1, 49.00),
		txn("T2", day(2025, 2, 10), "C2", "Pro", 1, 149.00),
		txn("T3", day(2025, 2, 12), "C1", "Pro", 2, 149.00),
	}
	customers := []domain.Customer{
		{ID: "C1", SignupDate: day(2024, 12, 1), Segment: "Retail", Channel: "Online"},
		{ID: "C2", SignupDate: day(2025, 1, 2), Segment: "SMB", Channel: "Partner"},
	}

	agg := NewAggregator(nil, AggregatorConfig{})
	first := agg.Aggregate(context.Background(), txns, customers)
	second := agg.Aggregate(context.Background(), txns, customers)

	assert.Equal(t, first.KPIs.TotalRevenue, second.KPIs.TotalRevenue)
	assert.Equal(t, first.Monthly, second.Monthly)
	assert.Equal(t, first.TopProducts, second.TopProducts)
	assert.Equal(t, first.SegmentChannel, second.SegmentChannel)
	assert.Equal(t, first.NewReturning, second.NewReturning)
	assert.Equal(t, first.Cohorts, second.Cohorts)
}
