package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"salescli/pkg/contracts/domain"
)

// Aggregator computes the KPI set and breakdown tables from loaded
// transactions and customers. The transform is pure and deterministic:
// identical inputs always produce an identical report (apart from the
// generation timestamp).
type Aggregator struct {
	logger      *slog.Logger
	topProducts int
}

// AggregatorConfig holds configuration options for the Aggregator.
type AggregatorConfig struct {
	TopProducts int // Maximum number of rows in the top products table
}

// NewAggregator creates a new aggregator with the given configuration.
func NewAggregator(logger *slog.Logger, config AggregatorConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopProducts <= 0 {
		config.TopProducts = 10
	}

	return &Aggregator{
		logger:      logger,
		topProducts: config.TopProducts,
	}
}

// Aggregate joins transactions to customers and computes every KPI and
// breakdown table. Transactions referencing an unknown customer degrade
// to the Unknown segment/channel bucket instead of failing the run.
func (a *Aggregator) Aggregate(ctx context.Context, txns []domain.Transaction, customers []domain.Customer) *domain.Report {
	a.logger.InfoContext(ctx, "aggregating sales data",
		slog.Int("transaction_count", len(txns)),
		slog.Int("customer_count", len(customers)))

	customerIndex := make(map[string]domain.Customer, len(customers))
	for _, c := range customers {
		customerIndex[c.ID] = c
	}

	// First calendar month of activity per customer drives the
	// new-vs-returning classification.
	firstMonth := make(map[string]string)
	for _, t := range txns {
		month := t.Month()
		if existing, ok := firstMonth[t.CustomerID]; !ok || month < existing {
			firstMonth[t.CustomerID] = month
		}
	}

	var totalRevenue float64
	orderIDs := make(map[string]struct{})
	txnsByCustomer := make(map[string]map[string]struct{})

	monthlyRevenue := make(map[string]float64)
	monthlyOrders := make(map[string]map[string]struct{})

	productUnits := make(map[string]int64)
	productRevenue := make(map[string]float64)

	type segChanKey struct{ segment, channel string }
	segChanRevenue := make(map[segChanKey]float64)
	segChanOrders := make(map[segChanKey]map[string]struct{})

	newReturning := make(map[string]*domain.NewReturningRow)
	newOrders := make(map[string]map[string]struct{})
	returningOrders := make(map[string]map[string]struct{})

	cohortRevenue := make(map[string]map[string]float64)

	enriched := make([]domain.EnrichedTransaction, 0, len(txns))
	unmatched := 0

	for _, t := range txns {
		amount := t.Amount()
		month := t.Month()

		totalRevenue += amount
		orderIDs[t.ID] = struct{}{}
		addToSet(txnsByCustomer, t.CustomerID, t.ID)

		monthlyRevenue[month] += amount
		addToSet(monthlyOrders, month, t.ID)

		productUnits[t.Product] += t.Quantity
		productRevenue[t.Product] += amount

		segment, channel := domain.UnknownBucket, domain.UnknownBucket
		cohort := domain.UnknownBucket
		if c, ok := customerIndex[t.CustomerID]; ok {
			segment, channel = c.Segment, c.Channel
			cohort = c.CohortMonth()
		} else {
			unmatched++
		}

		key := segChanKey{segment, channel}
		segChanRevenue[key] += amount
		if segChanOrders[key] == nil {
			segChanOrders[key] = make(map[string]struct{})
		}
		segChanOrders[key][t.ID] = struct{}{}

		row, ok := newReturning[month]
		if !ok {
			row = &domain.NewReturningRow{Month: month}
			newReturning[month] = row
		}
		customerType := domain.CustomerTypeReturning
		if firstMonth[t.CustomerID] == month {
			customerType = domain.CustomerTypeNew
			row.NewRevenue += amount
			addToSet(newOrders, month, t.ID)
		} else {
			row.ReturningRevenue += amount
			addToSet(returningOrders, month, t.ID)
		}

		if cohortRevenue[cohort] == nil {
			cohortRevenue[cohort] = make(map[string]float64)
		}
		cohortRevenue[cohort][month] += amount

		enriched = append(enriched, domain.EnrichedTransaction{
			Transaction:  t,
			Segment:      segment,
			Channel:      channel,
			CustomerType: customerType,
		})
	}

	if unmatched > 0 {
		a.logger.WarnContext(ctx, "transactions reference unknown customers, degraded to Unknown bucket",
			slog.Int("unmatched_count", unmatched))
	}

	report := &domain.Report{
		KPIs:         a.computeKPIs(totalRevenue, orderIDs, txnsByCustomer),
		Transactions: enriched,
	}

	// Monthly breakdown, chronological
	for month, revenue := range monthlyRevenue {
		report.Monthly = append(report.Monthly, domain.MonthlyRow{
			Month:   month,
			Revenue: revenue,
			Orders:  len(monthlyOrders[month]),
		})
	}
	sort.Slice(report.Monthly, func(i, j int) bool {
		return report.Monthly[i].Month < report.Monthly[j].Month
	})

	// Top products by revenue, ties broken by product name
	for product, revenue := range productRevenue {
		report.TopProducts = append(report.TopProducts, domain.ProductRow{
			Product:   product,
			UnitsSold: productUnits[product],
			Revenue:   revenue,
		})
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		if report.TopProducts[i].Revenue != report.TopProducts[j].Revenue {
			return report.TopProducts[i].Revenue > report.TopProducts[j].Revenue
		}
		return report.TopProducts[i].Product < report.TopProducts[j].Product
	})
	if len(report.TopProducts) > a.topProducts {
		report.TopProducts = report.TopProducts[:a.topProducts]
	}

	// Segment x channel, descending by revenue
	for key, revenue := range segChanRevenue {
		report.SegmentChannel = append(report.SegmentChannel, domain.SegmentChannelRow{
			Segment: key.segment,
			Channel: key.channel,
			Revenue: revenue,
			Orders:  len(segChanOrders[key]),
		})
	}
	sort.Slice(report.SegmentChannel, func(i, j int) bool {
		ri, rj := report.SegmentChannel[i], report.SegmentChannel[j]
		if ri.Revenue != rj.Revenue {
			return ri.Revenue > rj.Revenue
		}
		if ri.Segment != rj.Segment {
			return ri.Segment < rj.Segment
		}
		return ri.Channel < rj.Channel
	})

	// New vs returning, chronological
	for month, row := range newReturning {
		row.NewOrders = len(newOrders[month])
		row.ReturningOrders = len(returningOrders[month])
		report.NewReturning = append(report.NewReturning, *row)
	}
	sort.Slice(report.NewReturning, func(i, j int) bool {
		return report.NewReturning[i].Month < report.NewReturning[j].Month
	})

	// Signup cohorts over activity months
	for cohort, months := range cohortRevenue {
		for month, revenue := range months {
			report.Cohorts = append(report.Cohorts, domain.CohortRow{
				CohortMonth: cohort,
				Month:       month,
				Revenue:     revenue,
			})
		}
	}
	sort.Slice(report.Cohorts, func(i, j int) bool {
		if report.Cohorts[i].CohortMonth != report.Cohorts[j].CohortMonth {
			return report.Cohorts[i].CohortMonth < report.Cohorts[j].CohortMonth
		}
		return report.Cohorts[i].Month < report.Cohorts[j].Month
	})

	// Enriched transactions in date order for the workbook sheet
	sort.Slice(report.Transactions, func(i, j int) bool {
		if !report.Transactions[i].Date.Equal(report.Transactions[j].Date) {
			return report.Transactions[i].Date.Before(report.Transactions[j].Date)
		}
		return report.Transactions[i].ID < report.Transactions[j].ID
	})

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Float64("total_revenue", report.KPIs.TotalRevenue),
		slog.Int("orders", report.KPIs.Orders),
		slog.Int("customers", report.KPIs.Customers),
		slog.Int("months", len(report.Monthly)))

	return report
}

// computeKPIs derives the top-level KPI set from the aggregation state.
func (a *Aggregator) computeKPIs(totalRevenue float64, orderIDs map[string]struct{}, txnsByCustomer map[string]map[string]struct{}) domain.KPISet {
	kpis := domain.KPISet{
		TotalRevenue: totalRevenue,
		Orders:       len(orderIDs),
		Customers:    len(txnsByCustomer),
		GeneratedAt:  time.Now(),
	}

	if kpis.Orders > 0 {
		kpis.AOV = totalRevenue / float64(kpis.Orders)
	}

	if kpis.Customers > 0 {
		repeat := 0
		for _, orders := range txnsByCustomer {
			if len(orders) > 1 {
				repeat++
			}
		}
		kpis.RepeatRate = float64(repeat) / float64(kpis.Customers)
	}

	return kpis
}

// addToSet inserts value into the named set, creating it on first use.
func addToSet(sets map[string]map[string]struct{}, key, value string) {
	if sets[key] == nil {
		sets[key] = make(map[string]struct{})
	}
	sets[key][value] = struct{}{}
}
