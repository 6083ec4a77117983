package dataprocessing

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// transaction CSV columns; currency is optional
var (
	transactionColumns = []string{"txn_id", "txn_date", "customer_id", "product", "quantity", "unit_price"}
	customerColumns    = []string{"customer_id", "signup_date", "segment", "channel"}
)

// dateFormats lists the accepted date layouts, tried in order.
var dateFormats = []string{"2006-01-02", "2006/01/02", time.RFC3339}

// Loader reads the transactions and customers CSV files into typed,
// validated in-memory tables. Rows with missing or unparseable required
// values are dropped and counted rather than failing the run; a missing
// required column fails the load with a data-format error.
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a new CSV loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		validate: validator.New(),
	}
}

// LoadTransactions reads the transactions CSV at path
func (l *Loader) LoadTransactions(ctx context.Context, path string) ([]domain.Transaction, error) {
	rows, columns, err := l.readTable(path, transactionColumns)
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, len(rows))
	dropped := 0

	for i, row := range rows {
		txn, ok := l.parseTransaction(row, columns)
		if !ok {
			dropped++
			l.logger.DebugContext(ctx, "dropped transaction row",
				slog.Int("row_number", i+2),
				slog.Any("content", row))
			continue
		}
		if err := l.validate.Struct(txn); err != nil {
			dropped++
			l.logger.DebugContext(ctx, "dropped invalid transaction row",
				slog.Int("row_number", i+2),
				slog.String("error", err.Error()))
			continue
		}
		transactions = append(transactions, txn)
	}

	l.logger.InfoContext(ctx, "loaded transactions",
		slog.String("path", path),
		slog.Int("loaded", len(transactions)),
		slog.Int("dropped", dropped))

	return transactions, nil
}

// LoadCustomers reads the customers CSV at path. Duplicate customer
// identifiers are resolved last-one-wins.
func (l *Loader) LoadCustomers(ctx context.Context, path string) ([]domain.Customer, error) {
	rows, columns, err := l.readTable(path, customerColumns)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(rows))
	index := make(map[string]int, len(rows))
	dropped := 0

	for i, row := range rows {
		cust, ok := l.parseCustomer(row, columns)
		if !ok {
			dropped++
			l.logger.DebugContext(ctx, "dropped customer row",
				slog.Int("row_number", i+2),
				slog.Any("content", row))
			continue
		}
		if err := l.validate.Struct(cust); err != nil {
			dropped++
			l.logger.DebugContext(ctx, "dropped invalid customer row",
				slog.Int("row_number", i+2),
				slog.String("error", err.Error()))
			continue
		}

		if pos, exists := index[cust.ID]; exists {
			l.logger.WarnContext(ctx, "duplicate customer id, keeping last occurrence",
				slog.String("customer_id", cust.ID))
			customers[pos] = cust
			continue
		}
		index[cust.ID] = len(customers)
		customers = append(customers, cust)
	}

	l.logger.InfoContext(ctx, "loaded customers",
		slog.String("path", path),
		slog.Int("loaded", len(customers)),
		slog.Int("dropped", dropped))

	return customers, nil
}

// readTable opens a CSV file and returns its data rows together with a
// header name to column index map. Header names are matched
// case-insensitively after trimming.
func (l *Loader) readTable(path string, required []string) ([][]string, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewIOError("cannot open input file", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.NewDataFormatError("input file is empty", nil).WithContext("path", path)
	}
	if err != nil {
		return nil, nil, errors.NewDataFormatError("cannot read CSV header", err).WithContext("path", path)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}

	var missing []string
	for _, col := range required {
		if _, exists := columns[col]; !exists {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, errors.NewDataFormatError("input file is missing required columns", nil).
			WithContext("path", path).
			WithContext("missing_columns", strings.Join(missing, ","))
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewDataFormatError("cannot read CSV row", err).WithContext("path", path)
		}
		rows = append(rows, row)
	}

	return rows, columns, nil
}

// parseTransaction converts one CSV row into a Transaction. The second
// return value is false when a required value is missing or unparseable.
func (l *Loader) parseTransaction(row []string, columns map[string]int) (domain.Transaction, bool) {
	id := cell(row, columns, "txn_id")
	customerID := cell(row, columns, "customer_id")
	product := cell(row, columns, "product")
	if id == "" || customerID == "" || product == "" {
		return domain.Transaction{}, false
	}

	date, ok := parseDate(cell(row, columns, "txn_date"))
	if !ok {
		return domain.Transaction{}, false
	}

	quantity, ok := parseInt(cell(row, columns, "quantity"))
	if !ok {
		return domain.Transaction{}, false
	}

	unitPrice, ok := parseFloat(cell(row, columns, "unit_price"))
	if !ok {
		return domain.Transaction{}, false
	}

	return domain.Transaction{
		ID:         id,
		Date:       date,
		CustomerID: customerID,
		Product:    product,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Currency:   cell(row, columns, "currency"),
	}, true
}

// parseCustomer converts one CSV row into a Customer
func (l *Loader) parseCustomer(row []string, columns map[string]int) (domain.Customer, bool) {
	id := cell(row, columns, "customer_id")
	segment := cell(row, columns, "segment")
	channel := cell(row, columns, "channel")
	if id == "" || segment == "" || channel == "" {
		return domain.Customer{}, false
	}

	signup, ok := parseDate(cell(row, columns, "signup_date"))
	if !ok {
		return domain.Customer{}, false
	}

	return domain.Customer{
		ID:         id,
		SignupDate: signup,
		Segment:    segment,
		Channel:    channel,
	}, true
}

// cell returns the trimmed value of the named column, or "" when the
// column is absent or the row is short.
func cell(row []string, columns map[string]int, name string) string {
	idx, exists := columns[name]
	if !exists || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
