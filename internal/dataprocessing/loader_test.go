package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/errors"
	"salescli/internal/shared/testutil"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTransactions(t *testing.T) {
	path := writeCSV(t, "transactions.csv",
		"txn_id,txn_date,customer_id,product,quantity,unit_price,currency\n"+
			"T1001,2025-01-05,C001,Basic,1,49.00,USD\n"+
			"T1002,2025-01-15,C002,Pro,2,149.00,USD\n")

	loader := NewLoader(nil)
	txns, err := loader.LoadTransactions(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "T1001", txns[0].ID)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "C001", txns[0].CustomerID)
	assert.Equal(t, "Basic", txns[0].Product)
	assert.Equal(t, int64(1), txns[0].Quantity)
	assert.Equal(t, 49.0, txns[0].UnitPrice)
	assert.Equal(t, "USD", txns[0].Currency)

	assert.Equal(t, 298.0, txns[1].Amount())
}

func TestLoadTransactionsHeaderVariants(t *testing.T) {
	// Uppercase headers, extra column order, missing optional currency
	path := writeCSV(t, "transactions.csv",
		"Product,TXN_ID,Quantity,Unit_Price,Customer_ID,Txn_Date\n"+
			"Basic,T1,1,10.00,C1,2024-01-05\n")

	loader := NewLoader(nil)
	txns, err := loader.LoadTransactions(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "T1", txns[0].ID)
	assert.Equal(t, "", txns[0].Currency)
}

func TestLoadTransactionsDropsBadRows(t *testing.T) {
	path := writeCSV(t, "transactions.csv",
		"txn_id,txn_date,customer_id,product,quantity,unit_price\n"+
			"T1,2024-01-05,C1,Widget,2,10.00\n"+
			",2024-01-06,C1,Widget,1,10.00\n"+ // missing id
			"T3,not-a-date,C1,Widget,1,10.00\n"+ // bad date
			"T4,2024-01-07,C1,Widget,,10.00\n"+ // null quantity
			"T5,2024-01-08,C1,Widget,1,abc\n"+ // bad price
			"T6,2024-01-09,C1,Widget,0,10.00\n"+ // zero quantity
			"T7,2024-01-10,C1,Widget,1,-5.00\n"+ // negative price
			"T8,2024-01-11,C1,Widget,3,5.00\n")

	loader := NewLoader(nil)
	txns, err := loader.LoadTransactions(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, txns, 2)
	assert.Equal(t, "T1", txns[0].ID)
	assert.Equal(t, "T8", txns[1].ID)
}

func TestLoadTransactionsMissingColumn(t *testing.T) {
	path := writeCSV(t, "transactions.csv",
		"txn_id,txn_date,customer_id,product,quantity\n"+
			"T1,2024-01-05,C1,Widget,2\n")

	loader := NewLoader(nil)
	_, err := loader.LoadTransactions(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeDataFormat))

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "unit_price", appErr.Context["missing_columns"])
}

func TestLoadTransactionsUnreadableFile(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadTransactions(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeIO))
}

func TestLoadTransactionsEmptyFile(t *testing.T) {
	path := writeCSV(t, "transactions.csv", "")

	loader := NewLoader(nil)
	_, err := loader.LoadTransactions(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeDataFormat))
}

func TestLoadCustomers(t *testing.T) {
	path := writeCSV(t, "customers.csv",
		"customer_id,signup_date,segment,channel\n"+
			"C001,2024-12-15,Retail,Online\n"+
			"C002,2025-01-10,SMB,Partner\n")

	loader := NewLoader(nil)
	customers, err := loader.LoadCustomers(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, customers, 2)

	assert.Equal(t, "C001", customers[0].ID)
	assert.Equal(t, "Retail", customers[0].Segment)
	assert.Equal(t, "Online", customers[0].Channel)
	assert.Equal(t, "2024-12", customers[0].CohortMonth())
}

func TestLoadCustomersDuplicateLastWins(t *testing.T) {
	path := writeCSV(t, "customers.csv",
		"customer_id,signup_date,segment,channel\n"+
			"C001,2024-12-15,Retail,Online\n"+
			"C001,2025-01-01,SMB,Direct\n")

	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(logger)
	customers, err := loader.LoadCustomers(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "SMB", customers[0].Segment)
	assert.Equal(t, "Direct", customers[0].Channel)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "duplicate customer id")
}

func TestLoadCustomersMissingColumns(t *testing.T) {
	path := writeCSV(t, "customers.csv",
		"customer_id,signup_date\nC001,2024-12-15\n")

	loader := NewLoader(nil)
	_, err := loader.LoadCustomers(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeDataFormat))

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "segment,channel", appErr.Context["missing_columns"])
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"iso date", "2024-01-05", true},
		{"slash date", "2024/01/05", true},
		{"rfc3339", "2024-01-05T00:00:00Z", true},
		{"empty", "", false},
		{"garbage", "yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseNumericHelpers(t *testing.T) {
	v, ok := parseInt("1,000")
	require.True(t, ok)
	assert.Equal(t, int64(1000), v)

	f, ok := parseFloat("1,234.50")
	require.True(t, ok)
	assert.Equal(t, 1234.5, f)

	_, ok = parseInt("")
	assert.False(t, ok)
	_, ok = parseFloat("n/a")
	assert.False(t, ok)
}
