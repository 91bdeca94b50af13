package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date, description, amount, category string) models.Transaction {
	return models.Transaction{
		Date:        date,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
	}
}

func TestCSVLedger_LoadMissing(t *testing.T) {
	ledger := NewCSVLedger(filepath.Join(t.TempDir(), "transactions.csv"), 0, &logging.MockLogger{})

	records, skipped, err := ledger.Load()
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, skipped)
	assert.Empty(t, records)
}

func TestCSVLedger_LoadEmptyAndHeaderOnly(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "header only", content: "Date,Description,Amount,Category\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "transactions.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			records, _, err := NewCSVLedger(path, 0, &logging.MockLogger{}).Load()
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestCSVLedger_AppendCreatesWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "transactions.csv")
	logger := &logging.MockLogger{}
	ledger := NewCSVLedger(path, 0, logger)

	err := ledger.Append([]models.Transaction{
		tx("2024-01-05", "Coffee, Tea & More", "5.5", "Dining"),
		tx("2024-01-06", "Refund", "-12.00", "Uncategorized"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := "Date,Description,Amount,Category\n" +
		"2024-01-05,\"Coffee, Tea & More\",-5.50,Dining\n" +
		"2024-01-06,Refund,-12.00,Uncategorized\n"
	assert.Equal(t, expected, string(data))
	assert.True(t, logger.HasEntry("INFO", "Appended transactions to ledger"))
}

func TestCSVLedger_AppendThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	ledger := NewCSVLedger(path, 0, &logging.MockLogger{})

	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-05", "Coffee", "5.50", "Dining")}))
	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-07", "Grocery Store", "25", "Food")}))
	require.NoError(t, ledger.Append(nil))

	records, _, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2024-01-05", records[0].Date)
	assert.Equal(t, "Coffee", records[0].Description)
	assert.Equal(t, "Dining", records[0].Category)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("5.50")), "amount read back as magnitude")
	assert.True(t, records[1].Amount.Equal(decimal.RequireFromString("25")))
}

func TestCSVLedger_AppendToFileWithoutTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Description,Amount,Category\n2024-01-01,Rent,-900.00,Housing"), 0600))

	ledger := NewCSVLedger(path, 0, &logging.MockLogger{})
	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-02", "Coffee", "3", "Dining")}))

	records, _, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Rent", records[0].Description)
	assert.Equal(t, "Coffee", records[1].Description)
}

func TestCSVLedger_CustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	ledger := NewCSVLedger(path, ';', &logging.MockLogger{})

	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-05", "Coffee", "3.5", "Dining")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date;Description;Amount;Category")

	records, _, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dining", records[0].Category)
}

func TestCSVLedger_LoadSkipsInvalidAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := "Date,Description,Amount,Category\n" +
		"2024-01-01,Rent,-900.00,Housing\n" +
		"2024-01-02,Tea,abc,Food\n" +
		"2024-01-03,Bread,-2.40,Food\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	logger := &logging.MockLogger{}
	records, skipped, err := NewCSVLedger(path, 0, logger).Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Rent", records[0].Description)
	assert.Equal(t, "Bread", records[1].Description)

	require.Len(t, skipped, 1)
	assert.True(t, budgeterror.IsValidation(skipped[0]))
	var verr *budgeterror.ValidationError
	require.ErrorAs(t, skipped[0], &verr)
	assert.Equal(t, 3, verr.Row)
	assert.Equal(t, "abc", verr.Value)
	assert.Equal(t, []models.Key{{Date: "2024-01-02", Description: "tea"}}, SkippedKeys(skipped))
	assert.True(t, logger.HasEntry("WARN", "Skipping unreadable ledger row"))
}

func TestCSVLedger_LoadSkipsUnparsableRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := "Date,Description,Amount,Category\n" +
		"2024-01-01,Rent,-900.00,Housing\n" +
		"2024-01-02,Caf\"e,-3.00,Food\n" +
		"2024-01-03,Bread,-2.40,Food\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	records, skipped, err := NewCSVLedger(path, 0, &logging.MockLogger{}).Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Bread", records[1].Description)
	require.Len(t, skipped, 1)
	assert.True(t, budgeterror.IsValidation(skipped[0]))
	assert.Empty(t, SkippedKeys(skipped))
}

func TestCSVLedger_TruncatedLastLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := "Date,Description,Amount,Category\n" +
		"2024-01-01,Rent,-900.00,Housing\n" +
		"2024-01-02,Te"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	logger := &logging.MockLogger{}
	ledger := NewCSVLedger(path, 0, logger)

	records, skipped, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, skipped, 1)

	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-03", "Bread", "2.40", "Food")}))
	assert.True(t, logger.HasEntry("WARN", "Dropping partial ledger record"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Description,Amount,Category\n"+
		"2024-01-01,Rent,-900.00,Housing\n"+
		"2024-01-03,Bread,-2.40,Food\n", string(data))

	records, skipped, err = ledger.Load()
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "Bread", records[1].Description)
}

func TestCSVLedger_TruncatedHeaderIsRewritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Descr"), 0600))

	ledger := NewCSVLedger(path, 0, &logging.MockLogger{})
	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-03", "Bread", "2.40", "Food")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Description,Amount,Category\n2024-01-03,Bread,-2.40,Food\n", string(data))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{amount: "5.5", expected: "-5.50"},
		{amount: "-12", expected: "-12.00"},
		{amount: "3.500", expected: "-3.50"},
		{amount: "45.678", expected: "-45.678"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatAmount(tx("2024-01-01", "x", tt.amount, "Food")))
		})
	}
}

func TestCSVLedger_AppendFailureIsSinkError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transactions.csv")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0750))

	err := NewCSVLedger(path, 0, &logging.MockLogger{}).Append([]models.Transaction{tx("2024-01-01", "x", "1", "Food")})
	require.Error(t, err)
	assert.True(t, budgeterror.IsSink(err))
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	store, err := New(Options{Path: filepath.Join(dir, "transactions.csv")}, &logging.MockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &CSVLedger{}, store)

	store, err = New(Options{Backend: "SQLite", Path: filepath.Join(dir, "ledger.db")}, &logging.MockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteLedger{}, store)
	require.NoError(t, store.Close())

	_, err = New(Options{Backend: "parquet", Path: dir}, &logging.MockLogger{})
	assert.Error(t, err)
}
