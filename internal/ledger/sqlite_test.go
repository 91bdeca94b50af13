package ledger

import (
	"path/filepath"
	"testing"

	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteLedger(t *testing.T) (*SQLiteLedger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "ledger.db")
	ledger, err := NewSQLiteLedger(path, &logging.MockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger, path
}

func TestSQLiteLedger_EmptyOnCreate(t *testing.T) {
	ledger, _ := newTestSQLiteLedger(t)

	records, skipped, err := ledger.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, skipped)
}

func TestSQLiteLedger_AppendThenLoad(t *testing.T) {
	ledger, path := newTestSQLiteLedger(t)

	require.NoError(t, ledger.Append([]models.Transaction{
		tx("2024-01-05", "Coffee", "5.5", "Dining"),
		tx("2024-01-06", "Refund", "-12", models.CategoryUncategorized),
	}))
	require.NoError(t, ledger.Append(nil))

	records, _, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Coffee", records[0].Description)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("5.50")))
	assert.True(t, records[1].Amount.Equal(decimal.RequireFromString("12")))
	assert.Equal(t, models.CategoryUncategorized, records[1].Category)

	// records survive reopening
	require.NoError(t, ledger.Close())
	reopened, err := NewSQLiteLedger(path, &logging.MockLogger{})
	require.NoError(t, err)
	defer reopened.Close()

	records, _, err = reopened.Load()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSQLiteLedger_SkipsUnreadableAmount(t *testing.T) {
	ledger, _ := newTestSQLiteLedger(t)

	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-01", "Rent", "900", "Housing")}))
	_, err := ledger.db.Exec(`INSERT INTO transactions (date, description, amount, category) VALUES (?, ?, ?, ?)`,
		"2024-01-02", "Tea", "abc", "Food")
	require.NoError(t, err)
	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-03", "Bread", "2.40", "Food")}))

	records, skipped, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Rent", records[0].Description)
	assert.Equal(t, "Bread", records[1].Description)

	require.Len(t, skipped, 1)
	assert.True(t, budgeterror.IsValidation(skipped[0]))
	assert.Equal(t, []models.Key{{Date: "2024-01-02", Description: "tea"}}, SkippedKeys(skipped))
}

func TestSQLiteLedger_KeepsFullPrecision(t *testing.T) {
	ledger, _ := newTestSQLiteLedger(t)

	require.NoError(t, ledger.Append([]models.Transaction{tx("2024-01-01", "Fuel", "45.678", "Transportation")}))

	records, _, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "45.678", records[0].Amount.String())
}
