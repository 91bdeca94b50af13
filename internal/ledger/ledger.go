// Package ledger persists categorized transactions. The ledger is append-only
// and is the sole record of which transactions were already processed.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"
)

// Supported ledger backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Store is a persisted transaction ledger. Load returns every readable record
// with its amount as a non-negative magnitude, plus one *SkippedRowError per
// unreadable row; only a ledger that cannot be read at all is an error.
// Append stores records as outflows.
type Store interface {
	Load() ([]models.Transaction, []error, error)
	Append(transactions []models.Transaction) error
	Close() error
}

// Options configures a ledger created by New.
type Options struct {
	Backend   string
	Path      string
	Delimiter rune
}

// New creates the ledger for the configured backend.
func New(opts Options, logger logging.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendCSV:
		return NewCSVLedger(opts.Path, opts.Delimiter, logger), nil
	case BackendSQLite:
		return NewSQLiteLedger(opts.Path, logger)
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", opts.Backend)
	}
}

// SkippedRowError is a ledger row that could not be loaded. When the row's
// date and description were readable, HasKey is set and Key still counts as
// already processed.
type SkippedRowError struct {
	Key    models.Key
	HasKey bool
	Err    *budgeterror.ValidationError
}

func (e *SkippedRowError) Error() string {
	return e.Err.Error()
}

func (e *SkippedRowError) Unwrap() error {
	return e.Err
}

func skippedRow(date, description string, verr *budgeterror.ValidationError) *SkippedRowError {
	key := models.Transaction{Date: date, Description: description}.Key()
	return &SkippedRowError{
		Key:    key,
		HasKey: key.Date != "" && key.Description != "",
		Err:    verr,
	}
}

// SkippedKeys returns the keys of the skipped rows that carry one.
func SkippedKeys(skipped []error) []models.Key {
	var keys []models.Key
	for _, err := range skipped {
		var row *SkippedRowError
		if errors.As(err, &row) && row.HasKey {
			keys = append(keys, row.Key)
		}
	}
	return keys
}

// formatAmount renders an amount the way the ledger stores it: negative, with
// at least two decimals and never rounded.
func formatAmount(tx models.Transaction) string {
	amount := tx.SignedAmount()
	if amount.Equal(amount.Round(2)) {
		return amount.StringFixed(2)
	}
	return amount.String()
}
