package ledger

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/fileutils"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	description TEXT NOT NULL,
	amount      TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT ''
)`

// SQLiteLedger stores transactions in an embedded SQLite database, one row
// per record in insertion order.
type SQLiteLedger struct {
	path   string
	db     *sql.DB
	logger logging.Logger
}

// NewSQLiteLedger opens (creating when needed) the database at path and
// ensures the transactions table exists.
func NewSQLiteLedger(path string, logger logging.Logger) (*SQLiteLedger, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteLedger{
		path:   path,
		db:     db,
		logger: logger,
	}, nil
}

// Load reads every stored transaction in insertion order. Rows whose amount
// does not parse are skipped and returned as *SkippedRowError values.
func (l *SQLiteLedger) Load() ([]models.Transaction, []error, error) {
	log := l.logger.WithField(logging.FieldFile, l.path)

	rows, err := l.db.Query(`SELECT id, date, description, amount, category FROM transactions ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var (
		transactions = []models.Transaction{}
		skipped      []error
	)
	for rows.Next() {
		var (
			id     int
			tx     models.Transaction
			amount string
		)
		if err := rows.Scan(&id, &tx.Date, &tx.Description, &amount, &tx.Category); err != nil {
			return nil, nil, fmt.Errorf("scan transaction: %w", err)
		}
		parsed, err := models.ParseAmount(amount)
		if err != nil {
			verr := &budgeterror.ValidationError{
				Source: l.path,
				Row:    id,
				Field:  "amount",
				Value:  amount,
				Reason: err.Error(),
			}
			log.WithError(verr).Warn("Skipping unreadable ledger row")
			skipped = append(skipped, skippedRow(tx.Date, tx.Description, verr))
			continue
		}
		tx.Amount = parsed.Abs()
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate transactions: %w", err)
	}

	log.Debug("Loaded ledger",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "skipped", Value: len(skipped)},
	)
	return transactions, skipped, nil
}

// Append inserts the transactions in a single database transaction.
func (l *SQLiteLedger) Append(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	if err := l.insert(transactions); err != nil {
		return &budgeterror.SinkError{Sink: "ledger", Path: l.path, Err: err}
	}

	l.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: l.path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Info("Appended transactions to ledger")
	return nil
}

func (l *SQLiteLedger) insert(transactions []models.Transaction) (err error) {
	dbtx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = dbtx.Rollback()
		}
	}()

	stmt, err := dbtx.Prepare(`INSERT INTO transactions (date, description, amount, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range transactions {
		if _, err = stmt.Exec(tx.Date, tx.Description, formatAmount(tx), tx.Category); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}
	if err = dbtx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (l *SQLiteLedger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}
