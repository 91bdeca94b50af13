// Package source reads raw transaction exports from CSV files. Column names
// vary between banks, so headers are matched against a set of known aliases.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/dateutils"
	"fjacquet/budget-buddy/internal/fileutils"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"
)

// Column roles recognized in input headers.
const (
	ColumnDate        = "date"
	ColumnDescription = "description"
	ColumnAmount      = "amount"
)

// headerAliases maps a lower-cased header to the column role it denotes.
var headerAliases = map[string]string{
	"date":               ColumnDate,
	"transaction date":   ColumnDate,
	"posted date":        ColumnDate,
	"posting date":       ColumnDate,
	"booking date":       ColumnDate,
	"description":        ColumnDescription,
	"name":               ColumnDescription,
	"payee":              ColumnDescription,
	"merchant":           ColumnDescription,
	"details":            ColumnDescription,
	"memo":               ColumnDescription,
	"amount":             ColumnAmount,
	"value":              ColumnAmount,
	"debit":              ColumnAmount,
	"transaction amount": ColumnAmount,
}

// Batch is the outcome of reading an input directory.
type Batch struct {
	Transactions []models.Transaction
	// Errors lists skipped files and rows. They never abort the batch.
	Errors []error
	Files  []string
}

// CSVSource reads every *.csv file of a directory.
type CSVSource struct {
	dir       string
	delimiter rune
	logger    logging.Logger
}

// NewCSVSource creates a source over dir. A zero delimiter means a comma.
func NewCSVSource(dir string, delimiter rune, logger logging.Logger) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVSource{
		dir:       dir,
		delimiter: delimiter,
		logger:    logger,
	}
}

// Dir returns the input directory.
func (s *CSVSource) Dir() string {
	return s.dir
}

// Read reads the files of the input directory in name order. A missing
// directory yields an empty batch carrying a NotFoundError.
func (s *CSVSource) Read() (Batch, error) {
	var batch Batch
	log := s.logger.WithField(logging.FieldInputDir, s.dir)

	if !fileutils.DirectoryExists(s.dir) {
		err := &budgeterror.NotFoundError{Path: s.dir, Err: os.ErrNotExist}
		log.Warn("Input directory not found, nothing to read")
		batch.Errors = append(batch.Errors, err)
		return batch, nil
	}

	files, err := fileutils.ListFilesWithExtension(s.dir, ".csv")
	if err != nil {
		return batch, fmt.Errorf("error listing input files: %w", err)
	}

	for _, file := range files {
		transactions, rowErrors, err := s.ReadFile(file)
		if err != nil {
			log.WithError(err).WithField(logging.FieldFile, file).Warn("Skipping input file")
			batch.Errors = append(batch.Errors, err)
			continue
		}
		batch.Files = append(batch.Files, file)
		batch.Transactions = append(batch.Transactions, transactions...)
		batch.Errors = append(batch.Errors, rowErrors...)
	}

	log.Info("Read input files",
		logging.Field{Key: "files", Value: len(batch.Files)},
		logging.Field{Key: logging.FieldCount, Value: len(batch.Transactions)},
		logging.Field{Key: "errors", Value: len(batch.Errors)},
	)
	return batch, nil
}

// ReadFile parses one CSV file. The returned error is non-nil when the whole
// file is unusable; row-level problems are returned as the second value and
// the offending rows are skipped.
func (s *CSVSource) ReadFile(path string) ([]models.Transaction, []error, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, &budgeterror.NotFoundError{Path: path, Err: err}
		}
		return nil, nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return s.parse(path, file)
}

func (s *CSVSource) parse(path string, r io.Reader) ([]models.Transaction, []error, error) {
	reader := csv.NewReader(r)
	reader.Comma = s.delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &budgeterror.FormatError{FilePath: path, Msg: "file is empty"}
	}
	if err != nil {
		return nil, nil, &budgeterror.FormatError{FilePath: path, Msg: err.Error()}
	}

	columns, err := mapColumns(path, header)
	if err != nil {
		return nil, nil, err
	}

	var (
		transactions []models.Transaction
		rowErrors    []error
	)
	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrors = append(rowErrors, &budgeterror.ValidationError{
					Source: path, Row: row, Field: "record", Reason: parseErr.Err.Error(),
				})
				continue
			}
			return transactions, rowErrors, &budgeterror.FormatError{FilePath: path, Msg: err.Error()}
		}
		if isBlank(record) {
			continue
		}

		tx, verr := buildTransaction(path, row, record, columns)
		if verr != nil {
			s.logger.WithError(verr).Warn("Skipping invalid row",
				logging.Field{Key: logging.FieldFile, Value: path},
				logging.Field{Key: logging.FieldRow, Value: row},
			)
			rowErrors = append(rowErrors, verr)
			continue
		}
		transactions = append(transactions, tx)
	}

	s.logger.WithField(logging.FieldFile, path).Debug("Parsed CSV file",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return transactions, rowErrors, nil
}

// mapColumns finds the index of each column role. The first header matching
// a role wins.
func mapColumns(path string, header []string) (map[string]int, error) {
	columns := make(map[string]int, 3)
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		role, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, seen := columns[role]; !seen {
			columns[role] = i
		}
	}

	var missing []string
	for _, role := range []string{ColumnDate, ColumnDescription, ColumnAmount} {
		if _, ok := columns[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return nil, &budgeterror.FormatError{
			FilePath: path,
			Headers:  header,
			Msg:      "no column for " + strings.Join(missing, ", "),
		}
	}
	return columns, nil
}

// buildTransaction keeps the date and description exactly as read; only
// validation and matching look at their trimmed form.
func buildTransaction(path string, row int, record []string, columns map[string]int) (models.Transaction, error) {
	field := func(role string) (string, bool) {
		idx := columns[role]
		if idx >= len(record) {
			return "", false
		}
		return record[idx], true
	}

	date, ok := field(ColumnDate)
	if !ok || strings.TrimSpace(date) == "" {
		return models.Transaction{}, &budgeterror.ValidationError{
			Source: path, Row: row, Field: ColumnDate, Value: date, Reason: "date is empty",
		}
	}
	if _, _, err := dateutils.ParseDate(strings.TrimSpace(date)); err != nil {
		return models.Transaction{}, &budgeterror.ValidationError{
			Source: path, Row: row, Field: ColumnDate, Value: date, Reason: "unrecognized date format",
		}
	}

	rawAmount, ok := field(ColumnAmount)
	if !ok {
		return models.Transaction{}, &budgeterror.ValidationError{
			Source: path, Row: row, Field: ColumnAmount, Reason: "missing column",
		}
	}
	amount, err := models.ParseAmount(rawAmount)
	if err != nil {
		return models.Transaction{}, &budgeterror.ValidationError{
			Source: path, Row: row, Field: ColumnAmount, Value: rawAmount, Reason: err.Error(),
		}
	}

	description, _ := field(ColumnDescription)
	return models.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount.Abs(),
	}, nil
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
