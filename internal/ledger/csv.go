package ledger

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/fileutils"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/gocarina/gocsv"
)

// Row is one line of the CSV ledger.
type Row struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// columnCount is the number of fields of a complete ledger row.
const columnCount = 4

// CSVLedger stores transactions in a CSV file with the header
// Date,Description,Amount,Category.
type CSVLedger struct {
	path      string
	delimiter rune
	logger    logging.Logger
}

// NewCSVLedger creates a CSV ledger. A zero delimiter means a comma.
func NewCSVLedger(path string, delimiter rune, logger logging.Logger) *CSVLedger {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVLedger{
		path:      path,
		delimiter: delimiter,
		logger:    logger,
	}
}

// Path returns the ledger file path.
func (l *CSVLedger) Path() string {
	return l.path
}

// Load reads every record. A missing or empty file is an empty ledger. Rows
// that cannot be parsed, such as a line cut short by an interrupted write,
// are skipped and returned as *SkippedRowError values.
func (l *CSVLedger) Load() ([]models.Transaction, []error, error) {
	log := l.logger.WithField(logging.FieldFile, l.path)

	file, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("Ledger not found, starting empty")
		return []models.Transaction{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error opening ledger: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := newRowReader(l.path, l.delimiter, file)

	var rows []Row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []models.Transaction{}, reader.skipped, nil
		}
		return nil, nil, &budgeterror.FormatError{FilePath: l.path, Msg: err.Error()}
	}

	skipped := reader.skipped
	for _, err := range skipped {
		log.WithError(err).Warn("Skipping unreadable ledger row")
	}
	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		amount, err := models.ParseAmount(row.Amount)
		if err != nil {
			verr := &budgeterror.ValidationError{
				Source: l.path,
				Row:    reader.line(i + 1),
				Field:  "Amount",
				Value:  row.Amount,
				Reason: err.Error(),
			}
			log.WithError(verr).Warn("Skipping unreadable ledger row")
			skipped = append(skipped, skippedRow(row.Date, row.Description, verr))
			continue
		}
		transactions = append(transactions, models.Transaction{
			Date:        row.Date,
			Description: row.Description,
			Amount:      amount.Abs(),
			Category:    row.Category,
		})
	}

	log.Debug("Loaded ledger",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "skipped", Value: len(skipped)},
	)
	return transactions, skipped, nil
}

// Append adds the transactions to the end of the ledger. A ledger that does
// not exist yet is created atomically together with its header.
func (l *CSVLedger) Append(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	rows := make([]Row, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, Row{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      formatAmount(tx),
			Category:    tx.Category,
		})
	}

	if err := l.dropPartialRecord(); err != nil {
		return &budgeterror.SinkError{Sink: "ledger", Path: l.path, Err: err}
	}

	info, err := os.Stat(l.path)
	switch {
	case errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0):
		err = l.create(rows)
	case err != nil:
		err = fmt.Errorf("error checking ledger: %w", err)
	default:
		err = l.appendRows(rows)
	}
	if err != nil {
		return &budgeterror.SinkError{Sink: "ledger", Path: l.path, Err: err}
	}

	l.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: l.path},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
	).Info("Appended transactions to ledger")
	return nil
}

// Close is a no-op: the CSV ledger holds no open handles between calls.
func (l *CSVLedger) Close() error {
	return nil
}

func (l *CSVLedger) create(rows []Row) error {
	var buf bytes.Buffer
	if err := gocsv.MarshalCSV(rows, l.writer(&buf)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return fileutils.AtomicWriteFile(l.path, buf.Bytes(), models.PermissionReportFile)
}

func (l *CSVLedger) appendRows(rows []Row) (err error) {
	needsNewline, err := missingTrailingNewline(l.path)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, models.PermissionReportFile)
	if err != nil {
		return fmt.Errorf("error opening ledger for append: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing ledger: %w", cerr)
		}
	}()

	buffered := bufio.NewWriter(file)
	if needsNewline {
		if _, err := buffered.WriteString("\n"); err != nil {
			return err
		}
	}
	if err := gocsv.MarshalCSVWithoutHeaders(rows, l.writer(buffered)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("error flushing ledger: %w", err)
	}
	return file.Sync()
}

func (l *CSVLedger) writer(w io.Writer) *gocsv.SafeCSVWriter {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = l.delimiter
	return gocsv.NewSafeCSVWriter(csvWriter)
}

// dropPartialRecord truncates a last line that is not a complete record, as
// left by an interrupted append. That record was never fully written, so the
// run appending now still holds it as new.
func (l *CSVLedger) dropPartialRecord() error {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading ledger: %w", err)
	}
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return nil
	}

	start := bytes.LastIndexByte(data, '\n') + 1
	reader := csv.NewReader(bytes.NewReader(data[start:]))
	reader.Comma = l.delimiter
	if record, err := reader.Read(); err == nil && len(record) == columnCount {
		return nil
	}

	l.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: l.path},
		logging.Field{Key: "partial", Value: string(data[start:])},
	).Warn("Dropping partial ledger record")
	return os.Truncate(l.path, int64(start))
}

func missingTrailingNewline(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.Size() == 0 {
		return false, err
	}
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// rowReader feeds gocsv the records that parse and collects the others as
// skipped rows. It remembers the line of every returned record.
type rowReader struct {
	reader  *csv.Reader
	path    string
	lines   []int
	skipped []error
}

func newRowReader(path string, delimiter rune, r io.Reader) *rowReader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	return &rowReader{reader: reader, path: path}
}

func (r *rowReader) Read() ([]string, error) {
	for {
		record, err := r.reader.Read()
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.skipped = append(r.skipped, skippedRow("", "", &budgeterror.ValidationError{
				Source: r.path,
				Row:    parseErr.StartLine,
				Field:  "record",
				Reason: parseErr.Err.Error(),
			}))
			continue
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.reader.FieldPos(0)
		r.lines = append(r.lines, line)
		return record, nil
	}
}

func (r *rowReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// line returns the file line of the i-th record read, the header being 0.
func (r *rowReader) line(i int) int {
	if i < len(r.lines) {
		return r.lines[i]
	}
	return i + 1
}
