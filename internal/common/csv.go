// Package common provides the canonical transaction file shared by the
// extraction commands and the projection pipeline.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/fileutils"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/parsererror"
)

// StatementDelimiter separates the columns of the canonical statement file.
const StatementDelimiter = '|'

// TransactionRecord is one row of the canonical statement file.
type TransactionRecord struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Inflow      string `csv:"inflow"`
	Outflow     string `csv:"outflow"`
}

// ToRecord converts a transaction into its file row.
func ToRecord(tx models.Transaction) TransactionRecord {
	return TransactionRecord{
		Date:        dateutils.ToISODate(tx.Date),
		Description: tx.Description,
		Amount:      models.FormatAmount(tx.Amount),
		Inflow:      models.FormatAmount(tx.Inflow),
		Outflow:     models.FormatAmount(tx.Outflow),
	}
}

// ToTransaction converts a file row. Inflow and outflow are taken as written
// when present and derived from the amount's sign when both are blank.
func (r TransactionRecord) ToTransaction() (models.Transaction, error) {
	date, err := dateutils.ParseDateString(r.Date)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: "statement", Field: "date", Value: r.Date, Err: err}
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: "statement", Field: "amount", Value: r.Amount, Err: err}
	}
	if strings.TrimSpace(r.Inflow) == "" && strings.TrimSpace(r.Outflow) == "" {
		return models.NewTransaction(date, r.Description, amount), nil
	}

	inflow, err := parseFlow("inflow", r.Inflow)
	if err != nil {
		return models.Transaction{}, err
	}
	outflow, err := parseFlow("outflow", r.Outflow)
	if err != nil {
		return models.Transaction{}, err
	}
	tx := models.Transaction{
		Date:        date,
		Description: r.Description,
		Amount:      amount,
		Inflow:      inflow,
		Outflow:     outflow,
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: "statement", Field: "flows", Value: r.Inflow + "/" + r.Outflow, Err: err}
	}
	return tx, nil
}

func parseFlow(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{Parser: "statement", Field: field, Value: value, Err: err}
	}
	return d, nil
}

// ReadTransactions decodes a canonical statement. Rows that cannot be parsed
// are dropped and counted; an empty input yields no transactions.
func ReadTransactions(r io.Reader, logger logging.Logger) ([]models.Transaction, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading statement: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return []models.Transaction{}, 0, nil
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = StatementDelimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []TransactionRecord
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, 0, fmt.Errorf("error parsing statement: %w", err)
	}

	txs := make([]models.Transaction, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		tx, err := row.ToTransaction()
		if err != nil {
			dropped++
			logger.WithError(err).Debug("Dropping malformed statement row")
			continue
		}
		txs = append(txs, tx)
	}
	return txs, dropped, nil
}

// ReadTransactionsFile reads the canonical statement at path. A missing file
// means no actual data yet and is not an error.
func ReadTransactionsFile(path string, logger logging.Logger) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		logger.Warn("Statement file not found, projecting every day", logging.F(logging.FieldFile, path))
		return []models.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening statement %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	txs, dropped, err := ReadTransactions(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("Loaded statement",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(txs)),
		logging.F(logging.FieldDropped, dropped))
	return txs, nil
}

// WriteTransactions encodes transactions as a canonical statement.
func WriteTransactions(w io.Writer, txs []models.Transaction) error {
	rows := make([]TransactionRecord, len(txs))
	for i, tx := range txs {
		rows[i] = ToRecord(tx)
	}

	writer := csv.NewWriter(w)
	writer.Comma = StatementDelimiter
	safe := gocsv.NewSafeCSVWriter(writer)
	if err := gocsv.MarshalCSV(rows, safe); err != nil {
		return fmt.Errorf("error writing statement: %w", err)
	}
	safe.Flush()
	return safe.Error()
}

// WriteTransactionsFile writes the canonical statement to path atomically.
func WriteTransactionsFile(path string, txs []models.Transaction, logger logging.Logger) error {
	if txs == nil {
		return fmt.Errorf("cannot write nil transactions to %s", path)
	}
	if err := fileutils.AtomicWrite(path, func(w io.Writer) error {
		return WriteTransactions(w, txs)
	}); err != nil {
		return err
	}
	logger.Info("Saved transactions",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(txs)))
	return nil
}

// WriteRecords writes pre-rendered rows, header included, with delim.
func WriteRecords(w io.Writer, records [][]string, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	safe := gocsv.NewSafeCSVWriter(writer)
	for _, rec := range records {
		if err := safe.Write(rec); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
	}
	safe.Flush()
	return safe.Error()
}
