package extractor

import (
	"fmt"
	"io"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/parsererror"
)

const c6HeaderMarker = "Data Lançamento"

// C6 reads the comma separated C6 Bank export. Data rows follow the line
// whose first cell is "Data Lançamento" and carry the description in the
// fourth column, then inflow, outflow and amount.
type C6 struct {
	logger logging.Logger
}

// NewC6 creates the C6 extractor.
func NewC6(logger logging.Logger) *C6 {
	return &C6{logger: logger}
}

func (e *C6) Extract(r io.Reader) ([]models.Transaction, error) {
	records, err := readRecords(r, ',')
	if err != nil {
		return nil, fmt.Errorf("error reading C6 statement: %w", err)
	}

	var txs []models.Transaction
	dropped := 0
	headerFound := false
	for i, row := range records {
		if cell(row, 0) == c6HeaderMarker {
			headerFound = true
			continue
		}
		if !headerFound || len(row) < 7 {
			continue
		}

		tx, err := e.parseRow(row)
		if err != nil {
			dropped++
			skip(e.logger, BankC6, i+1, err)
			continue
		}
		txs = append(txs, tx)
	}

	if !headerFound {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       c6HeaderMarker + ",...",
			ActualContentSnippet: parsererror.Snippet(snippet(records), 80),
			Msg:                  "C6 column header not found",
		}
	}
	return finish(e.logger, BankC6, txs, dropped), nil
}

func (e *C6) parseRow(row []string) (models.Transaction, error) {
	date, err := dateutils.ParseDateString(cell(row, 0))
	if err != nil {
		return models.Transaction{}, err
	}
	inflow, err := models.ParseOptionalAmount(cell(row, 4), models.ParseCommaDecimal)
	if err != nil {
		return models.Transaction{}, err
	}
	outflow, err := models.ParseOptionalAmount(cell(row, 5), models.ParseCommaDecimal)
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := models.ParseOptionalAmount(cell(row, 6), models.ParseCommaDecimal)
	if err != nil {
		return models.Transaction{}, err
	}
	tx := models.Transaction{
		Date:        models.Day(date),
		Description: cell(row, 3),
		Amount:      amount,
		Inflow:      inflow,
		Outflow:     outflow,
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}
