package extractor

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/parsererror"
)

var bradescoHeader = []string{"Data", "Histórico", "Docto.", "Crédito (R$)", "Débito (R$)", "Saldo (R$)"}

// Bradesco reads the semicolon separated Bradesco export. Lines before the
// column header are account preamble and are ignored. Amount is credit
// minus debit; the balance column is not used.
type Bradesco struct {
	logger logging.Logger
}

// NewBradesco creates the Bradesco extractor.
func NewBradesco(logger logging.Logger) *Bradesco {
	return &Bradesco{logger: logger}
}

func (e *Bradesco) Extract(r io.Reader) ([]models.Transaction, error) {
	records, err := readRecords(r, ';')
	if err != nil {
		return nil, fmt.Errorf("error reading Bradesco statement: %w", err)
	}

	var txs []models.Transaction
	dropped := 0
	headerFound := false
	for i, row := range records {
		if !headerFound {
			headerFound = hasPrefixCells(row, bradescoHeader)
			continue
		}
		if len(row) < len(bradescoHeader) || cell(row, 0) == "" {
			continue
		}

		tx, err := e.parseRow(row)
		if err != nil {
			dropped++
			skip(e.logger, BankBradesco, i+1, err)
			continue
		}
		txs = append(txs, tx)
	}

	if !headerFound {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       strings.Join(bradescoHeader, ";"),
			ActualContentSnippet: parsererror.Snippet(snippet(records), 80),
			Msg:                  "Bradesco column header not found",
		}
	}
	return finish(e.logger, BankBradesco, txs, dropped), nil
}

func (e *Bradesco) parseRow(row []string) (models.Transaction, error) {
	date, err := dateutils.ParseDateString(cell(row, 0))
	if err != nil {
		return models.Transaction{}, err
	}
	inflow, err := models.ParseOptionalAmount(cell(row, 3), models.ParseBrazilianAmount)
	if err != nil {
		return models.Transaction{}, err
	}
	outflow, err := models.ParseOptionalAmount(cell(row, 4), models.ParseBrazilianAmount)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.NewTransactionFromFlows(date, cell(row, 1), inflow.Abs(), outflow.Abs()), nil
}
