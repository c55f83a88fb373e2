package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/parsererror"
	"fjacquet/fillcash/internal/xmlutils"
)

// Camt reads ISO 20022 CAMT.053 bank-to-customer statements.
type Camt struct {
	logger logging.Logger
}

// NewCamt creates the CAMT.053 extractor.
func NewCamt(logger logging.Logger) *Camt {
	return &Camt{logger: logger}
}

func (e *Camt) Extract(r io.Reader) ([]models.Transaction, error) {
	root, err := xmlutils.ParseXML(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "CAMT.053 XML", Msg: err.Error()}
	}
	ok, err := xmlutils.Has(root, xmlutils.XPathStatement)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "CAMT.053 XML", Msg: "no statement element"}
	}

	entries, err := xmlutils.Nodes(root, xmlutils.XPathEntries)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	dropped := 0
	for i, entry := range entries {
		tx, err := e.parseEntry(entry)
		if err != nil {
			dropped++
			skip(e.logger, BankCamt, i+1, err)
			continue
		}
		txs = append(txs, tx)
	}
	return finish(e.logger, BankCamt, txs, dropped), nil
}

func (e *Camt) parseEntry(entry *xmlpath.Node) (models.Transaction, error) {
	rawAmount := xmlutils.FirstOf(entry, xmlutils.XPathAmount)
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: "camt", Field: "amount", Value: rawAmount, Err: err}
	}
	switch ind := xmlutils.FirstOf(entry, xmlutils.XPathCreditDebitInd); ind {
	case xmlutils.IndicatorDebit:
		amount = amount.Abs().Neg()
	case xmlutils.IndicatorCredit:
		amount = amount.Abs()
	default:
		return models.Transaction{}, fmt.Errorf("unknown credit/debit indicator %q", ind)
	}

	rawDate := xmlutils.FirstOf(entry, xmlutils.XPathBookingDate, xmlutils.XPathBookingDateTm, xmlutils.XPathValueDate)
	date, err := dateutils.ParseDateString(rawDate)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: "camt", Field: "date", Value: rawDate, Err: err}
	}

	party := xmlutils.XPathDebtorName
	if amount.IsNegative() {
		party = xmlutils.XPathCreditorName
	}
	desc := xmlutils.FirstOf(entry,
		xmlutils.XPathRemittanceInfo,
		xmlutils.XPathAddTxInfo,
		xmlutils.XPathAddEntryInfo,
		party)
	return models.NewTransaction(date, strings.TrimSpace(desc), amount), nil
}
