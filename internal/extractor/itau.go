package extractor

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/parsererror"
)

// dailyBalanceMarker tags Itaú's end-of-day balance lines, which are not transactions.
const dailyBalanceMarker = "SALDO DO DIA"

func isDailyBalance(description string) bool {
	return strings.Contains(strings.ToUpper(description), dailyBalanceMarker)
}

// itauRow is one line of the Itaú CSV export.
type itauRow struct {
	Date        string `csv:"Data"`
	Description string `csv:"Histórico"`
	Amount      string `csv:"Valor"`
}

// ItauCSV reads the semicolon separated Itaú export with the columns
// Data, Histórico and Valor.
type ItauCSV struct {
	logger logging.Logger
}

// NewItauCSV creates the Itaú CSV extractor.
func NewItauCSV(logger logging.Logger) *ItauCSV {
	return &ItauCSV{logger: logger}
}

func (e *ItauCSV) Extract(r io.Reader) ([]models.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading Itaú statement: %w", err)
	}
	content := strings.TrimPrefix(string(data), bom)
	if strings.TrimSpace(content) == "" {
		return finish(e.logger, BankItau, nil, 0), nil
	}

	header := strings.SplitN(content, "\n", 2)[0]
	if !strings.Contains(header, "Data") || !strings.Contains(header, "Histórico") || !strings.Contains(header, "Valor") {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       "Data;Histórico;Valor",
			ActualContentSnippet: parsererror.Snippet(strings.TrimSpace(header), 80),
			Msg:                  "missing Itaú CSV header",
		}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []itauRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing Itaú statement: %w", err)
	}

	var txs []models.Transaction
	dropped := 0
	for i, row := range rows {
		desc := strings.TrimSpace(row.Description)
		if strings.TrimSpace(row.Date) == "" || desc == "" || isDailyBalance(desc) {
			dropped++
			continue
		}
		date, err := dateutils.ParseDateString(row.Date)
		if err != nil {
			dropped++
			skip(e.logger, BankItau, i+2, err)
			continue
		}
		amount, err := models.ParseBrazilianAmount(row.Amount)
		if err != nil {
			dropped++
			skip(e.logger, BankItau, i+2, err)
			continue
		}
		txs = append(txs, models.NewTransaction(date, desc, amount))
	}
	return finish(e.logger, BankItau, txs, dropped), nil
}

// ItauPDF reads the text layer of an Itaú PDF statement. Transaction lines
// look like "DD/MM/YYYY description amount".
type ItauPDF struct {
	logger logging.Logger
	text   TextExtractor
}

// NewItauPDF creates the Itaú PDF extractor. A nil text extractor falls back
// to pdftotext.
func NewItauPDF(logger logging.Logger, text TextExtractor) *ItauPDF {
	if text == nil {
		text = NewPdftotextExtractor()
	}
	return &ItauPDF{logger: logger, text: text}
}

func (e *ItauPDF) Extract(r io.Reader) ([]models.Transaction, error) {
	tmp, err := os.CreateTemp("", "fillcash-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			e.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.F(logging.FieldFile, tmp.Name()))
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	text, err := e.text.ExtractText(tmp.Name())
	if err != nil {
		return nil, &parsererror.DataExtractionError{
			FilePath:  tmp.Name(),
			FieldName: "text",
			Reason:    "could not extract PDF text",
			Err:       err,
		}
	}

	txs, dropped := e.parseText(text)
	return finish(e.logger, BankItau, txs, dropped), nil
}

// parseText returns the transactions found in the statement text and the
// number of date-led lines that could not be read.
func (e *ItauPDF) parseText(text string) ([]models.Transaction, int) {
	var txs []models.Transaction
	dropped := 0
	for i, line := range strings.Split(text, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		date, err := time.Parse(dateutils.DateLayoutBrazilian, parts[0])
		if err != nil {
			continue
		}
		desc := strings.Join(parts[1:len(parts)-1], " ")
		if isDailyBalance(desc) {
			dropped++
			continue
		}
		amount, err := models.ParseBrazilianAmount(parts[len(parts)-1])
		if err != nil {
			dropped++
			skip(e.logger, BankItau, i+1, err)
			continue
		}
		txs = append(txs, models.NewTransaction(date, desc, amount))
	}
	return txs, dropped
}
