// Package extractor turns bank statements into canonical transactions.
//
// Each supported bank and statement format pair has one Extractor. The
// Registry resolves the pair named in the configuration and reads the
// statement from its conventional location, statements/<bank>/file.<format>.
package extractor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/parsererror"
)

// Supported banks and formats
const (
	BankItau     = "itau"
	BankBradesco = "bradesco"
	BankC6       = "c6"
	BankCamt     = "camt"

	FormatCSV = "csv"
	FormatPDF = "pdf"
	FormatXML = "xml"
)

// Extractor reads one statement layout.
type Extractor interface {
	// Extract returns the transactions of the statement. Rows that do not
	// describe a transaction are skipped; an error means the input as a
	// whole is not in the expected layout.
	Extract(r io.Reader) ([]models.Transaction, error)
}

// Source identifies a bank and statement format pair.
type Source struct {
	Bank   string
	Format string
}

// NewSource lowercases and trims bank and format.
func NewSource(bank, format string) Source {
	return Source{
		Bank:   strings.ToLower(strings.TrimSpace(bank)),
		Format: strings.ToLower(strings.TrimSpace(format)),
	}
}

func (s Source) String() string {
	return s.Bank + "/" + s.Format
}

// InputPath is the conventional statement location under statementsDir.
func (s Source) InputPath(statementsDir string) string {
	return filepath.Join(statementsDir, s.Bank, "file."+s.Format)
}

// Registry maps sources to extractors.
type Registry struct {
	extractors map[Source]Extractor
	logger     logging.Logger
}

// NewRegistry returns a registry with every built-in extractor. text is
// used by the PDF extractors.
func NewRegistry(logger logging.Logger, text TextExtractor) *Registry {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	r := &Registry{extractors: make(map[Source]Extractor), logger: logger}
	r.Register(BankItau, FormatCSV, NewItauCSV(logger))
	r.Register(BankItau, FormatPDF, NewItauPDF(logger, text))
	r.Register(BankBradesco, FormatCSV, NewBradesco(logger))
	r.Register(BankC6, FormatCSV, NewC6(logger))
	r.Register(BankCamt, FormatXML, NewCamt(logger))
	return r
}

// Register adds or replaces the extractor for bank and format.
func (r *Registry) Register(bank, format string, e Extractor) {
	r.extractors[NewSource(bank, format)] = e
}

// Get returns the extractor for bank and format.
func (r *Registry) Get(bank, format string) (Extractor, error) {
	src := NewSource(bank, format)
	e, ok := r.extractors[src]
	if !ok {
		return nil, &parsererror.UnsupportedSourceError{Bank: src.Bank, Format: src.Format}
	}
	return e, nil
}

// Supports reports whether an extractor is registered for bank and format.
func (r *Registry) Supports(bank, format string) bool {
	_, err := r.Get(bank, format)
	return err == nil
}

// Sources lists the registered pairs in a stable order.
func (r *Registry) Sources() []Source {
	sources := make([]Source, 0, len(r.extractors))
	for s := range r.extractors {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].String() < sources[j].String()
	})
	return sources
}

// ExtractFile reads the statement at path with the extractor for bank and format.
func (r *Registry) ExtractFile(bank, format, path string) ([]models.Transaction, error) {
	e, err := r.Get(bank, format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening statement: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	r.logger.Info("Extracting statement",
		logging.F(logging.FieldInputFile, path),
		logging.F(logging.FieldBank, bank),
		logging.F(logging.FieldFormat, format))

	txs, err := e.Extract(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// skip logs a dropped statement row.
func skip(logger logging.Logger, bank string, line int, err error) {
	logger.WithError(err).Debug("Skipping statement row",
		logging.F(logging.FieldBank, bank),
		logging.F("line", line))
}

func finish(logger logging.Logger, bank string, txs []models.Transaction, dropped int) []models.Transaction {
	logger.Info("Extracted transactions",
		logging.F(logging.FieldBank, bank),
		logging.F(logging.FieldCount, len(txs)),
		logging.F(logging.FieldDropped, dropped))
	if txs == nil {
		return []models.Transaction{}
	}
	return txs
}
