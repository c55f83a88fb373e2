// Package store keeps the schedule of future card bills in a file the user
// edits between runs: YAML by default, or an Excel workbook when the path
// ends in .xlsx.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/fileutils"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/parsererror"
)

// DefaultMonths is how many months of bills a new schedule covers.
const DefaultMonths = 12

// BillRecord is one entry of the bills file. DueDate is optional; when blank
// the due date is derived from Month and DueDay.
type BillRecord struct {
	Bank       string `yaml:"bank"`
	Name       string `yaml:"name"`
	LastDigits string `yaml:"last_digits"`
	DueDay     int    `yaml:"due_day"`
	Month      string `yaml:"month"`
	DueDate    string `yaml:"due_date,omitempty"`
	Amount     Money  `yaml:"amount"`
}

// Money is a bill amount. It is written as a plain YAML number and read
// from the literal text, so no digits are lost through float64.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// ParseMoney reads an amount literal. Blank means zero.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{Decimal: decimal.Zero}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{Decimal: d}, nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Money) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: m.StringFixed(2)}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a number", node.Line)
	}
	if node.Tag == "!!null" {
		*m = Money{Decimal: decimal.Zero}
		return nil
	}
	parsed, err := ParseMoney(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = parsed
	return nil
}

// ToCardBill converts the record into a bill for the ledger.
func (r BillRecord) ToCardBill() (models.CardBill, error) {
	month, err := dateutils.ParseMonth(r.Month)
	if err != nil {
		return models.CardBill{}, err
	}

	var due time.Time
	if strings.TrimSpace(r.DueDate) != "" {
		due, err = dateutils.ParseDateString(r.DueDate)
		if err != nil {
			return models.CardBill{}, &parsererror.ParseError{Parser: "bills", Field: "due_date", Value: r.DueDate, Err: err}
		}
	} else {
		if r.DueDay < 1 || r.DueDay > 31 {
			return models.CardBill{}, fmt.Errorf("bill %s %s: due_day %d out of range 1-31", r.Month, r.Name, r.DueDay)
		}
		due = models.DueDateIn(month.Year(), month.Month(), r.DueDay)
	}

	return models.CardBill{
		Bank:       r.Bank,
		Name:       r.Name,
		LastDigits: r.LastDigits,
		Month:      month.Format(dateutils.MonthLayout),
		DueDate:    due,
		Amount:     r.Amount.Decimal,
	}, nil
}

// GenerateSchedule lists a zero-amount bill per card for months consecutive
// months starting with the month of now.
func GenerateSchedule(now time.Time, cards []models.CardDefinition, months int) []BillRecord {
	starts := dateutils.MonthStarts(now, months)
	records := make([]BillRecord, 0, len(cards)*len(starts))
	for _, card := range cards {
		for _, m := range starts {
			due := models.DueDateIn(m.Year(), m.Month(), card.DueDay)
			records = append(records, BillRecord{
				Bank:       card.Bank,
				Name:       card.Name,
				LastDigits: card.LastDigits,
				DueDay:     card.DueDay,
				Month:      m.Format(dateutils.MonthLayout),
				DueDate:    dateutils.ToISODate(due),
				Amount:     NewMoney(decimal.Zero),
			})
		}
	}
	return records
}

// BillStore reads and writes the bills file.
type BillStore struct {
	path   string
	logger logging.Logger
}

// NewBillStore creates a store for the file at path.
func NewBillStore(path string, logger logging.Logger) *BillStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &BillStore{path: path, logger: logger}
}

// Path returns the bills file location.
func (s *BillStore) Path() string {
	return s.path
}

// Exists reports whether the bills file is present.
func (s *BillStore) Exists() bool {
	return fileutils.FileExists(s.path)
}

// IsWorkbook reports whether the bills file is an Excel workbook.
func (s *BillStore) IsWorkbook() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".xlsx")
}

// Save writes records to the bills file, replacing it.
func (s *BillStore) Save(records []BillRecord) error {
	encode := encodeYAML
	if s.IsWorkbook() {
		encode = encodeWorkbook
	}
	err := fileutils.AtomicWrite(s.path, func(w io.Writer) error {
		return encode(w, records)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Saved card bill schedule",
		logging.F(logging.FieldOutputFile, s.path),
		logging.F(logging.FieldCount, len(records)))
	return nil
}

// LoadRecords reads the raw records. A missing file yields none.
func (s *BillStore) LoadRecords() ([]BillRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Warn("Card bills file not found, no bills will be allocated",
			logging.F(logging.FieldFile, s.path))
		return []BillRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading bills file: %w", err)
	}

	decode := decodeYAML
	if s.IsWorkbook() {
		decode = decodeWorkbook
	}
	records, err := decode(data)
	if err != nil {
		return nil, &parsererror.ValidationError{FilePath: s.path, Reason: err.Error()}
	}
	if records == nil {
		records = []BillRecord{}
	}
	return records, nil
}

func encodeYAML(w io.Writer, records []BillRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("error encoding bills: %w", err)
	}
	return enc.Close()
}

func decodeYAML(data []byte) ([]BillRecord, error) {
	var records []BillRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Load reads the bills file and converts every record. Records that cannot
// be converted are skipped and logged.
func (s *BillStore) Load() ([]models.CardBill, error) {
	records, err := s.LoadRecords()
	if err != nil {
		return nil, err
	}

	bills := make([]models.CardBill, 0, len(records))
	dropped := 0
	for _, r := range records {
		bill, err := r.ToCardBill()
		if err != nil {
			dropped++
			s.logger.WithError(err).Warn("Skipping card bill",
				logging.F(logging.FieldCard, models.CardKey(r.Bank, r.Name, r.LastDigits)))
			continue
		}
		bills = append(bills, bill)
	}
	s.logger.Info("Loaded card bills",
		logging.F(logging.FieldFile, s.path),
		logging.F(logging.FieldCount, len(bills)),
		logging.F(logging.FieldDropped, dropped))
	return bills, nil
}
