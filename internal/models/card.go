package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// CardDefinition registers a credit card and its monthly due day.
type CardDefinition struct {
	Bank       string
	Name       string
	LastDigits string
	DueDay     int
}

// Key is the ledger column name of the card.
func (c CardDefinition) Key() string {
	return CardKey(c.Bank, c.Name, c.LastDigits)
}

// Validate checks the card identity fields and due day.
func (c CardDefinition) Validate() error {
	if strings.TrimSpace(c.Bank) == "" || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("card %q: bank and name are required", c.Key())
	}
	if strings.TrimSpace(c.LastDigits) == "" {
		return fmt.Errorf("card %q: last_digits is required", c.Key())
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return fmt.Errorf("card %q: due_day %d out of range 1-31", c.Key(), c.DueDay)
	}
	return nil
}

// CardBill is one scheduled charge of a card, due on DueDate.
type CardBill struct {
	Bank       string
	Name       string
	LastDigits string
	Month      string // YYYY-MM
	DueDate    time.Time
	Amount     decimal.Decimal
}

// Key is the ledger column the bill is charged to.
func (b CardBill) Key() string {
	return CardKey(b.Bank, b.Name, b.LastDigits)
}

// CardKey builds the display key "Bank - Name (digits)". Bank and name are
// capitalized: first letter upper case, the rest lower case.
func CardKey(bank, name, lastDigits string) string {
	return fmt.Sprintf("%s - %s (%s)", capitalize(bank), capitalize(name), strings.TrimSpace(lastDigits))
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// DueDateIn resolves the due date of a card in the given month. Due days past
// the end of the month fall on the month's last day.
func DueDateIn(year int, month time.Month, dueDay int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if dueDay > last {
		dueDay = last
	}
	return time.Date(year, month, dueDay, 0, 0, 0, 0, time.UTC)
}
