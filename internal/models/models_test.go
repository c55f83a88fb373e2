package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTransaction_DerivesFlows(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		inflow  string
		outflow string
	}{
		{"credit", "250.10", "250.10", "0"},
		{"debit", "-120", "0", "120"},
		{"zero", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := NewTransaction(date(2024, 3, 1), "x", decimal.RequireFromString(tt.amount))
			assert.True(t, tx.Inflow.Equal(decimal.RequireFromString(tt.inflow)), "inflow %s", tx.Inflow)
			assert.True(t, tx.Outflow.Equal(decimal.RequireFromString(tt.outflow)), "outflow %s", tx.Outflow)
			assert.NoError(t, tx.Validate())
		})
	}
}

func TestNewTransaction_TruncatesToDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	tx := NewTransaction(time.Date(2024, 5, 31, 23, 30, 0, 0, loc), "late", decimal.NewFromInt(1))
	assert.Equal(t, date(2024, 5, 31), tx.Date)
}

func TestNewTransactionFromFlows(t *testing.T) {
	tx := NewTransactionFromFlows(date(2024, 1, 2), "pix", decimal.NewFromInt(10), decimal.NewFromInt(35))
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-25)))
}

func TestTransactionValidate(t *testing.T) {
	assert.Error(t, Transaction{Description: "no date"}.Validate())
	assert.Error(t, Transaction{Date: date(2024, 1, 1), Inflow: decimal.NewFromInt(-1)}.Validate())
}

func TestLastDate(t *testing.T) {
	_, ok := LastDate(nil)
	assert.False(t, ok)

	last, ok := LastDate([]Transaction{
		{Date: date(2024, 3, 10)},
		{Date: date(2024, 1, 5)},
		{Date: date(2024, 3, 2)},
	})
	require.True(t, ok)
	assert.Equal(t, date(2024, 3, 10), last)
}

func TestParseBrazilianAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.234,56", "1234.56", false},
		{"-45,90", "-45.9", false},
		{"R$ 10,00", "10", false},
		{"", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBrazilianAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseCommaDecimal(t *testing.T) {
	got, err := ParseCommaDecimal("-45,90")
	require.NoError(t, err)
	assert.Equal(t, "-45.90", FormatAmount(got))

	got, err = ParseCommaDecimal("1200.5")
	require.NoError(t, err)
	assert.Equal(t, "1200.50", FormatAmount(got))

	got, err = ParseOptionalAmount("  ", ParseCommaDecimal)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCardKey(t *testing.T) {
	card := CardDefinition{Bank: "NUBANK", Name: "ultravioleta", LastDigits: "1234", DueDay: 10}
	assert.Equal(t, "Nubank - Ultravioleta (1234)", card.Key())
	assert.NoError(t, card.Validate())

	bill := CardBill{Bank: "nubank", Name: "Ultravioleta", LastDigits: " 1234"}
	assert.Equal(t, card.Key(), bill.Key())
}

func TestCardDefinitionValidate(t *testing.T) {
	assert.Error(t, CardDefinition{Bank: "itau", Name: "black", LastDigits: "1", DueDay: 0}.Validate())
	assert.Error(t, CardDefinition{Bank: "itau", Name: "black", DueDay: 5}.Validate())
	assert.Error(t, CardDefinition{Name: "black", LastDigits: "1", DueDay: 5}.Validate())
}

func TestDueDateIn(t *testing.T) {
	assert.Equal(t, date(2025, 2, 28), DueDateIn(2025, time.February, 31))
	assert.Equal(t, date(2024, 2, 29), DueDateIn(2024, time.February, 30))
	assert.Equal(t, date(2025, 12, 10), DueDateIn(2025, time.December, 10))
}

func TestRecurringItemValidate(t *testing.T) {
	ok := RecurringItem{Day: 5, Amount: decimal.NewFromInt(500), Kind: KindExpense}
	assert.NoError(t, ok.Validate())

	bad := []RecurringItem{
		{Day: 0, Amount: decimal.NewFromInt(1), Kind: KindIncome},
		{Day: 32, Amount: decimal.NewFromInt(1), Kind: KindIncome},
		{Day: 5, Amount: decimal.Zero, Kind: KindIncome},
		{Day: 5, Amount: decimal.NewFromInt(1), Kind: "bonus"},
	}
	for _, item := range bad {
		assert.Error(t, item.Validate())
	}
}
