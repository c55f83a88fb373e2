package projection

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, context ...string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), context)
}

func tx(d time.Time, amount string) models.Transaction {
	return models.NewTransaction(d, "tx", dec(amount))
}

func rowOn(t *testing.T, l *Ledger, d time.Time) Row {
	t.Helper()
	i, ok := l.RowAt(d)
	require.True(t, ok, "no row for %s", d)
	return l.Rows[i]
}

var nubank = models.CardDefinition{Bank: "nubank", Name: "roxinho", LastDigits: "1234", DueDay: 10}
var itau = models.CardDefinition{Bank: "itau", Name: "black", LastDigits: "9876", DueDay: 5}

func TestBuildCalendar_Completeness(t *testing.T) {
	for _, year := range []int{2023, 2024, 2027, 2099, 2100} {
		cal := BuildCalendar(day(year, time.July, 4))
		require.Len(t, cal, dateutils.DaysInYear(year)+dateutils.DaysInYear(year+1), "year %d", year)
		assert.Equal(t, day(year, time.January, 1), cal.First())
		assert.Equal(t, day(year+1, time.December, 31), cal.Last())
		assert.NoError(t, cal.Validate())
		for i := 1; i < len(cal); i++ {
			require.True(t, cal[i].After(cal[i-1]))
		}
	}
}

func TestBuildCalendar_IdempotentWithinYear(t *testing.T) {
	early := BuildCalendar(day(2024, time.January, 1))
	late := BuildCalendar(time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, early, late)
}

func TestCalendarValidate(t *testing.T) {
	assert.ErrorIs(t, Calendar{}.Validate(), ErrInvariant)

	gap := Calendar{day(2024, 1, 1), day(2024, 1, 3)}
	assert.ErrorIs(t, gap.Validate(), ErrInvariant)

	dup := Calendar{day(2024, 1, 1), day(2024, 1, 1)}
	assert.ErrorIs(t, dup.Validate(), ErrInvariant)

	clock := Calendar{time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	assert.ErrorIs(t, clock.Validate(), ErrInvariant)
}

func TestClassifyDays(t *testing.T) {
	cal := BuildCalendar(day(2024, 5, 1))

	empty := ClassifyDays(cal, nil)
	assert.False(t, empty.HasActual)
	for _, k := range empty.Kinds {
		require.Equal(t, DayProjected, k)
	}
	assert.True(t, empty.Projectable(day(2024, 1, 1)))

	// a transaction from the previous year still moves the last actual date
	states := ClassifyDays(cal, []models.Transaction{
		tx(day(2024, 3, 10), "-10"),
		tx(day(2024, 2, 1), "5"),
		tx(day(2023, 12, 30), "1"),
	})
	assert.True(t, states.HasActual)
	assert.Equal(t, day(2024, 3, 10), states.LastActual)
	assert.Equal(t, DayActual, states.Kinds[31]) // 2024-02-01
	assert.Equal(t, DayProjected, states.Kinds[0])
	assert.Equal(t, "actual", DayActual.String())
	assert.Equal(t, "projected", DayProjected.String())

	assert.False(t, states.Projectable(day(2024, 3, 10)), "last actual day")
	assert.False(t, states.Projectable(day(2024, 3, 9)), "before last actual")
	assert.True(t, states.Projectable(day(2024, 3, 11)))
}

func TestProjectRecurring_NotOnOrBeforeLastActual(t *testing.T) {
	cal := BuildCalendar(day(2024, 1, 1))
	states := ClassifyDays(cal, []models.Transaction{tx(day(2024, 3, 10), "-40")})
	items := []models.RecurringItem{
		{Day: 15, Amount: dec("3000"), Kind: models.KindIncome},
		{Day: 10, Amount: dec("80"), Kind: models.KindExpense},
	}

	flows := ProjectRecurring(cal, items, states)
	at := func(d time.Time) Flow { return flows[int(d.Sub(cal.First()).Hours()/24)] }

	assertDec(t, "0", at(day(2024, 1, 15)).Inflow)
	assertDec(t, "0", at(day(2024, 2, 15)).Inflow)
	assertDec(t, "0", at(day(2024, 3, 10)).Outflow, "last actual date itself")
	assertDec(t, "3000", at(day(2024, 3, 15)).Inflow)
	assertDec(t, "80", at(day(2024, 4, 10)).Outflow)
	assertDec(t, "3000", at(day(2025, 12, 15)).Inflow)
}

func TestProjectRecurring_SkipsMissingDaysOfMonth(t *testing.T) {
	cal := BuildCalendar(day(2024, 1, 1))
	items := []models.RecurringItem{{Day: 31, Amount: dec("10"), Kind: models.KindExpense}}

	flows := ProjectRecurring(cal, items, ClassifyDays(cal, nil))

	hits := 0
	for i, f := range flows {
		if f.Outflow.IsPositive() {
			hits++
			assert.Equal(t, 31, cal[i].Day())
		}
	}
	// seven 31-day months per year, no spill-over into the next month
	assert.Equal(t, 14, hits)
	assertDec(t, "0", flows[int(day(2024, 3, 1).Sub(cal.First()).Hours()/24)].Outflow)
}

func TestProjectRecurring_SameDaySums(t *testing.T) {
	cal := BuildCalendar(day(2025, 1, 1))
	items := []models.RecurringItem{
		{Day: 5, Amount: dec("100"), Kind: models.KindExpense},
		{Day: 5, Amount: dec("25.50"), Kind: models.KindExpense},
		{Day: 5, Amount: dec("1000"), Kind: models.KindIncome},
	}
	flows := ProjectRecurring(cal, items, ClassifyDays(cal, nil))
	assertDec(t, "125.50", flows[4].Outflow)
	assertDec(t, "1000", flows[4].Inflow)
}

func TestOverlayActuals_ActualReplacesBothSides(t *testing.T) {
	cal := Calendar{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}
	projected := []Flow{
		{Inflow: dec("900"), Outflow: dec("0")},
		{Inflow: dec("900"), Outflow: dec("10")},
		{Inflow: dec("1"), Outflow: dec("2")},
	}
	totals := AggregateByDate([]models.Transaction{
		tx(day(2024, 1, 1), "-100"),
		tx(day(2024, 1, 1), "-50"),
		tx(day(2024, 1, 2), "0"),
	})

	merged, err := OverlayActuals(cal, projected, totals)
	require.NoError(t, err)

	assertDec(t, "0", merged[0].Inflow, "projected inflow must not survive an actual day")
	assertDec(t, "150", merged[0].Outflow)
	assertDec(t, "0", merged[1].Inflow, "a zero-amount transaction still marks the day actual")
	assertDec(t, "0", merged[1].Outflow)
	assertDec(t, "1", merged[2].Inflow)
	assertDec(t, "2", merged[2].Outflow)
}

func TestOverlayActuals_LengthMismatch(t *testing.T) {
	_, err := OverlayActuals(Calendar{day(2024, 1, 1)}, nil, nil)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestProject_OverridePrecedence(t *testing.T) {
	in := Input{
		Now:          day(2024, 6, 1),
		Transactions: []models.Transaction{tx(day(2024, 3, 5), "-120")},
		Recurring:    []models.RecurringItem{{Day: 5, Amount: dec("500"), Kind: models.KindExpense}},
	}

	l, err := Project(in)
	require.NoError(t, err)

	r := rowOn(t, l, day(2024, 3, 5))
	assert.Equal(t, DayActual, r.Kind)
	assertDec(t, "120", r.Outflow)
	assertDec(t, "0", r.Inflow)

	assertDec(t, "0", rowOn(t, l, day(2024, 2, 5)).Outflow)
	next := rowOn(t, l, day(2024, 4, 5))
	assert.Equal(t, DayProjected, next.Kind)
	assertDec(t, "500", next.Outflow)
}

func TestProject_EmptyTransactionsIsAllProjected(t *testing.T) {
	l, err := Project(Input{
		Now:       day(2025, 2, 1),
		Recurring: []models.RecurringItem{{Day: 1, Amount: dec("10"), Kind: models.KindIncome}},
	})
	require.NoError(t, err)
	require.Len(t, l.Rows, dateutils.DaysInYear(2025)+dateutils.DaysInYear(2026))
	for _, r := range l.Rows {
		require.Equal(t, DayProjected, r.Kind)
	}
	assertDec(t, "10", l.Rows[0].Inflow)
}

func TestProject_ColumnsFollowConfiguration(t *testing.T) {
	dupe := nubank
	dupe.DueDay = 20
	l, err := Project(Input{Now: day(2024, 1, 1), Cards: []models.CardDefinition{itau, nubank, dupe}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Itau - Black (9876)", "Nubank - Roxinho (1234)"}, l.Columns)
	assert.Equal(t, []string{"date", "inflow", "outflow", "Itau - Black (9876)", "Nubank - Roxinho (1234)"}, l.Header())
	for _, r := range l.Rows {
		require.Len(t, r.Cards, 2)
	}
}

func bill(c models.CardDefinition, due time.Time, amount string) models.CardBill {
	return models.CardBill{Bank: c.Bank, Name: c.Name, LastDigits: c.LastDigits, DueDate: due, Amount: dec(amount)}
}

func TestAllocateBills_Additive(t *testing.T) {
	due := day(2024, 7, 10)
	l, err := Project(Input{
		Now:   day(2024, 1, 1),
		Cards: []models.CardDefinition{itau, nubank},
		Bills: []models.CardBill{bill(nubank, due, "100"), bill(nubank, due, "50")},
	})
	require.NoError(t, err)

	r := rowOn(t, l, due)
	assertDec(t, "150", r.Card(nubank.Key()))
	assertDec(t, "0", r.Card(itau.Key()))
	assert.Equal(t, []string{nubank.Key()}, r.Due)
}

func TestAllocateBills_DueFollowsColumnOrder(t *testing.T) {
	due := day(2024, 8, 1)
	l, err := Project(Input{
		Now:   day(2024, 1, 1),
		Cards: []models.CardDefinition{itau, nubank},
		Bills: []models.CardBill{bill(nubank, due, "1"), bill(itau, due, "2")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{itau.Key(), nubank.Key()}, rowOn(t, l, due).Due)
}

func TestAllocateBills_ZeroAmountStillDue(t *testing.T) {
	due := day(2024, 9, 10)
	l, err := Project(Input{
		Now:   day(2024, 1, 1),
		Cards: []models.CardDefinition{nubank},
		Bills: []models.CardBill{bill(nubank, due, "0")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{nubank.Key()}, rowOn(t, l, due).Due)
}

func TestAllocateBills_IgnoresUnknownCardsAndOutOfWindow(t *testing.T) {
	stranger := models.CardDefinition{Bank: "c6", Name: "carbon", LastDigits: "0001"}
	base, err := Project(Input{Now: day(2024, 1, 1), Cards: []models.CardDefinition{nubank}})
	require.NoError(t, err)

	l, err := Project(Input{
		Now:   day(2024, 1, 1),
		Cards: []models.CardDefinition{nubank},
		Bills: []models.CardBill{
			bill(stranger, day(2024, 5, 10), "999"),
			bill(nubank, day(2030, 5, 10), "999"),
			bill(nubank, day(2023, 12, 31), "999"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, base, l)
}

func TestAssemble_RejectsMisalignedInput(t *testing.T) {
	cal := Calendar{day(2024, 1, 1), day(2024, 1, 2)}
	states := ClassifyDays(cal, nil)

	_, err := Assemble(cal, nil, []Flow{ZeroFlow()}, states)
	assert.True(t, errors.Is(err, ErrInvariant))

	_, err = Assemble(Calendar{day(2024, 1, 1), day(2024, 1, 5)}, nil, []Flow{ZeroFlow(), ZeroFlow()}, states)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestProject_Idempotent(t *testing.T) {
	in := Input{
		Now: day(2024, 6, 1),
		Transactions: []models.Transaction{
			tx(day(2024, 5, 30), "-12.34"),
			tx(day(2024, 5, 31), "4500"),
		},
		Recurring: []models.RecurringItem{
			{Day: 5, Amount: dec("1800"), Kind: models.KindExpense},
			{Day: 30, Amount: dec("4500"), Kind: models.KindIncome},
		},
		Cards: []models.CardDefinition{itau, nubank},
		Bills: []models.CardBill{bill(itau, day(2024, 7, 5), "812.90")},
	}
	first, err := Project(in)
	require.NoError(t, err)
	second, err := Project(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFlow(t *testing.T) {
	f := Flow{Inflow: dec("10"), Outflow: dec("4")}.Add(Flow{Inflow: dec("1"), Outflow: dec("1")})
	assertDec(t, "6", f.Net())
}
