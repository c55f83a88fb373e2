package projection

import (
	"sort"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/models"
)

// AllocateBills adds every bill's amount to its card column on the row of its
// due date. Bills of unregistered cards or due outside the ledger window are
// ignored. Bills sharing a column and a date add up.
func AllocateBills(l *Ledger, bills []models.CardBill) {
	for _, bill := range bills {
		key := bill.Key()
		if !l.HasColumn(key) {
			continue
		}
		i, ok := l.RowAt(dateutils.Normalize(bill.DueDate))
		if !ok {
			continue
		}
		row := &l.Rows[i]
		row.Cards[key] = row.Cards[key].Add(bill.Amount)
		row.Due = l.markDue(row.Due, key)
	}
}

// markDue adds key to due unless present, keeping ledger column order.
func (l *Ledger) markDue(due []string, key string) []string {
	for _, k := range due {
		if k == key {
			return due
		}
	}
	due = append(due, key)
	sort.SliceStable(due, func(a, b int) bool {
		return l.colIndex[due[a]] < l.colIndex[due[b]]
	})
	return due
}
