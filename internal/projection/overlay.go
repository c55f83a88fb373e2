package projection

import (
	"fmt"
	"time"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/models"
)

// AggregateByDate sums inflow and outflow of the transactions per date.
func AggregateByDate(txs []models.Transaction) map[time.Time]Flow {
	totals := make(map[time.Time]Flow)
	for _, tx := range txs {
		d := dateutils.Normalize(tx.Date)
		f, ok := totals[d]
		if !ok {
			f = ZeroFlow()
		}
		totals[d] = f.Add(Flow{Inflow: tx.Inflow, Outflow: tx.Outflow})
	}
	return totals
}

// OverlayActuals replaces the projected flow of every day present in totals
// with the actual sums, both directions at once, even when an actual side is
// zero. Days absent from totals keep their projected flow.
func OverlayActuals(cal Calendar, projected []Flow, totals map[time.Time]Flow) ([]Flow, error) {
	if len(projected) != len(cal) {
		return nil, fmt.Errorf("%w: %d projected flows for %d calendar days", ErrInvariant, len(projected), len(cal))
	}
	merged := make([]Flow, len(cal))
	for i, d := range cal {
		if actual, ok := totals[d]; ok {
			merged[i] = actual
			continue
		}
		merged[i] = projected[i]
	}
	return merged, nil
}
