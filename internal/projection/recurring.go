package projection

import "fjacquet/fillcash/internal/models"

// ProjectRecurring returns, per calendar day, the sum of recurring items whose
// day of month matches and which the day states allow to be projected. Days
// of month that do not exist in a month yield nothing for that month.
func ProjectRecurring(cal Calendar, items []models.RecurringItem, states DayStates) []Flow {
	flows := make([]Flow, len(cal))
	for i, d := range cal {
		flows[i] = ZeroFlow()
		if !states.Projectable(d) {
			continue
		}
		for _, item := range items {
			if d.Day() != item.Day {
				continue
			}
			switch item.Kind {
			case models.KindIncome:
				flows[i].Inflow = flows[i].Inflow.Add(item.Amount)
			case models.KindExpense:
				flows[i].Outflow = flows[i].Outflow.Add(item.Amount)
			}
		}
	}
	return flows
}
