package projection

import "time"

// =============================================================================
// MONTHLY AGGREGATION - Presentation grouping over the sorted event stream
// =============================================================================

// MonthGroup is one month of forecast payouts with its total.
type MonthGroup struct {
	Year   int
	Month  time.Month
	Total  Amount
	Events []PayoutEvent
}

// GroupByMonth buckets a date-sorted event sequence by (year, month).
// Groups come out in chronological order; event order within a group is
// preserved. Empty months are not materialized.
func GroupByMonth(events []PayoutEvent) []MonthGroup {
	var groups []MonthGroup
	for _, ev := range events {
		y, m := ev.Date.Year(), ev.Date.Month()
		if n := len(groups); n == 0 || groups[n-1].Year != y || groups[n-1].Month != m {
			groups = append(groups, MonthGroup{
				Year:  y,
				Month: m,
				Total: ev.Amount.Zero(),
			})
		}
		g := &groups[len(groups)-1]
		g.Total = g.Total.Add(ev.Amount)
		g.Events = append(g.Events, ev)
	}
	return groups
}
