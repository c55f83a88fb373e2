package projection

import (
	"fmt"
	"time"

	"fjacquet/fillcash/internal/dateutils"
)

// Calendar is the ordered list of days covered by a projection.
type Calendar []time.Time

// BuildCalendar returns every day from January 1 of now's year through
// December 31 of the following year.
func BuildCalendar(now time.Time) Calendar {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC)

	cal := make(Calendar, 0, dateutils.DaysInYear(now.Year())+dateutils.DaysInYear(now.Year()+1))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cal = append(cal, d)
	}
	return cal
}

// Validate checks that the calendar is non-empty, made of UTC midnights and
// strictly contiguous.
func (c Calendar) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: empty calendar", ErrInvariant)
	}
	for i, d := range c {
		if !d.Equal(dateutils.Normalize(d)) || d.Location() != time.UTC {
			return fmt.Errorf("%w: calendar day %d (%s) is not a UTC midnight", ErrInvariant, i, d)
		}
		if i == 0 {
			continue
		}
		if want := c[i-1].AddDate(0, 0, 1); !d.Equal(want) {
			return fmt.Errorf("%w: calendar jumps from %s to %s", ErrInvariant,
				dateutils.ToISODate(c[i-1]), dateutils.ToISODate(d))
		}
	}
	return nil
}

// First and Last return the window bounds. Both panic on an empty calendar.
func (c Calendar) First() time.Time { return c[0] }
func (c Calendar) Last() time.Time  { return c[len(c)-1] }
