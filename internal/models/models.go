// Package models provides the data structures shared by the extraction boundary,
// the projection core and the rendering layer. Money is always decimal.Decimal and
// calendar dates are always UTC midnight time.Time values.
package models

import (
	"time"

	"fjacquet/fillcash/internal/dateutils"
)

// Day truncates t to its calendar date at UTC midnight, keeping the wall-clock
// year, month and day of t's own location.
func Day(t time.Time) time.Time {
	return dateutils.Normalize(t)
}

// DateLayout is the canonical date layout used in every file the system writes.
const DateLayout = dateutils.DateLayoutISO
