// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/constants"
)

const (
	// DateTimeLayout is the format expected for start dates and is also the
	// due date output format.
	DateTimeLayout = constants.DateTimeLayout
)

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthSequence returns count consecutive months starting at start, which must
// be in DateTimeLayout.
func MonthSequence(start string, count int) ([]string, error) {
	if _, err := time.Parse(DateTimeLayout, start); err != nil {
		return nil, fmt.Errorf("invalid start date %q, expected YYYY-MM: %w", start, err)
	}
	if count <= 0 {
		return nil, nil
	}
	if count > constants.MaxTermPeriods {
		return nil, fmt.Errorf("month sequence of %d exceeds %d months", count, constants.MaxTermPeriods)
	}

	months := make([]string, count)
	for i := range months {
		month, err := OffsetDate(start, DateTimeLayout, i)
		if err != nil {
			return nil, err
		}
		months[i] = month
	}
	return months, nil
}
