package settlement

import (
	"fmt"
	"time"

	"github.com/givingwi/chicken-settlement/internal/models"
)

// FilterPeriod returns the records whose date falls inside the window,
// inclusive on both ends, preserving the original order. The inputs are not
// mutated. A window with start after end is a caller error.
func FilterPeriod(records []models.SalesRecord, window models.PeriodWindow) ([]models.SalesRecord, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}

	filtered := make([]models.SalesRecord, 0, len(records))
	for _, record := range records {
		if window.Contains(record.Date) {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// NewWindow builds a period window from ISO date strings.
func NewWindow(start, end string) (models.PeriodWindow, error) {
	startDate, err := parseISODate(start)
	if err != nil {
		return models.PeriodWindow{}, err
	}
	endDate, err := parseISODate(end)
	if err != nil {
		return models.PeriodWindow{}, err
	}
	return models.PeriodWindow{Start: startDate, End: endDate}, nil
}

// WindowForPeriod derives the inclusive window of a fixed-length settlement
// cycle starting at the given date, e.g. 14 days for the default biweekly
// reconciliation.
func WindowForPeriod(start time.Time, periodDays int) models.PeriodWindow {
	return models.PeriodWindow{
		Start: start,
		End:   start.AddDate(0, 0, periodDays-1),
	}
}

func parseISODate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
