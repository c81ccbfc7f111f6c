package settlement

import "errors"

// Domain errors surfaced by report building. Malformed rows are never
// surfaced; they are skipped one by one during normalization.
var (
	// ErrInvalidRange means the requested window has start > end. The range
	// is reported back to the caller, never silently swapped.
	ErrInvalidRange = errors.New("period start is after period end")

	// ErrInvalidDate means a date string was not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrCatalogEmpty means no product catalog was supplied; without a
	// whitelist every row would be dropped, so this is a caller error.
	ErrCatalogEmpty = errors.New("product catalog has no entries")

	// ErrDataSource wraps failures acquiring raw rows from the upstream
	// spreadsheet collaborator.
	ErrDataSource = errors.New("failed to acquire sales data")
)
