package sheets

import (
	"fmt"
	"os"

	"github.com/givingwi/chicken-settlement/internal/models"
)

// ReadFile loads header-keyed rows from a local CSV export, used by the CLI
// for offline runs and fixtures.
func ReadFile(path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}
