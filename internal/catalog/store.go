// Package catalog persists the per-item cost/price table the settlement
// whitelist is built from. Prices are edited rarely (when the supplier
// changes them) but must survive restarts, so they live in SQLite instead
// of process memory.
package catalog

import (
	"database/sql"
	"fmt"

	"github.com/givingwi/chicken-settlement/internal/models"
	"github.com/givingwi/chicken-settlement/pkg/database"
	"go.uber.org/zap"
)

// Store reads and writes product price entries.
type Store struct {
	db     *database.DB
	logger *zap.Logger
}

// NewStore creates a new price store.
func NewStore(db *database.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Load returns the current catalog as an immutable per-run snapshot.
func (s *Store) Load() (models.Catalog, error) {
	rows, err := s.db.Query("SELECT name, cost, price FROM product_prices")
	if err != nil {
		return nil, fmt.Errorf("failed to query product prices: %w", err)
	}
	defer rows.Close()

	catalog := make(models.Catalog)
	for rows.Next() {
		var entry models.ProductEntry
		if err := rows.Scan(&entry.Name, &entry.Cost, &entry.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product price: %w", err)
		}
		catalog[entry.Name] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product prices: %w", err)
	}

	return catalog, nil
}

// Save upserts the given entries. Items absent from the argument are left
// untouched so a partial price edit cannot wipe the rest of the table.
func (s *Store) Save(entries []models.ProductEntry) error {
	for _, entry := range entries {
		if entry.Cost < 0 || entry.Price < 0 {
			return fmt.Errorf("negative cost or price for item %q", entry.Name)
		}
	}

	err := s.db.WithTransaction(func(tx *sql.Tx) error {
		for _, entry := range entries {
			_, err := tx.Exec(`
				INSERT INTO product_prices (name, cost, price, updated_at)
				VALUES (?, ?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT(name) DO UPDATE SET
					cost = excluded.cost,
					price = excluded.price,
					updated_at = CURRENT_TIMESTAMP
			`, entry.Name, entry.Cost, entry.Price)
			if err != nil {
				return fmt.Errorf("failed to upsert price for %q: %w", entry.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Product prices saved", zap.Int("count", len(entries)))
	return nil
}

// Seed inserts the default price table when the store is empty, typically
// on first start.
func (s *Store) Seed(defaults models.Catalog) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM product_prices").Scan(&count); err != nil {
		return fmt.Errorf("failed to count product prices: %w", err)
	}
	if count > 0 {
		return nil
	}

	entries := make([]models.ProductEntry, 0, len(defaults))
	for _, name := range defaults.Names() {
		entries = append(entries, defaults[name])
	}

	if err := s.Save(entries); err != nil {
		return err
	}

	s.logger.Info("Seeded default product prices", zap.Int("count", len(entries)))
	return nil
}
