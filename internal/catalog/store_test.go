package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/givingwi/chicken-settlement/internal/models"
	"github.com/givingwi/chicken-settlement/pkg/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations())

	return NewStore(db, logger)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	t.Run("empty store loads an empty catalog", func(t *testing.T) {
		catalog, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, catalog)
	})

	t.Run("saved entries round-trip", func(t *testing.T) {
		err := store.Save([]models.ProductEntry{
			{Name: "雞排", Cost: 80, Price: 170},
			{Name: "雞翅", Cost: 105, Price: 180},
		})
		require.NoError(t, err)

		catalog, err := store.Load()
		require.NoError(t, err)
		require.Len(t, catalog, 2)
		assert.Equal(t, 80.0, catalog["雞排"].Cost)
		assert.Equal(t, 180.0, catalog["雞翅"].Price)
	})

	t.Run("save upserts without touching other items", func(t *testing.T) {
		err := store.Save([]models.ProductEntry{
			{Name: "雞排", Cost: 85, Price: 175},
		})
		require.NoError(t, err)

		catalog, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, 85.0, catalog["雞排"].Cost)
		assert.Equal(t, 175.0, catalog["雞排"].Price)
		// 雞翅 untouched
		assert.Equal(t, 105.0, catalog["雞翅"].Cost)
	})

	t.Run("negative prices are rejected", func(t *testing.T) {
		err := store.Save([]models.ProductEntry{
			{Name: "雞排", Cost: -1, Price: 170},
		})
		assert.Error(t, err)
	})
}

func TestStore_Seed(t *testing.T) {
	store := newTestStore(t)

	defaults := models.Catalog{
		"雞排": {Name: "雞排", Cost: 80, Price: 170},
		"地瓜": {Name: "地瓜", Cost: 35, Price: 75},
	}

	t.Run("seeds an empty store", func(t *testing.T) {
		require.NoError(t, store.Seed(defaults))

		catalog, err := store.Load()
		require.NoError(t, err)
		assert.Len(t, catalog, 2)
	})

	t.Run("never overwrites existing prices", func(t *testing.T) {
		require.NoError(t, store.Save([]models.ProductEntry{
			{Name: "雞排", Cost: 90, Price: 180},
		}))

		require.NoError(t, store.Seed(defaults))

		catalog, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, 90.0, catalog["雞排"].Cost)
	})
}
