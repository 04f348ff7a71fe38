package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popstats/backend/internal/infrastructure/config"
	"github.com/popstats/backend/internal/infrastructure/persistence/models"
)

func memoryConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:       DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}
}

// newSQLiteDatabase opens an in-memory database with the location schema
func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.DB.AutoMigrate(&models.Country{}, &models.State{}, &models.City{}))
	return db
}

func TestNewDatabase(t *testing.T) {
	t.Run("opens in-memory sqlite with a single connection", func(t *testing.T) {
		db, err := NewDatabase(memoryConfig())
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, DriverSQLite, db.Driver())
		assert.NoError(t, db.Ping(context.Background()))

		sqlDB, err := db.DB.DB()
		require.NoError(t, err)
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("opens sqlite file", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.DSN = filepath.Join(t.TempDir(), "citystatecountry.db")

		db, err := NewDatabase(cfg)
		require.NoError(t, err)
		defer db.Close()

		sqlDB, err := db.DB.DB()
		require.NoError(t, err)
		assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Driver = "oracle"

		_, err := NewDatabase(cfg)
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("rejects sqlite without dsn", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.DSN = ""

		_, err := NewDatabase(cfg)
		assert.Error(t, err)
	})

	t.Run("closed database fails ping", func(t *testing.T) {
		db, err := NewDatabase(memoryConfig())
		require.NoError(t, err)
		require.NoError(t, db.Close())

		assert.Error(t, db.Ping(context.Background()))
	})
}
