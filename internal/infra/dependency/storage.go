package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/budget-api/config"
	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/infra/cache"
	"github.com/finance-tracker/budget-api/internal/infra/db"
	"github.com/finance-tracker/budget-api/internal/integration/docstore"
	"github.com/finance-tracker/budget-api/internal/integration/filestore"
	"github.com/finance-tracker/budget-api/internal/integration/persistence"
	"github.com/finance-tracker/budget-api/internal/integration/persistence/model"
)

// Storage bundles the repositories of one storage backend.
type Storage struct {
	Driver       string
	Users        adapter.UserRepository
	Transactions adapter.TransactionRepository
	Budgets      adapter.BudgetRepository
	Health       adapter.HealthChecker

	close func() error
}

// Close releases the backend's connections, if any.
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage connects the backend selected by cfg.Storage.Driver.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		database, err := db.NewPostgresConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewSQLStorage(database)

	case config.StorageDriverSQLite:
		database, err := db.NewSQLiteConnection(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLStorage(database)

	case config.StorageDriverFile:
		store, err := filestore.Open(cfg.File.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		slog.Info("File store opened", "data_dir", cfg.File.DataDir)
		return NewFileStorage(store), nil

	case config.StorageDriverRedis:
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStorage(client, cfg.Redis.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewSQLStorage migrates the schema and wraps the gorm repositories.
func NewSQLStorage(database *db.Database) (*Storage, error) {
	if err := database.AutoMigrate(model.All()...); err != nil {
		_ = database.Close()
		return nil, err
	}
	gdb := database.DB()
	return &Storage{
		Driver:       database.Driver(),
		Users:        persistence.NewUserRepository(gdb),
		Transactions: persistence.NewTransactionRepository(gdb),
		Budgets:      persistence.NewBudgetRepository(gdb),
		Health:       database,
		close:        database.Close,
	}, nil
}

// NewFileStorage wraps the JSON file store repositories.
func NewFileStorage(store *filestore.Store) *Storage {
	return &Storage{
		Driver:       config.StorageDriverFile,
		Users:        filestore.NewUserRepository(store),
		Transactions: filestore.NewTransactionRepository(store),
		Budgets:      filestore.NewBudgetRepository(store),
		Health:       store,
	}
}

// NewRedisStorage wraps the Redis document store repositories.
func NewRedisStorage(client *redis.Client, prefix string) *Storage {
	store := docstore.New(client, prefix)
	return &Storage{
		Driver:       config.StorageDriverRedis,
		Users:        docstore.NewUserRepository(store),
		Transactions: docstore.NewTransactionRepository(store),
		Budgets:      docstore.NewBudgetRepository(store),
		Health:       store,
		close:        client.Close,
	}
}
