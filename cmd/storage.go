package cmd

import (
	"context"
	"fmt"

	"civiclink/config"
	"civiclink/repository"
)

// storage bundles the repositories for the configured driver.
type storage struct {
	Issues repository.IssueRepository
	Users  repository.UserRepository
	close  func() error
}

func (s *storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory, "":
		return &storage{
			Issues: repository.NewMemoryIssueRepository(),
			Users:  repository.NewMemoryUserRepository(),
		}, nil

	case config.StorageSQLite:
		store, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return &storage{Issues: store.Issues(), Users: store.Users(), close: store.Close}, nil

	case config.StorageMongo:
		db, err := config.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureIndexes(db); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, err
		}
		return &storage{
			Issues: repository.NewMongoIssueRepository(db.Collection("issues")),
			Users:  repository.NewMongoUserRepository(db.Collection("users")),
			close:  func() error { return db.Client().Disconnect(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
