package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"todo-api/internal/config"
	"todo-api/internal/db"
	"todo-api/internal/repository"
)

type stores struct {
	accounts repository.AccountRepository
	todos    repository.TodoRepository
	ping     func(ctx context.Context) error
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := db.NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := db.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &stores{
			accounts: repository.NewMongoAccountRepository(database.Collection(db.AccountsCollection)),
			todos:    repository.NewMongoTodoRepository(database.Collection(db.TodosCollection)),
			ping: func(ctx context.Context) error {
				return db.PingMongo(ctx, client)
			},
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.Warn("mongo disconnect", zap.Error(err))
				}
			},
		}, nil

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &stores{
			accounts: repository.NewPgAccountRepository(pool),
			todos:    repository.NewPgTodoRepository(pool),
			ping: func(ctx context.Context) error {
				return db.Ping(ctx, pool)
			},
			close: pool.Close,
		}, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			accounts: repository.NewMemoryAccountRepository(),
			todos:    repository.NewMemoryTodoRepository(),
			ping:     func(context.Context) error { return nil },
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
