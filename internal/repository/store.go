package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/twentyhard/twentyhard/internal/config"
	"github.com/twentyhard/twentyhard/internal/db"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the repositories of one backend with its lifecycle.
type Store struct {
	Driver     string
	Users      UserRepository
	Challenges ChallengeRepository

	sqlDB *sqlx.DB
	mongo *mongo.Client
}

// Open connects the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return NewMemoryBackedStore(), nil

	case config.StoreSQLite, config.StorePgx:
		database, err := db.Init(ctx, cfg.StoreDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if cfg.AutoMigrate {
			err = db.RunMigrations(database.DB, cfg.StoreDriver)
			if err != nil {
				_ = database.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		return NewSQLStore(cfg.StoreDriver, database), nil

	case config.StoreMongo:
		client, mdb, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:     config.StoreMongo,
			Users:      NewMongoUserRepository(mdb),
			Challenges: NewMongoChallengeRepository(mdb),
			mongo:      client,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}

func NewMemoryBackedStore() *Store {
	mem := NewMemoryStore()
	return &Store{
		Driver:     config.StoreMemory,
		Users:      mem.Users(),
		Challenges: mem.Challenges(),
	}
}

func NewSQLStore(driver string, database *sqlx.DB) *Store {
	return &Store{
		Driver:     driver,
		Users:      NewUserRepository(database),
		Challenges: NewChallengeRepository(database),
		sqlDB:      database,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.sqlDB != nil:
		return s.sqlDB.PingContext(ctx)
	case s.mongo != nil:
		return s.mongo.Ping(ctx, nil)
	default:
		return nil
	}
}

func (s *Store) Close() error {
	switch {
	case s.sqlDB != nil:
		return s.sqlDB.Close()
	case s.mongo != nil:
		return s.mongo.Disconnect(context.Background())
	default:
		return nil
	}
}
