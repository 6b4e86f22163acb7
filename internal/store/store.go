package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"energy-cost-backend/config"
	"energy-cost-backend/internal/db"
	"energy-cost-backend/internal/model"
)

// Store is the key-value durability layer.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// DBProvider is implemented by stores backed by a relational database.
type DBProvider interface {
	DB() *gorm.DB
}

// DB returns the database behind s, or nil for stores without one.
func DB(s Store) *gorm.DB {
	if p, ok := s.(DBProvider); ok {
		return p.DB()
	}
	return nil
}

// Open creates the store selected by cfg.Driver.
func Open(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "file":
		return NewFileStore(cfg.Path)
	default:
		gormDB, err := db.Init(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormStore(gormDB), nil
	}
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that need tables of
// their own.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).Where(&model.KVEntry{Key: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

func (s *gormStore) Put(ctx context.Context, key string, value []byte) error {
	entry := model.KVEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
