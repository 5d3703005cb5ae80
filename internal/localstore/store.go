package localstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrRecordNotFound = errors.New("record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Initialize opens (or creates) the per-user database file and migrates the
// schema. Safe to call on an already-initialized file.
func Initialize(dataDir, username string) (*Store, error) {
	st, err := Connect(dataDir, username)
	if err != nil {
		return nil, err
	}
	if err := st.DB.AutoMigrate(
		&User{},
		&Device{},
		&Conversation{},
		&UserConversation{},
		&Message{},
	); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return st, nil
}

// Connect opens the existing per-user database file without migrating.
func Connect(dataDir, username string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(DatabasePath(dataDir, username)), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return New(db), nil
}

// DatabasePath is deterministic per username: one store file per local
// identity, never shared.
func DatabasePath(dataDir, username string) string {
	return filepath.Join(dataDir, username+".database")
}

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// TableNames lists the user tables in the underlying file, excluding
// sqlite internals.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.DB.WithContext(ctx).
		Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
