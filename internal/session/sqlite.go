package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Entry is one persisted session key-value pair
type Entry struct {
	SessionID string    `gorm:"primaryKey;type:varchar(64)"`
	Key       string    `gorm:"primaryKey;type:varchar(64)"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLiteStore implements the Store interface using a local SQLite file, for
// single-instance deployments that need sessions to survive restarts without
// a Redis
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore creates a new SQLite-backed session store
func NewSQLiteStore(cfg *config.SessionSQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	gormDB, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := gormDB.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: gormDB}, nil
}

// Get retrieves a value for the given session and key
func (s *SQLiteStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	var entry Entry
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// Set stores a value for the given session and key
func (s *SQLiteStore) Set(ctx context.Context, sessionID, key, value string) error {
	entry := Entry{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Save(&entry).Error
}

// Delete removes the given keys from a session
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("session_id = ? AND key IN ?", sessionID, keys).
		Delete(&Entry{}).Error
}

// Clear removes all keys for a session
func (s *SQLiteStore) Clear(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&Entry{}).Error
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
