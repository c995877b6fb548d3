package store

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openclass/live/internal/domain"
)

// SQLiteStore keeps messages in a local sqlite database via gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// the messages table. Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open message db: %w", err)
	}
	if err := db.AutoMigrate(&domain.ChatMessage{}); err != nil {
		return nil, fmt.Errorf("failed to migrate message db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, msg *domain.ChatMessage) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ByRoom lists persisted messages for a room in insertion order. Not used
// on the hot path; exists for the ops API and tests.
func (s *SQLiteStore) ByRoom(ctx context.Context, room domain.ChatRoomID) ([]*domain.ChatMessage, error) {
	var msgs []*domain.ChatMessage
	if err := s.db.WithContext(ctx).Where("room_id = ?", room).Order("created_at").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}
