package localstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationStore struct{ db *gorm.DB }

func (s *Store) Conversations() *ConversationStore { return &ConversationStore{db: s.DB} }

func (c *ConversationStore) Create(ctx context.Context, conv *Conversation) error {
	if conv.LastActive.IsZero() {
		conv.LastActive = time.Now().UTC()
	}
	return c.db.WithContext(ctx).Create(conv).Error
}

func (c *ConversationStore) Get(ctx context.Context, conversationID int64) (*Conversation, error) {
	var conv Conversation
	if err := c.db.WithContext(ctx).First(&conv, "conversation_id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// Touch records activity on a conversation.
func (c *ConversationStore) Touch(ctx context.Context, conversationID int64, at time.Time) error {
	tx := c.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("conversation_id = ?", conversationID).
		Update("last_active", at)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// AddParticipant is idempotent: re-adding an existing member is a no-op.
func (c *ConversationStore) AddParticipant(ctx context.Context, userID string, conversationID int64) error {
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&UserConversation{UserID: userID, ConversationID: conversationID}).Error
}

func (c *ConversationStore) ListForUser(ctx context.Context, userID string) ([]Conversation, error) {
	var convs []Conversation
	err := c.db.WithContext(ctx).
		Joins("JOIN user_conversations ON user_conversations.conversation_id = conversations.conversation_id").
		Where("user_conversations.user_id = ?", userID).
		Order("conversations.last_active DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}
