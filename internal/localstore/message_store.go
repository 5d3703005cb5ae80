package localstore

import (
	"context"
	"time"
)

type MessageStore struct{ db *Store }

func (s *Store) Messages() *MessageStore { return &MessageStore{db: s} }

// Save writes a message and, in the same transaction, bumps the sender
// device's sequence number and the conversation's last-active time. Pass a
// zero deviceID when the sender has no local device row yet.
func (m *MessageStore) Save(ctx context.Context, msg *Message, deviceID int64) error {
	return m.db.WithTx(ctx, func(tx *Store) error {
		if msg.ReceivedAt.IsZero() {
			msg.ReceivedAt = time.Now().UTC()
		}
		if err := tx.DB.Create(msg).Error; err != nil {
			return err
		}
		if deviceID != 0 {
			if _, err := tx.Devices().IncrementSequence(ctx, deviceID); err != nil {
				return err
			}
		}
		return tx.Conversations().Touch(ctx, msg.ConversationID, msg.ReceivedAt)
	})
}

func (m *MessageStore) ListByConversation(ctx context.Context, conversationID int64, limit int) ([]Message, error) {
	var msgs []Message
	tx := m.db.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
