package localstore

import "time"

// User is one local human identity. Rows are created at account creation and
// never mutated afterwards.
type User struct {
	UserID    string    `gorm:"type:text;primaryKey" db:"user_id"`
	Email     string    `gorm:"type:text;not null" db:"email"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" db:"created_at"`
}

func (User) TableName() string { return "users" }

// Device is one client installation bound to a user. The server issues the
// numeric device id. SharedKey is reserved for the per-device symmetric key
// once end-to-end encryption lands; MsgSequenceNum orders sent and received
// messages for that device.
type Device struct {
	DeviceID       int64   `gorm:"primaryKey;autoIncrement:false" db:"device_id"`
	UserID         string  `gorm:"type:text;not null;uniqueIndex:ux_devices_user" db:"user_id"`
	SharedKey      *string `gorm:"type:text" db:"shared_key"`
	MsgSequenceNum int64   `gorm:"not null;default:0" db:"msg_sequence_num"`
}

func (Device) TableName() string { return "devices" }

type Conversation struct {
	ConversationID int64     `gorm:"primaryKey" db:"conversation_id"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" db:"created_at"`
	LastActive     time.Time `gorm:"not null" db:"last_active"`
}

func (Conversation) TableName() string { return "conversations" }

// UserConversation links users into conversations; the (user, conversation)
// pair is unique by construction of the composite primary key.
type UserConversation struct {
	UserID         string `gorm:"type:text;primaryKey" db:"user_id"`
	ConversationID int64  `gorm:"primaryKey;autoIncrement:false" db:"conversation_id"`
}

func (UserConversation) TableName() string { return "user_conversations" }

// Message keeps the sender's clock (CreatedAt) and the local receipt clock
// (ReceivedAt) as distinct columns so skew and delivery latency stay visible.
type Message struct {
	MessageID      int64     `gorm:"primaryKey" db:"message_id"`
	ConversationID int64     `gorm:"not null;index" db:"conversation_id"`
	SenderID       string    `gorm:"type:text;not null" db:"sender_id"`
	Content        string    `gorm:"type:text;not null" db:"content"`
	CreatedAt      time.Time `gorm:"not null" db:"created_at"`
	ReceivedAt     time.Time `gorm:"not null" db:"received_at"`
}

func (Message) TableName() string { return "messages" }
