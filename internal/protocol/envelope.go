// Package protocol defines the JSON envelope exchanged over the session
// connection. Every frame is one object carrying a "type" discriminator;
// decoding yields a value from a closed set of message kinds so new types
// surface as compile-time switch cases instead of stray string comparisons.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrUnknownAuthSubtype = errors.New("unknown auth subtype")
)

const (
	TypeAuth = "auth"
	TypeChat = "message"

	SubtypeConfirm = "confirm"
	SubtypeLogout  = "logout"
)

// Message is the closed set of inbound payloads the dispatcher understands.
type Message interface{ kind() string }

// AuthConfirm rotates the client's auth token in-band.
type AuthConfirm struct {
	Token  string
	UserID string
}

// AuthLogout announces a server-initiated logout.
type AuthLogout struct{}

func (AuthConfirm) kind() string { return TypeAuth + "." + SubtypeConfirm }
func (AuthLogout) kind() string  { return TypeAuth + "." + SubtypeLogout }

type envelope struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
}

// Decode interprets one textual frame. Structural problems and missing
// mandatory fields come back as ErrMalformedMessage; recognized structure
// with an unrecognized discriminator comes back as ErrUnknownMessageType or
// ErrUnknownAuthSubtype. All three are recoverable: the frame is dropped and
// the session continues.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}

	switch env.Type {
	case TypeAuth:
		return decodeAuth(env)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}

func decodeAuth(env envelope) (Message, error) {
	switch env.Subtype {
	case SubtypeConfirm:
		if env.Token == "" {
			return nil, fmt.Errorf("%w: auth confirm missing token", ErrMalformedMessage)
		}
		if env.UserID == "" {
			return nil, fmt.Errorf("%w: auth confirm missing user_id", ErrMalformedMessage)
		}
		return AuthConfirm{Token: env.Token, UserID: env.UserID}, nil
	case SubtypeLogout:
		return AuthLogout{}, nil
	case "":
		return nil, fmt.Errorf("%w: auth frame missing subtype", ErrMalformedMessage)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthSubtype, env.Subtype)
	}
}

// Recoverable reports whether err is a parse-level problem that should drop
// the frame without ending the inbound loop.
func Recoverable(err error) bool {
	return errors.Is(err, ErrMalformedMessage) ||
		errors.Is(err, ErrUnknownMessageType) ||
		errors.Is(err, ErrUnknownAuthSubtype)
}

// ChatMessage is the outbound conversational payload.
type ChatMessage struct {
	Type      string `json:"type"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewChatMessage builds an outbound chat payload stamped with the sender's
// clock.
func NewChatMessage(sender, recipient, content string) ChatMessage {
	return ChatMessage{
		Type:      TypeChat,
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (m ChatMessage) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode chat message: %w", err)
	}
	return data, nil
}
