package protocol_test

import (
	"encoding/json"
	"errors"
	"testing"

	"messenger/internal/protocol"
)

func TestDecodeAuthConfirm(t *testing.T) {
	msg, err := protocol.Decode([]byte(`{"type":"auth","subtype":"confirm","token":"tok2","user_id":"alice"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	confirm, ok := msg.(protocol.AuthConfirm)
	if !ok {
		t.Fatalf("expected AuthConfirm, got %T", msg)
	}
	if confirm.Token != "tok2" || confirm.UserID != "alice" {
		t.Fatalf("unexpected fields: %+v", confirm)
	}
}

func TestDecodeAuthLogout(t *testing.T) {
	msg, err := protocol.Decode([]byte(`{"type":"auth","subtype":"logout"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := msg.(protocol.AuthLogout); !ok {
		t.Fatalf("expected AuthLogout, got %T", msg)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{"not json", `{`, protocol.ErrMalformedMessage},
		{"missing type", `{"subtype":"confirm"}`, protocol.ErrMalformedMessage},
		{"unknown type", `{"type":"ping"}`, protocol.ErrUnknownMessageType},
		{"missing subtype", `{"type":"auth"}`, protocol.ErrMalformedMessage},
		{"unknown subtype", `{"type":"auth","subtype":"refresh"}`, protocol.ErrUnknownAuthSubtype},
		{"confirm without token", `{"type":"auth","subtype":"confirm","user_id":"alice"}`, protocol.ErrMalformedMessage},
		{"confirm without user", `{"type":"auth","subtype":"confirm","token":"tok"}`, protocol.ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := protocol.Decode([]byte(tt.frame))
			if msg != nil {
				t.Fatalf("expected nil message, got %#v", msg)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !protocol.Recoverable(err) {
				t.Fatalf("expected %v to be recoverable", err)
			}
		})
	}
}

func TestChatMessageEncode(t *testing.T) {
	payload, err := protocol.NewChatMessage("alice", "bob", "hello").Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != protocol.TypeChat {
		t.Fatalf("expected type %q, got %q", protocol.TypeChat, decoded["type"])
	}
	if decoded["sender"] != "alice" || decoded["recipient"] != "bob" || decoded["content"] != "hello" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
	if decoded["timestamp"] == "" {
		t.Fatalf("expected timestamp to be set")
	}
}
