package session

import (
	"time"

	"github.com/gorilla/websocket"
)

// Conn wraps the established websocket and hands out its two halves. The
// Sink must be owned by exactly one writer and the Source by exactly one
// reader; neither blocks the other.
type Conn struct {
	ws *websocket.Conn
}

func (c *Conn) Sink() *Sink     { return &Sink{ws: c.ws} }
func (c *Conn) Source() *Source { return &Source{ws: c.ws} }

// Close tears the underlying connection down, unblocking a pending read.
func (c *Conn) Close() error { return c.ws.Close() }

// Sink is the send-only half.
type Sink struct {
	ws *websocket.Conn
}

func (s *Sink) WriteText(payload []byte) error {
	return s.ws.WriteMessage(websocket.TextMessage, payload)
}

// Close announces a normal closure to the peer without touching the read
// side. WriteControl is safe alongside a concurrent reader.
func (s *Sink) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	return s.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(5*time.Second))
}

type FrameKind int

const (
	FrameText FrameKind = iota
	FrameBinary
)

func (k FrameKind) String() string {
	if k == FrameBinary {
		return "binary"
	}
	return "text"
}

// Frame is one discrete message unit read from the connection.
type Frame struct {
	Kind    FrameKind
	Payload []byte
}

// Source is the receive-only half.
type Source struct {
	ws *websocket.Conn
}

func (s *Source) ReadFrame() (Frame, error) {
	messageType, payload, err := s.ws.ReadMessage()
	if err != nil {
		return Frame{}, err
	}
	kind := FrameText
	if messageType == websocket.BinaryMessage {
		kind = FrameBinary
	}
	return Frame{Kind: kind, Payload: payload}, nil
}
