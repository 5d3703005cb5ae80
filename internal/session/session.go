package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/gorilla/websocket"

	"messenger/internal/observability/metrics"
	"messenger/internal/protocol"
)

const DefaultQueueSize = 32

var (
	// ErrQueueClosed is returned by Enqueue after CloseSend. The outbound
	// loop treats a closed queue as its normal end, not a failure.
	ErrQueueClosed = errors.New("send queue closed")

	ErrSessionClosed = errors.New("session ended")
)

type Side string

const (
	SideOutbound Side = "outbound"
	SideInbound  Side = "inbound"
)

// SideError reports which loop failed and why, so the owner can decide
// whether to re-bootstrap.
type SideError struct {
	Side Side
	Err  error
}

func (e *SideError) Error() string { return fmt.Sprintf("%s loop: %v", e.Side, e.Err) }
func (e *SideError) Unwrap() error { return e.Err }

// Session owns the two connection halves for its lifetime. The outbound loop
// drains a bounded FIFO queue onto the wire; the inbound loop feeds every
// frame to the dispatcher. The loops share no state and neither waits on the
// other's progress.
type Session struct {
	sink       *Sink
	source     *Source
	dispatcher *Dispatcher
	logger     *slog.Logger

	queue chan []byte
	done  chan struct{}

	closeOnce sync.Once
	closing   chan struct{}

	mu      sync.Mutex
	closed  bool
	senders sync.WaitGroup
}

func New(conn *Conn, dispatcher *Dispatcher, queueSize int, logger *slog.Logger) *Session {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Session{
		sink:       conn.Sink(),
		source:     conn.Source(),
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "session")),
		queue:      make(chan []byte, queueSize),
		done:       make(chan struct{}),
		closing:    make(chan struct{}),
	}
}

// Enqueue submits one pre-serialized payload for delivery in FIFO order.
// It blocks while the queue is full until space frees up, ctx is done, or
// the session ends. Once CloseSend has run it returns ErrQueueClosed, and
// callers already suspended on a full queue are released with the same
// error instead of being left hanging.
func (s *Session) Enqueue(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrQueueClosed
	}
	s.senders.Add(1)
	s.mu.Unlock()
	defer s.senders.Done()

	select {
	case s.queue <- payload:
		return nil
	case <-s.closing:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSessionClosed
	}
}

// CloseSend ends the send side: new and suspended Enqueue callers get
// ErrQueueClosed, and once the last in-flight Enqueue has returned the queue
// is closed so the outbound loop delivers everything already accepted and
// then ends cleanly. The queue is never closed under a live sender.
func (s *Session) CloseSend() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.closing)
		s.senders.Wait()
		close(s.queue)
	})
}

// Run blocks until both loops finish and returns the first terminal error,
// wrapped with the side that produced it. Neither loop cancels the other;
// shutdown is driven by CloseSend on the way out and by the peer or
// Conn.Close on the way in.
func (s *Session) Run(ctx context.Context) error {
	results := make(chan *SideError, 2)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := s.outboundLoop(); err != nil {
			results <- &SideError{Side: SideOutbound, Err: err}
		}
	}()
	go func() {
		defer wg.Done()
		if err := s.inboundLoop(ctx); err != nil {
			results <- &SideError{Side: SideInbound, Err: err}
		}
	}()

	wg.Wait()
	close(s.done)
	close(results)
	s.dispatcher.markClosed()

	// Arrival order in the channel preserves which side failed first.
	first := <-results
	if first == nil {
		metrics.SessionsTotal.WithLabelValues("ok").Inc()
		return nil
	}
	metrics.SessionsTotal.WithLabelValues(string(first.Side)).Inc()
	s.logger.Error("session ended", slog.String("side", string(first.Side)), slog.String("error", first.Err.Error()))
	return first
}

func (s *Session) outboundLoop() error {
	for payload := range s.queue {
		if err := s.sink.WriteText(payload); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		metrics.FramesSentTotal.Inc()
	}
	if err := s.sink.Close(); err != nil {
		s.logger.Debug("close notice not sent", slog.String("error", err.Error()))
	}
	return nil
}

func (s *Session) inboundLoop(ctx context.Context) error {
	for {
		frame, err := s.source.ReadFrame()
		if err != nil {
			if isExpectedClose(err) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		if frame.Kind == FrameBinary {
			// Reserved for encrypted payloads; acknowledged, not interpreted.
			metrics.FramesReceivedTotal.WithLabelValues("binary", "ignored").Inc()
			s.logger.Debug("binary frame ignored", slog.Int("bytes", len(frame.Payload)))
			continue
		}

		if err := s.dispatcher.Dispatch(ctx, frame.Payload); err != nil {
			if protocol.Recoverable(err) {
				s.logger.Warn("frame dropped", slog.String("error", err.Error()))
				continue
			}
			return fmt.Errorf("dispatch: %w", err)
		}
	}
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed)
}
