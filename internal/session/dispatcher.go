package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"messenger/internal/credentials"
	"messenger/internal/observability/metrics"
	"messenger/internal/protocol"
)

// State tracks the per-connection auth state machine. There is no
// unauthenticated state: a session only starts with credentials presumed
// valid, and the first auth.confirm moves it to Authenticated.
type State int32

const (
	StateConnected State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "connected"
	}
}

// Dispatcher routes decoded inbound frames. It is the only component allowed
// to write a rotated auth token.
type Dispatcher struct {
	creds  credentials.Store
	logger *slog.Logger
	state  atomic.Int32
}

func NewDispatcher(creds credentials.Store, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		creds:  creds,
		logger: logger.With(slog.String("component", "dispatch")),
	}
}

func (d *Dispatcher) State() State { return State(d.state.Load()) }

func (d *Dispatcher) markClosed() { d.state.Store(int32(StateClosed)) }

// Dispatch interprets one textual frame. Parse-level failures come back as
// recoverable protocol errors; a failed token rotation is terminal because
// pretending it succeeded would strand the client with a stale token.
func (d *Dispatcher) Dispatch(ctx context.Context, frame []byte) error {
	msg, err := protocol.Decode(frame)
	if err != nil {
		metrics.FramesReceivedTotal.WithLabelValues("text", "rejected").Inc()
		return err
	}
	metrics.FramesReceivedTotal.WithLabelValues("text", "ok").Inc()

	switch m := msg.(type) {
	case protocol.AuthConfirm:
		if err := d.rotateToken(m); err != nil {
			metrics.TokenRotationsTotal.WithLabelValues("error").Inc()
			return err
		}
		metrics.TokenRotationsTotal.WithLabelValues("ok").Inc()
		d.state.Store(int32(StateAuthenticated))
		return nil
	case protocol.AuthLogout:
		// Teardown is the session owner's decision; record the notice only.
		d.logger.Info("server logout notice")
		d.state.Store(int32(StateClosed))
		return nil
	default:
		return fmt.Errorf("%w: %T", protocol.ErrUnknownMessageType, msg)
	}
}

// rotateToken overwrites the stored auth token. Receiving the same token
// again is a no-op, so a replayed confirm frame never causes a second write.
func (d *Dispatcher) rotateToken(m protocol.AuthConfirm) error {
	current, err := d.creds.Get(credentials.KindAuthToken, m.UserID)
	if err == nil && current == m.Token {
		return nil
	}
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		return fmt.Errorf("rotate token: %w", err)
	}
	if err := d.creds.Put(credentials.KindAuthToken, m.UserID, m.Token); err != nil {
		return fmt.Errorf("rotate token: %w", err)
	}
	d.logger.Debug("auth token rotated", slog.String("user", m.UserID))
	return nil
}
