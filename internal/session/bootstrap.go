// Package session turns one websocket connection into a concurrently usable
// message channel: a Bootstrapper dials the upgrade with stored identity
// headers, a Session runs independent outbound and inbound loops over the
// split halves, and a Dispatcher routes inbound frames by their envelope type.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"messenger/internal/credentials"
)

const (
	HeaderUserID     = "x-user-id"
	HeaderAuthToken  = "x-auth-token"
	HeaderDeviceID   = "x-device-id"
	HeaderDeviceUUID = "x-device-uuid"
)

var ErrBadHeaderValue = errors.New("credential not usable as header value")

// Bootstrapper opens the persistent duplex connection for a user whose
// credentials are already stored. It only reads from the credential store.
type Bootstrapper struct {
	url    string
	creds  credentials.Store
	dialer *websocket.Dialer
	logger *slog.Logger
}

func NewBootstrapper(url string, creds credentials.Store, logger *slog.Logger) *Bootstrapper {
	return &Bootstrapper{
		url:   url,
		creds: creds,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		logger: logger.With(slog.String("component", "bootstrap")),
	}
}

// Connect upgrades to a websocket carrying the four identity headers and
// returns the connection with its two independently ownable halves. A missing
// credential fails before any network traffic. Connection errors surface
// as-is; retrying belongs to the caller.
func (b *Bootstrapper) Connect(ctx context.Context, username string) (*Conn, error) {
	header, err := b.identityHeader(username)
	if err != nil {
		return nil, err
	}

	ws, resp, err := b.dialer.DialContext(ctx, b.url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket upgrade rejected (%s): %w", resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", b.url, err)
	}
	b.logger.Info("connected", slog.String("user", username), slog.String("url", b.url))
	return &Conn{ws: ws}, nil
}

func (b *Bootstrapper) identityHeader(username string) (http.Header, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("username must not be empty")
	}

	token, err := b.creds.Get(credentials.KindAuthToken, username)
	if err != nil {
		return nil, fmt.Errorf("auth token: %w", err)
	}
	deviceID, err := b.creds.Get(credentials.KindDeviceID, username)
	if err != nil {
		return nil, fmt.Errorf("device id: %w", err)
	}
	deviceUUID, err := b.creds.Get(credentials.KindDeviceUUID, username)
	if err != nil {
		return nil, fmt.Errorf("device uuid: %w", err)
	}

	header := http.Header{}
	for name, value := range map[string]string{
		HeaderUserID:     username,
		HeaderAuthToken:  token,
		HeaderDeviceID:   deviceID,
		HeaderDeviceUUID: deviceUUID,
	} {
		if !validHeaderValue(value) {
			return nil, fmt.Errorf("%w: %s", ErrBadHeaderValue, name)
		}
		header.Set(name, value)
	}
	return header, nil
}

// validHeaderValue rejects control characters, which are illegal in an HTTP
// header value.
func validHeaderValue(v string) bool {
	if v == "" {
		return false
	}
	return !strings.ContainsFunc(v, func(r rune) bool {
		return r < ' ' || r == 0x7f
	})
}
