// Package authapi is the one-shot HTTP bootstrap collaborator: it trades a
// password for the initial auth token and server-issued device id. Everything
// after that first exchange happens in-band on the session connection.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Credentials is the bootstrap response: the initial token plus the device
// identifier the server issued for this registration.
type Credentials struct {
	Token    string `json:"token"`
	DeviceID string `json:"device_id"`
}

type newAccountRequest struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UUID     string `json:"uuid"`
}

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UUID     string `json:"uuid"`
}

// NewAccount registers a fresh account and returns its session credentials.
func (c *Client) NewAccount(ctx context.Context, username, email, password, deviceUUID string) (Credentials, error) {
	return c.post(ctx, "new_account", newAccountRequest{
		Type:     "new_account",
		Username: username,
		Email:    email,
		Password: password,
		UUID:     deviceUUID,
	})
}

// Authenticate logs an existing account in from this device.
func (c *Client) Authenticate(ctx context.Context, username, password, deviceUUID string) (Credentials, error) {
	return c.post(ctx, "authenticate", authenticateRequest{
		Username: username,
		Password: password,
		UUID:     deviceUUID,
	})
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) (Credentials, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Credentials{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return Credentials{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Any non-success status is a hard failure; retrying belongs to the caller.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		if len(data) == 0 {
			data = []byte(resp.Status)
		}
		return Credentials{}, fmt.Errorf("%s failed: %s", endpoint, strings.TrimSpace(string(data)))
	}

	var creds Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return Credentials{}, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if creds.Token == "" || creds.DeviceID == "" {
		return Credentials{}, fmt.Errorf("%s response missing token or device_id", endpoint)
	}
	return creds, nil
}
