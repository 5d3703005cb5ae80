package authapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"messenger/internal/credentials"
	"messenger/internal/localstore"
	"messenger/internal/userlist"
)

// Authenticator runs the login flows: it calls the bootstrap endpoint, files
// the returned secrets, records the username, and prepares the local store.
type Authenticator struct {
	api     *Client
	creds   credentials.Store
	users   *userlist.File
	dataDir string
	logger  *slog.Logger
}

func NewAuthenticator(api *Client, creds credentials.Store, users *userlist.File, dataDir string, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		api:     api,
		creds:   creds,
		users:   users,
		dataDir: dataDir,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// NewAccount registers an account, stores its three secrets, and initializes
// the per-user local store.
func (a *Authenticator) NewAccount(ctx context.Context, username, email, password string) error {
	deviceUUID, err := a.ensureDeviceUUID(username)
	if err != nil {
		return err
	}

	creds, err := a.api.NewAccount(ctx, username, email, password, deviceUUID)
	if err != nil {
		return err
	}
	if err := a.storeCredentials(username, creds, deviceUUID); err != nil {
		return err
	}

	st, err := localstore.Initialize(a.dataDir, username)
	if err != nil {
		return err
	}
	if err := st.Users().Create(ctx, &localstore.User{UserID: username, Email: email}); err != nil {
		return fmt.Errorf("record local user: %w", err)
	}

	a.logger.Info("account created", slog.String("user", username))
	return nil
}

// Login authenticates an existing account from this device and stores the
// refreshed secrets.
func (a *Authenticator) Login(ctx context.Context, username, password string) error {
	deviceUUID, err := a.ensureDeviceUUID(username)
	if err != nil {
		return err
	}

	creds, err := a.api.Authenticate(ctx, username, password, deviceUUID)
	if err != nil {
		return err
	}
	if err := a.storeCredentials(username, creds, deviceUUID); err != nil {
		return err
	}

	if _, err := localstore.Initialize(a.dataDir, username); err != nil {
		return err
	}

	a.logger.Info("logged in", slog.String("user", username))
	return nil
}

// ensureDeviceUUID returns the stored device instance UUID, generating one on
// first use. The UUID stays stable for the lifetime of this installation.
func (a *Authenticator) ensureDeviceUUID(username string) (string, error) {
	existing, err := a.creds.Get(credentials.KindDeviceUUID, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, credentials.ErrNotFound) {
		return "", err
	}
	return uuid.NewString(), nil
}

func (a *Authenticator) storeCredentials(username string, creds Credentials, deviceUUID string) error {
	if err := a.creds.Put(credentials.KindAuthToken, username, creds.Token); err != nil {
		return err
	}
	if err := a.creds.Put(credentials.KindDeviceID, username, creds.DeviceID); err != nil {
		return err
	}
	if err := a.creds.Put(credentials.KindDeviceUUID, username, deviceUUID); err != nil {
		return err
	}
	// Appended on every successful login; the prompt layer decides whether to
	// collapse duplicates.
	return a.users.Append(username)
}
