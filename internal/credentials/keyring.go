package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring stores secrets in the operating system's secret service
// (Keychain on macOS, Credential Manager on Windows, Secret Service on Linux).
type Keyring struct{}

var _ Store = Keyring{}

func NewKeyring() Keyring { return Keyring{} }

func (Keyring) Get(kind Kind, username string) (string, error) {
	secret, err := keyring.Get(string(kind), username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s for %q", ErrNotFound, kind, username)
		}
		return "", fmt.Errorf("keyring get %s for %q: %w", kind, username, err)
	}
	return secret, nil
}

func (Keyring) Put(kind Kind, username, secret string) error {
	if err := keyring.Set(string(kind), username, secret); err != nil {
		return fmt.Errorf("%w: %s for %q: %v", ErrWriteFailed, kind, username, err)
	}
	return nil
}

func (Keyring) Delete(kind Kind, username string) error {
	if err := keyring.Delete(string(kind), username); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %s for %q", ErrNotFound, kind, username)
		}
		return fmt.Errorf("keyring delete %s for %q: %w", kind, username, err)
	}
	return nil
}
