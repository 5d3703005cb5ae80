package credentials

import "errors"

// Kind names one secret class. The value doubles as the service name under
// which the secret is filed in the OS keychain, so existing entries written
// by earlier builds keep resolving.
type Kind string

const (
	KindAuthToken  Kind = "e_to_e_msgr_token"
	KindDeviceID   Kind = "e_to_e_msgr_device_id"
	KindDeviceUUID Kind = "e_to_e_msgr_uuid"
)

var (
	ErrNotFound    = errors.New("credential not found")
	ErrWriteFailed = errors.New("credential write failed")
)

// Store holds one secret per (kind, username). Put overwrites atomically:
// a concurrent Get sees either the old or the new value, never a mix.
type Store interface {
	Get(kind Kind, username string) (string, error)
	Put(kind Kind, username, secret string) error
	Delete(kind Kind, username string) error
}
