package credentials_test

import (
	"errors"
	"testing"

	"messenger/internal/credentials"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := credentials.NewMemory()

	if err := store.Put(credentials.KindAuthToken, "alice", "tok1"); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(credentials.KindAuthToken, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "tok1" {
		t.Fatalf("expected tok1, got %q", got)
	}
}

func TestMemoryScopedByKindAndUser(t *testing.T) {
	store := credentials.NewMemory()

	if err := store.Put(credentials.KindAuthToken, "alice", "tok1"); err != nil {
		t.Fatalf("put token: %v", err)
	}
	if err := store.Put(credentials.KindDeviceID, "alice", "42"); err != nil {
		t.Fatalf("put device id: %v", err)
	}

	if _, err := store.Get(credentials.KindAuthToken, "bob"); !errors.Is(err, credentials.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := store.Get(credentials.KindDeviceUUID, "alice"); !errors.Is(err, credentials.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other kind, got %v", err)
	}

	id, err := store.Get(credentials.KindDeviceID, "alice")
	if err != nil {
		t.Fatalf("get device id: %v", err)
	}
	if id != "42" {
		t.Fatalf("expected 42, got %q", id)
	}
}

func TestMemoryOverwrite(t *testing.T) {
	store := credentials.NewMemory()

	if err := store.Put(credentials.KindAuthToken, "alice", "tok1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(credentials.KindAuthToken, "alice", "tok2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get(credentials.KindAuthToken, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "tok2" {
		t.Fatalf("expected tok2 after overwrite, got %q", got)
	}
}

func TestMemoryDelete(t *testing.T) {
	store := credentials.NewMemory()

	if err := store.Put(credentials.KindDeviceUUID, "alice", "uuid-abc"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(credentials.KindDeviceUUID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(credentials.KindDeviceUUID, "alice"); !errors.Is(err, credentials.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(credentials.KindDeviceUUID, "alice"); !errors.Is(err, credentials.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
