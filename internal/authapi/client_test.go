package authapi_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"messenger/internal/authapi"
	"messenger/internal/credentials"
	"messenger/internal/localstore"
	"messenger/internal/userlist"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func bootstrapServer(t *testing.T, status int, respond map[string]string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if status >= 400 {
			http.Error(w, "authentication failed", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(respond)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestNewAccountRequestShape(t *testing.T) {
	srv, captured := bootstrapServer(t, http.StatusOK, map[string]string{"token": "tok1", "device_id": "42"})

	client := authapi.NewClient(srv.URL)
	creds, err := client.NewAccount(context.Background(), "alice", "alice@example.com", "hunter2", "uuid-abc")
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	if creds.Token != "tok1" || creds.DeviceID != "42" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}

	got := *captured
	for field, want := range map[string]string{
		"type":     "new_account",
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter2",
		"uuid":     "uuid-abc",
	} {
		if got[field] != want {
			t.Fatalf("field %s: expected %q, got %v", field, want, got[field])
		}
	}
}

func TestAuthenticateFailureIsHard(t *testing.T) {
	srv, _ := bootstrapServer(t, http.StatusUnauthorized, nil)

	client := authapi.NewClient(srv.URL)
	_, err := client.Authenticate(context.Background(), "alice", "wrong", "uuid-abc")
	if err == nil {
		t.Fatalf("expected failure for rejected login")
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Fatalf("expected server reason in error, got %v", err)
	}
}

func TestAuthenticateRejectsIncompleteResponse(t *testing.T) {
	srv, _ := bootstrapServer(t, http.StatusOK, map[string]string{"token": "tok1"})

	client := authapi.NewClient(srv.URL)
	_, err := client.Authenticate(context.Background(), "alice", "hunter2", "uuid-abc")
	if err == nil {
		t.Fatalf("expected error for response missing device_id")
	}
}

func TestLoginFlowStoresSecretsAndRecordsUser(t *testing.T) {
	srv, captured := bootstrapServer(t, http.StatusOK, map[string]string{"token": "tok1", "device_id": "42"})

	dataDir := t.TempDir()
	creds := credentials.NewMemory()
	users := userlist.New(filepath.Join(dataDir, "users.csv"))
	auth := authapi.NewAuthenticator(authapi.NewClient(srv.URL), creds, users, dataDir, discardLogger())

	if err := auth.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := creds.Get(credentials.KindAuthToken, "alice")
	if err != nil || token != "tok1" {
		t.Fatalf("expected stored token tok1, got %q (%v)", token, err)
	}
	deviceID, err := creds.Get(credentials.KindDeviceID, "alice")
	if err != nil || deviceID != "42" {
		t.Fatalf("expected stored device id 42, got %q (%v)", deviceID, err)
	}
	deviceUUID, err := creds.Get(credentials.KindDeviceUUID, "alice")
	if err != nil || deviceUUID == "" {
		t.Fatalf("expected generated device uuid, got %q (%v)", deviceUUID, err)
	}
	if sent := (*captured)["uuid"]; sent != deviceUUID {
		t.Fatalf("expected request uuid %q to match stored uuid %q", sent, deviceUUID)
	}

	recorded, err := users.Contains("alice")
	if err != nil || !recorded {
		t.Fatalf("expected alice in user list (%v)", err)
	}

	// Login prepares the local store for the user.
	st, err := localstore.Connect(dataDir, "alice")
	if err != nil {
		t.Fatalf("connect local store: %v", err)
	}
	names, err := st.TableNames(context.Background())
	if err != nil {
		t.Fatalf("table names: %v", err)
	}
	if len(names) != 5 {
		t.Fatalf("expected five tables after login, got %v", names)
	}
}

func TestDeviceUUIDStableAcrossLogins(t *testing.T) {
	srv, _ := bootstrapServer(t, http.StatusOK, map[string]string{"token": "tok1", "device_id": "42"})

	dataDir := t.TempDir()
	creds := credentials.NewMemory()
	users := userlist.New(filepath.Join(dataDir, "users.csv"))
	auth := authapi.NewAuthenticator(authapi.NewClient(srv.URL), creds, users, dataDir, discardLogger())

	if err := auth.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	first, err := creds.Get(credentials.KindDeviceUUID, "alice")
	if err != nil {
		t.Fatalf("get uuid: %v", err)
	}

	if err := auth.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("second login: %v", err)
	}
	second, err := creds.Get(credentials.KindDeviceUUID, "alice")
	if err != nil {
		t.Fatalf("get uuid again: %v", err)
	}
	if first != second {
		t.Fatalf("device uuid must stay stable: %q vs %q", first, second)
	}
}
