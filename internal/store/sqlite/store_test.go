package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "campus.db")
	s, err := Open(path, "test-passphrase")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, store.KeySession); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent key, got %v", err)
	}

	if err := s.Set(ctx, store.KeySession, "token-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, store.KeySession, "token-2"); err != nil {
		t.Fatalf("Set (replace) failed: %v", err)
	}

	value, err := s.Get(ctx, store.KeySession)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "token-2" {
		t.Fatalf("expected replaced value token-2, got %q", value)
	}

	if err := s.Delete(ctx, store.KeySession); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, store.KeySession); err != nil {
		t.Fatalf("deleting an absent key should not fail: %v", err)
	}
	if _, err := s.Get(ctx, store.KeySession); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_ValuesEncryptedAtRest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campus.db")
	s, err := Open(path, "test-passphrase")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, store.KeyPassword, "hunter2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("failed to reopen raw database: %v", err)
	}
	defer db.Close()

	var raw string
	if err := db.QueryRow(`SELECT value FROM secrets WHERE key = ?`, store.KeyPassword).Scan(&raw); err != nil {
		t.Fatalf("failed to read raw value: %v", err)
	}
	if raw == "hunter2" {
		t.Fatalf("value stored in plaintext")
	}
}

func TestStore_ReopenWithSamePassphrase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campus.db")
	ctx := context.Background()

	s, err := Open(path, "test-passphrase")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.Set(ctx, store.KeyUsername, "abc1234"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path, "test-passphrase")
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, err := reopened.Get(ctx, store.KeyUsername)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if value != "abc1234" {
		t.Fatalf("expected abc1234 after reopen, got %q", value)
	}

	wrong, err := Open(path, "other-passphrase")
	if err != nil {
		t.Fatalf("open with different passphrase failed: %v", err)
	}
	defer wrong.Close()

	if _, err := wrong.Get(ctx, store.KeyUsername); !errors.Is(err, store.ErrCipherText) {
		t.Fatalf("expected ErrCipherText with wrong passphrase, got %v", err)
	}
}

func TestStore_WipePreservesExceptions(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	entries := map[string]string{
		store.KeySession:          "token",
		store.KeyUsername:         "abc1234",
		store.KeyPassword:         "hunter2",
		store.KeyOnboarded:        "true",
		store.KeyAnalytics:        "true",
		store.UpdatedKey("1.2.3"): "true",
	}
	for key, value := range entries {
		if err := s.Set(ctx, key, value); err != nil {
			t.Fatalf("Set %q failed: %v", key, err)
		}
	}

	if err := s.Wipe(ctx, store.KeyAnalytics); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}

	value, err := s.Get(ctx, store.KeyAnalytics)
	if err != nil {
		t.Fatalf("analytics flag should survive wipe: %v", err)
	}
	if value != "true" {
		t.Fatalf("expected analytics flag true, got %q", value)
	}

	for _, key := range []string{store.KeySession, store.KeyUsername, store.KeyPassword, store.KeyOnboarded, store.UpdatedKey("1.2.3")} {
		if _, err := s.Get(ctx, key); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected %q to be wiped, got %v", key, err)
		}
	}
}
