// Package sqlite implements the secret store on a local SQLite database with
// all values encrypted at rest.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/store"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS secrets (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	name  TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// Store is a durable, encrypted store.SecretStore backed by SQLite.
type Store struct {
	db     *sql.DB
	cipher *store.Cipher
	now    func() time.Time
}

// Open opens (creating if necessary) the database at path and derives the
// value encryption key from the passphrase. The key derivation salt is
// generated on first open and kept in the database.
func Open(path, passphrase string) (*Store, error) {
	return OpenWithClock(path, passphrase, time.Now)
}

// OpenWithClock is Open with an injectable time source.
func OpenWithClock(path, passphrase string, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}

	dsn := path
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dsn = "file:" + dsn
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	salt, err := loadOrCreateSalt(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	cipher, err := store.NewCipher(passphrase, salt)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cipher: cipher, now: now}, nil
}

func loadOrCreateSalt(db *sql.DB) ([]byte, error) {
	var salt []byte
	err := db.QueryRow(`SELECT value FROM meta WHERE name = 'salt'`).Scan(&salt)
	switch {
	case err == nil:
		return salt, nil
	case errors.Is(err, sql.ErrNoRows):
		salt, err = store.NewSalt()
		if err != nil {
			return nil, err
		}
		if _, err := db.Exec(`INSERT INTO meta (name, value) VALUES ('salt', ?)`, salt); err != nil {
			return nil, fmt.Errorf("store: persist salt: %w", err)
		}
		return salt, nil
	default:
		return nil, fmt.Errorf("store: load salt: %w", err)
	}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the decrypted value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var sealed string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get %q: %w", key, err)
	}
	return s.cipher.Decrypt(sealed)
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	sealed, err := s.cipher.Encrypt(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secrets (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, sealed, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

// Wipe removes every stored entry except the listed keys.
func (s *Store) Wipe(ctx context.Context, except ...string) error {
	if len(except) == 0 {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM secrets`); err != nil {
			return fmt.Errorf("store: wipe: %w", err)
		}
		return nil
	}

	placeholders := strings.Repeat("?,", len(except))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(except))
	for i, key := range except {
		args[i] = key
	}

	query := fmt.Sprintf(`DELETE FROM secrets WHERE key NOT IN (%s)`, placeholders)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: wipe: %w", err)
	}
	return nil
}

var _ store.SecretStore = (*Store)(nil)
var _ store.Wiper = (*Store)(nil)
