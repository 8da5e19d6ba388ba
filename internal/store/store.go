// Package store defines the persistent secret store the session layer relies
// on. Implementations must keep values durable across process restarts and
// unreadable by other processes.
package store

import (
	"context"
	"errors"
)

// Well known keys used by the session layer.
const (
	// KeySession holds the backend issued session token, or the guest
	// sentinel value.
	KeySession = "session"
	// KeyUsername and KeyPassword hold the credentials bundle when the user
	// opted into staying logged in.
	KeyUsername = "username"
	KeyPassword = "password"
	// KeySessionCreated holds the session creation instant as epoch millis.
	KeySessionCreated = "sessionCreated"
	// KeyIsStudent records whether the account is a student account.
	KeyIsStudent = "isStudent"
	// KeyOnboarded marks the onboarding flow as completed.
	KeyOnboarded = "isOnboarded"
	// KeyAnalytics holds the analytics opt-in and survives a full wipe.
	KeyAnalytics = "analytics"
)

// UpdatedKey returns the per-version flag key marking the what's-new screen
// for the given version as seen.
func UpdatedKey(version string) string {
	return "isUpdated-" + version
}

// ErrNotFound is returned when the requested key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// SecretStore is the contract for durable secret storage.
type SecretStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Wiper is an optional capability for clearing all stored state at once
// while preserving selected keys.
type Wiper interface {
	Wipe(ctx context.Context, except ...string) error
}
