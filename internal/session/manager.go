// Package session owns the lifecycle of the backend session: creation,
// persistence, expiry, and transparent re-authentication around every
// authenticated call.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/api"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/logging"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/store"
)

// GuestToken is the sentinel stored instead of a real backend token when the
// user intentionally skipped logging in. It must be distinguishable from a
// real session everywhere downstream.
const GuestToken = "guest"

// DefaultTTL is how long the backend honors a session token. After this the
// manager re-logs in proactively instead of letting calls fail.
const DefaultTTL = 3 * time.Hour

// usernameDomain is stripped from usernames; accounts are keyed by the bare
// login name.
const usernameDomain = "@thi.de"

// Backend captures the session operations of the anonymous API client.
type Backend interface {
	Login(ctx context.Context, username, password string) (api.LoginResult, error)
	IsAlive(ctx context.Context, token string) bool
	Logout(ctx context.Context, token string) bool
}

// Notifier cancels locally scheduled notifications on logout. It is an
// external collaborator; failures are logged, never propagated.
type Notifier interface {
	CancelAll(ctx context.Context) error
}

// Operation is an authenticated backend call. It receives the current
// session token and may be invoked a second time with a fresh token if the
// first attempt failed with a session-related error.
type Operation func(ctx context.Context, token string) (any, error)

// Manager owns the current session. All state lives in the secret store; the
// mutex serializes the read-refresh-write path so concurrent calls cannot
// race a re-login (the backend tolerates duplicate logins, the latest token
// wins, but serializing keeps the behavior deterministic).
type Manager struct {
	secrets    store.SecretStore
	backend    Backend
	classifier ErrorClassifier
	notifier   Notifier
	now        func() time.Time
	ttl        time.Duration
	appVersion string
	logger     *slog.Logger

	mu sync.Mutex
}

// NewManager constructs a manager with the default classifier and logger.
func NewManager(secrets store.SecretStore, backend Backend, now func() time.Time, ttl time.Duration) *Manager {
	return NewManagerWithLogger(secrets, backend, nil, nil, now, ttl, "", nil)
}

// NewManagerWithLogger constructs a manager with every dependency explicit.
// Nil classifier, notifier, clock, and logger fall back to defaults; a
// non-positive ttl falls back to DefaultTTL.
func NewManagerWithLogger(secrets store.SecretStore, backend Backend, notifier Notifier, classifier ErrorClassifier, now func() time.Time, ttl time.Duration, appVersion string, logger *slog.Logger) *Manager {
	if classifier == nil {
		classifier = PatternClassifier{}
	}
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		secrets:    secrets,
		backend:    backend,
		classifier: classifier,
		notifier:   notifier,
		now:        now,
		ttl:        ttl,
		appVersion: appVersion,
		logger:     logger,
	}
}

func (m *Manager) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = m.logger
	}
	pairs := []any{"service", "SessionManager", "operation", operation}
	pairs = append(pairs, attrs...)
	return logger.With(pairs...)
}

// NormalizeUsername lowercases the username, removes all whitespace, and
// strips the university mail domain.
func NormalizeUsername(username string) string {
	normalized := strings.ToLower(username)
	normalized = strings.Join(strings.Fields(normalized), "")
	return strings.TrimSuffix(normalized, usernameDomain)
}

// CreateSession logs in with the given credentials and persists the fresh
// session. Credentials are persisted only when persist is true; without them
// the session cannot be silently refreshed later. Reports whether the
// account is a student account.
func (m *Manager) CreateSession(ctx context.Context, username, password string, persist bool) (isStudent bool, err error) {
	if m == nil {
		return false, fmt.Errorf("session: Manager is nil")
	}

	username = NormalizeUsername(username)
	logger := m.loggerWith(ctx, "CreateSession", "username", username, "persist", persist)

	result, err := m.backend.Login(ctx, username, password)
	if err != nil {
		logger.ErrorContext(ctx, "login failed", "error", err)
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persistSession(ctx, result); err != nil {
		return false, err
	}
	if persist {
		if err := m.secrets.Set(ctx, store.KeyUsername, username); err != nil {
			return false, err
		}
		if err := m.secrets.Set(ctx, store.KeyPassword, password); err != nil {
			return false, err
		}
	}

	logger.InfoContext(ctx, "session created", "is_student", result.IsStudent)
	return result.IsStudent, nil
}

// persistSession writes the token, creation instant, and role. Callers hold
// the mutex.
func (m *Manager) persistSession(ctx context.Context, result api.LoginResult) error {
	if err := m.secrets.Set(ctx, store.KeySession, result.Token); err != nil {
		return err
	}
	createdAt := strconv.FormatInt(m.now().UnixMilli(), 10)
	if err := m.secrets.Set(ctx, store.KeySessionCreated, createdAt); err != nil {
		return err
	}
	return m.secrets.Set(ctx, store.KeyIsStudent, strconv.FormatBool(result.IsStudent))
}

// CreateGuestSession replaces any existing session with the guest sentinel,
// clears stored credentials, and marks the onboarding and what's-new flags
// as seen.
func (m *Manager) CreateGuestSession(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("session: Manager is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range []string{store.KeyUsername, store.KeyPassword, store.KeySessionCreated, store.KeyIsStudent} {
		if err := m.secrets.Delete(ctx, key); err != nil {
			return err
		}
	}
	if err := m.secrets.Set(ctx, store.KeySession, GuestToken); err != nil {
		return err
	}
	if err := m.secrets.Set(ctx, store.KeyOnboarded, "true"); err != nil {
		return err
	}
	if m.appVersion != "" {
		if err := m.secrets.Set(ctx, store.UpdatedKey(m.appVersion), "true"); err != nil {
			return err
		}
	}

	m.loggerWith(ctx, "CreateGuestSession").InfoContext(ctx, "guest session created")
	return nil
}

// CallWithSession invokes op with a valid session token, transparently
// re-logging in when the persisted session is older than the TTL and
// retrying exactly once when op fails with a session-related error. Any
// other failure propagates unchanged.
func (m *Manager) CallWithSession(ctx context.Context, op Operation) (any, error) {
	if m == nil {
		return nil, fmt.Errorf("session: Manager is nil")
	}

	logger := m.loggerWith(ctx, "CallWithSession")

	token, username, password, err := m.ensureFreshSession(ctx, logger)
	if err != nil {
		return nil, err
	}

	shouldRetry := func(ctx context.Context, opErr error) error {
		if m.classifier.Classify(opErr) != KindSessionExpired {
			return opErr
		}
		logger.InfoContext(ctx, "operation failed with session error, re-logging in", "error", opErr)
		fresh, err := m.relogin(ctx, username, password)
		if err != nil {
			logger.ErrorContext(ctx, "re-login failed", "error", err)
			return ErrNoSession
		}
		token = fresh
		return nil
	}

	return withRetry(ctx, shouldRetry, func(ctx context.Context) (any, error) {
		return op(ctx, token)
	})
}

// ensureFreshSession loads the persisted session, validates its eligibility,
// and proactively re-logs in when it aged past the TTL.
func (m *Manager) ensureFreshSession(ctx context.Context, logger *slog.Logger) (token, username, password string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err = m.loadToken(ctx)
	if err != nil {
		return "", "", "", err
	}
	if token == "" {
		return "", "", "", ErrNoSession
	}
	if token == GuestToken {
		return "", "", "", ErrUnavailableSession
	}

	username, password, ok, err := m.loadCredentials(ctx)
	if err != nil {
		return "", "", "", err
	}
	if !ok {
		return "", "", "", ErrUnavailableSession
	}

	if age, known := m.sessionAge(ctx); known && age >= m.ttl {
		logger.InfoContext(ctx, "session aged past TTL, re-logging in", "age", age)
		result, loginErr := m.backend.Login(ctx, username, password)
		if loginErr != nil {
			logger.ErrorContext(ctx, "proactive re-login failed", "error", loginErr)
			return "", "", "", ErrNoSession
		}
		if err := m.persistSession(ctx, result); err != nil {
			return "", "", "", err
		}
		token = result.Token
	}

	return token, username, password, nil
}

// relogin performs a single silent login and persists the result.
func (m *Manager) relogin(ctx context.Context, username, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := m.backend.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	if err := m.persistSession(ctx, result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// ObtainSession is the best-effort variant used for passive session recovery
// such as an app returning to the foreground. It invalidates the token when
// it aged past the TTL or the backend no longer recognizes it, then attempts
// one silent re-login if credentials exist. All failures are swallowed; the
// result is empty when no session could be recovered.
func (m *Manager) ObtainSession(ctx context.Context) string {
	if m == nil {
		return ""
	}

	logger := m.loggerWith(ctx, "ObtainSession")

	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.loadToken(ctx)
	if err != nil {
		logger.WarnContext(ctx, "cannot read persisted session", "error", err)
		token = ""
	}
	if token == GuestToken {
		return token
	}

	if token != "" {
		if age, known := m.sessionAge(ctx); known && age >= m.ttl {
			logger.InfoContext(ctx, "session aged past TTL", "age", age)
			token = ""
		} else if !m.backend.IsAlive(ctx, token) {
			logger.InfoContext(ctx, "backend no longer recognizes session")
			token = ""
		}
	}

	if token != "" {
		return token
	}

	username, password, ok, err := m.loadCredentials(ctx)
	if err != nil || !ok {
		return ""
	}

	result, err := m.backend.Login(ctx, username, password)
	if err != nil {
		logger.WarnContext(ctx, "silent re-login failed", "error", err)
		return ""
	}
	if err := m.persistSession(ctx, result); err != nil {
		logger.WarnContext(ctx, "cannot persist recovered session", "error", err)
		return ""
	}

	logger.InfoContext(ctx, "session recovered")
	return result.Token
}

// ForgetSession logs out of the backend on a best-effort basis, removes the
// session and credentials, wipes all remaining local state except the
// analytics opt-in, and cancels scheduled notifications.
func (m *Manager) ForgetSession(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("session: Manager is nil")
	}

	logger := m.loggerWith(ctx, "ForgetSession")

	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.loadToken(ctx)
	if err != nil {
		logger.WarnContext(ctx, "cannot read persisted session", "error", err)
	} else if token != "" && token != GuestToken {
		if !m.backend.Logout(ctx, token) {
			logger.WarnContext(ctx, "backend logout not confirmed")
		}
	}

	for _, key := range []string{store.KeySession, store.KeyUsername, store.KeyPassword} {
		if err := m.secrets.Delete(ctx, key); err != nil {
			return err
		}
	}

	if wiper, ok := m.secrets.(store.Wiper); ok {
		if err := wiper.Wipe(ctx, store.KeyAnalytics); err != nil {
			return err
		}
	} else {
		keys := []string{store.KeySessionCreated, store.KeyIsStudent, store.KeyOnboarded}
		if m.appVersion != "" {
			keys = append(keys, store.UpdatedKey(m.appVersion))
		}
		for _, key := range keys {
			if err := m.secrets.Delete(ctx, key); err != nil {
				return err
			}
		}
	}

	if m.notifier != nil {
		if err := m.notifier.CancelAll(ctx); err != nil {
			logger.WarnContext(ctx, "cannot cancel scheduled notifications", "error", err)
		}
	}

	logger.InfoContext(ctx, "session forgotten")
	return nil
}

func (m *Manager) loadToken(ctx context.Context) (string, error) {
	token, err := m.secrets.Get(ctx, store.KeySession)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (m *Manager) loadCredentials(ctx context.Context) (username, password string, ok bool, err error) {
	username, err = m.secrets.Get(ctx, store.KeyUsername)
	if errors.Is(err, store.ErrNotFound) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	password, err = m.secrets.Get(ctx, store.KeyPassword)
	if errors.Is(err, store.ErrNotFound) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return username, password, username != "" && password != "", nil
}

// sessionAge reports how long ago the session was created. The creation
// instant may be missing for sessions persisted by old app versions; those
// report as unknown and are not proactively refreshed.
func (m *Manager) sessionAge(ctx context.Context) (time.Duration, bool) {
	value, err := m.secrets.Get(ctx, store.KeySessionCreated)
	if err != nil {
		return 0, false
	}
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return m.now().Sub(time.UnixMilli(millis)), true
}
