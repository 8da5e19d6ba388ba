// Package api implements the stateless client for the legacy campus
// webservice. Every operation multiplexes through a single form-encoded POST
// endpoint; the client knows nothing about sessions beyond passing tokens
// through. Backend failures are classified here, never recovered.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/logging"
)

// DefaultTimeout bounds every backend request. The legacy service imposes no
// timeout of its own.
const DefaultTimeout = 30 * time.Second

// StatusOK is the literal status string the session service returns for
// healthy sessions and clean logouts.
const StatusOK = "STATUS_OK"

// studentRoleCode is the role the backend assigns to student accounts in the
// login payload.
const studentRoleCode = 3

// Client issues raw calls against the campus webservice.
type Client struct {
	endpoint  string
	apiKey    string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// NewClient constructs a client for the given endpoint. A non-positive
// timeout falls back to DefaultTimeout.
func NewClient(endpoint, apiKey, userAgent string, timeout time.Duration) *Client {
	return NewClientWithLogger(endpoint, apiKey, userAgent, timeout, nil)
}

// NewClientWithLogger constructs a client with a specified logger.
func NewClientWithLogger(endpoint, apiKey, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = "neuland.app-native-sub000"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:  endpoint,
		apiKey:    apiKey,
		userAgent: userAgent,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// Envelope is the normalized backend response. The service has two historical
// envelope shapes, {status,data} and {data:[status,payload]}; both are folded
// into this form at the transport boundary so call sites only check one.
type Envelope struct {
	Status int
	Data   json.RawMessage
}

// LoginResult is the outcome of a successful session open call.
type LoginResult struct {
	Token     string
	IsStudent bool
}

// Request issues a form-encoded POST with the fixed API key header and
// returns the normalized envelope. A non-zero backend status yields an
// *APIError; an undecodable body yields a *ParseError.
func (c *Client) Request(ctx context.Context, params map[string]string) (Envelope, error) {
	logger := c.requestLogger(ctx, params)

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Envelope{}, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "backend request failed", "error", err)
		return Envelope{}, fmt.Errorf("api: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.ErrorContext(ctx, "backend response unreadable", "error", err)
		return Envelope{}, fmt.Errorf("api: read response: %w", err)
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		logger.ErrorContext(ctx, "backend response undecodable", "error", err)
		return Envelope{}, err
	}

	if envelope.Status != 0 {
		apiErr := &APIError{Status: envelope.Status, Data: envelope.Data}
		logger.WarnContext(ctx, "backend reported failure", "status", envelope.Status, "message", apiErr.Message())
		return Envelope{}, apiErr
	}

	logger.DebugContext(ctx, "backend request succeeded")
	return envelope, nil
}

func (c *Client) requestLogger(ctx context.Context, params map[string]string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = c.logger
	}
	return logger.With(
		"request_id", uuid.NewString(),
		"service", params["service"],
		"method", params["method"],
	)
}

// decodeEnvelope folds both historical response shapes into one Envelope.
func decodeEnvelope(body []byte) (Envelope, error) {
	var raw struct {
		Status *int            `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, &ParseError{Raw: string(body), Err: err}
	}

	if raw.Status != nil {
		return Envelope{Status: *raw.Status, Data: raw.Data}, nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(raw.Data, &pair); err != nil || len(pair) == 0 {
		return Envelope{}, &ParseError{Raw: string(body), Err: err}
	}

	var status int
	if err := json.Unmarshal(pair[0], &status); err != nil {
		return Envelope{}, &ParseError{Raw: string(body), Err: err}
	}

	var payload json.RawMessage
	if len(pair) > 1 {
		payload = pair[1]
	}
	return Envelope{Status: status, Data: payload}, nil
}

// Login opens a backend session. The payload is a tri-element array of
// session token, an unused field, and a numeric role code; student accounts
// carry role code 3.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	envelope, err := c.Request(ctx, map[string]string{
		"service":  "session",
		"method":   "open",
		"format":   "json",
		"username": username,
		"passwd":   password,
	})
	if err != nil {
		return LoginResult{}, err
	}

	var payload []json.RawMessage
	if err := json.Unmarshal(envelope.Data, &payload); err != nil || len(payload) < 3 {
		return LoginResult{}, &ParseError{Raw: string(envelope.Data), Err: err}
	}

	var token string
	if err := json.Unmarshal(payload[0], &token); err != nil {
		return LoginResult{}, fmt.Errorf("api: session token is not a string: %s", payload[0])
	}

	var role int
	if err := json.Unmarshal(payload[2], &role); err != nil {
		return LoginResult{}, &ParseError{Raw: string(envelope.Data), Err: err}
	}

	return LoginResult{Token: token, IsStudent: role == studentRoleCode}, nil
}

// IsAlive reports whether the backend still accepts the session token. An
// empty token is dead by definition; transport and backend failures are
// treated as not alive.
func (c *Client) IsAlive(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	envelope, err := c.Request(ctx, map[string]string{
		"service": "session",
		"method":  "isalive",
		"format":  "json",
		"session": token,
	})
	if err != nil {
		return false
	}
	var status string
	if err := json.Unmarshal(envelope.Data, &status); err != nil {
		return false
	}
	return status == StatusOK
}

// Logout closes the backend session, reporting whether the backend confirmed
// the close.
func (c *Client) Logout(ctx context.Context, token string) bool {
	envelope, err := c.Request(ctx, map[string]string{
		"service": "session",
		"method":  "close",
		"format":  "json",
		"session": token,
	})
	if err != nil {
		return false
	}
	var status string
	if err := json.Unmarshal(envelope.Data, &status); err != nil {
		// The close call reports through the same tri-state array as other
		// session methods on some backend versions.
		var pair []string
		if err := json.Unmarshal(envelope.Data, &pair); err != nil || len(pair) == 0 {
			return false
		}
		status = pair[0]
	}
	return status == StatusOK
}
