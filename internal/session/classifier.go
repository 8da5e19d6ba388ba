package session

import (
	"errors"
	"regexp"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/api"
)

// Kind labels the failure categories relevant to the retry policy.
type Kind int

const (
	// KindTransportError covers network failures, undecodable responses,
	// and everything else that is neither a backend status nor an expired
	// session.
	KindTransportError Kind = iota
	// KindBackendError covers explicit non-zero backend statuses.
	KindBackendError
	// KindSessionExpired covers failures the backend attributes to a dead
	// session. Only these are retried, exactly once.
	KindSessionExpired
)

// ErrorClassifier decides which failure category an error belongs to. The
// matching rule is isolated here so it stays testable and swappable without
// touching the retry logic.
type ErrorClassifier interface {
	Classify(err error) Kind
}

// sessionPattern matches the arbitrary human readable strings the backend
// uses to signal session expiry; there is no status code for it. False
// negatives are tolerated, they surface as ordinary errors.
var sessionPattern = regexp.MustCompile(`(?i)session`)

// PatternClassifier is the default ErrorClassifier.
type PatternClassifier struct{}

// Classify implements ErrorClassifier.
func (PatternClassifier) Classify(err error) Kind {
	if err == nil {
		return KindTransportError
	}
	if sessionPattern.MatchString(err.Error()) {
		return KindSessionExpired
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return KindBackendError
	}
	return KindTransportError
}
