package session

import "errors"

var (
	// ErrNoSession is returned when no usable session exists and no silent
	// re-login is possible. Callers must redirect to the login flow.
	ErrNoSession = errors.New("session: no usable session")
	// ErrUnavailableSession is returned when the user intentionally has no
	// real session (guest) or is not eligible for silent refresh. Callers
	// must present a feature-unavailable path, not a login redirect.
	ErrUnavailableSession = errors.New("session: session unavailable for this operation")
)
