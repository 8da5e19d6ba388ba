package session

import "context"

// maxAttempts bounds every retried operation: the initial call plus exactly
// one retry. The backend has no exponential backoff semantics.
const maxAttempts = 2

// withRetry runs op up to maxAttempts times. After a failed attempt,
// shouldRetry is consulted: returning nil permits another attempt, returning
// an error stops the loop with that error. The attempt bound is enforced
// structurally rather than by call-site control flow.
func withRetry(ctx context.Context, shouldRetry func(ctx context.Context, err error) error, op func(ctx context.Context) (any, error)) (any, error) {
	var result any
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt == maxAttempts {
			break
		}
		if stop := shouldRetry(ctx, err); stop != nil {
			return nil, stop
		}
	}
	return nil, err
}
