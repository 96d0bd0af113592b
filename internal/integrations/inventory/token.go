package inventory

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// tokenHolder guards the process-wide access token. Concurrent refreshes are
// collapsed into one via singleflight so a burst of 401s triggers a single
// refresh; late callers re-read the token the in-flight refresh produced.
type tokenHolder struct {
	mu    sync.RWMutex
	value string
	group singleflight.Group
}

func newTokenHolder(initial string) *tokenHolder {
	return &tokenHolder{value: initial}
}

// current returns the token as of now.
func (h *tokenHolder) current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value
}

// refresh obtains a new token via fn, storing and returning it. Callers that
// arrive while a refresh is in flight share its result.
func (h *tokenHolder) refresh(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	value, err, _ := h.group.Do("refresh", func() (any, error) {
		token, err := fn(ctx)
		if err != nil {
			return "", err
		}
		h.mu.Lock()
		h.value = token
		h.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}
