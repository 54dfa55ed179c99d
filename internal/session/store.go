// Package session persists the authentication flags the app reads at startup:
// the onboarding-completed marker, the serialized user, and the token.
package session

import (
	"context"
	"errors"
)

// Persisted keys. Values are strings; the user record is serialized JSON.
const (
	KeyOnboardingCompleted = "onboardingCompleted"
	KeyUser                = "user"
	KeyToken               = "token"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("session: key not found")

// KV is the durable key-value backend under the session store. FileKV is the
// default; RedisKV serves hosted deployments.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
