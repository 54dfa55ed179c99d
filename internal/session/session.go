package session

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/common/logger"
	"plania-client/internal/models"
)

// Store reads and writes the persisted session on top of a KV backend.
type Store struct {
	kv  KV
	log logger.Logger
}

func NewStore(kv KV, log logger.Logger) *Store {
	return &Store{kv: kv, log: log.WithFields(map[string]interface{}{"component": "session"})}
}

// Load reads the persisted session. Any read or parse error degrades to an
// unauthenticated, not-loading state; storage failures never reach the user.
func (s *Store) Load(ctx context.Context) models.Session {
	raw, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("failed to read persisted user, starting unauthenticated", map[string]interface{}{"error": err.Error()})
		}
		return models.Session{IsAuthenticated: false, Loading: false}
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn("corrupt persisted user, starting unauthenticated", map[string]interface{}{"error": err.Error()})
		return models.Session{IsAuthenticated: false, Loading: false}
	}

	// FlexBool already normalized the setup flag during decode.
	if token, err := s.kv.Get(ctx, KeyToken); err == nil && user.Token == "" {
		user.Token = token
	}

	return models.Session{IsAuthenticated: true, User: &user, Loading: false}
}

// Save persists the user and token. The setup flag is re-normalized through
// FlexBool on marshal, so the raw heterogeneous value is never stored.
func (s *Store) Save(ctx context.Context, user *models.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return apperrors.NewStorageError("marshal user", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(raw)); err != nil {
		return apperrors.NewStorageError("write user", err)
	}
	if token != "" {
		if err := s.kv.Set(ctx, KeyToken, token); err != nil {
			return apperrors.NewStorageError("write token", err)
		}
	}
	return nil
}

// Clear removes the user and token keys. The first failure is surfaced so
// the caller can retry the whole operation.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyUser); err != nil {
		return apperrors.NewStorageError("delete user", err)
	}
	if err := s.kv.Delete(ctx, KeyToken); err != nil {
		return apperrors.NewStorageError("delete token", err)
	}
	return nil
}

// SetOnboardingCompleted writes the one-way onboarding flag. Idempotent.
func (s *Store) SetOnboardingCompleted(ctx context.Context) error {
	if err := s.kv.Set(ctx, KeyOnboardingCompleted, "true"); err != nil {
		return apperrors.NewStorageError("write onboarding flag", err)
	}
	return nil
}

// OnboardingCompleted reports whether onboarding has been finished on this
// install. Read errors degrade to false (onboarding shows again).
func (s *Store) OnboardingCompleted(ctx context.Context) bool {
	value, err := s.kv.Get(ctx, KeyOnboardingCompleted)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("failed to read onboarding flag", map[string]interface{}{"error": err.Error()})
		}
		return false
	}
	return value == "true"
}
