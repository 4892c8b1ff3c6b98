package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"botdemo/internal/model"
)

const keyPrefix = "botdemo:pref:"

// Store persists per-visitor preferences.
type Store interface {
	Language(ctx context.Context, visitorID string) (string, bool, error)
	SetLanguage(ctx context.Context, visitorID, lang string) error
	Consent(ctx context.Context, visitorID string) (model.Consent, bool, error)
	SetConsent(ctx context.Context, visitorID string, consent model.Consent) error
}

// RedisStore keeps preferences in Redis with a sliding TTL: every read or
// write of a key restarts its expiry.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a store on client. A zero ttl keeps keys forever.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func languageKey(visitorID string) string { return keyPrefix + visitorID + ":language" }

func consentKey(visitorID string) string { return keyPrefix + visitorID + ":consent" }

// get reads key and refreshes its expiry when a ttl is configured.
func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	if s.ttl > 0 {
		return s.client.GetEx(ctx, key, s.ttl).Result()
	}
	return s.client.Get(ctx, key).Result()
}

// Language returns the visitor's saved language; false if none is stored.
func (s *RedisStore) Language(ctx context.Context, visitorID string) (string, bool, error) {
	lang, err := s.get(ctx, languageKey(visitorID))
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("preferences: get language: %w", err)
	}
	return lang, true, nil
}

// SetLanguage saves the visitor's language.
func (s *RedisStore) SetLanguage(ctx context.Context, visitorID, lang string) error {
	if err := s.client.Set(ctx, languageKey(visitorID), lang, s.ttl).Err(); err != nil {
		return fmt.Errorf("preferences: set language: %w", err)
	}
	return nil
}

// Consent returns the visitor's recorded cookie consent; false if none is stored.
func (s *RedisStore) Consent(ctx context.Context, visitorID string) (model.Consent, bool, error) {
	raw, err := s.get(ctx, consentKey(visitorID))
	if errors.Is(err, redis.Nil) {
		return model.Consent{}, false, nil
	}
	if err != nil {
		return model.Consent{}, false, fmt.Errorf("preferences: get consent: %w", err)
	}
	var c model.Consent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return model.Consent{}, false, fmt.Errorf("preferences: decode consent: %w", err)
	}
	return c, true, nil
}

// SetConsent saves the visitor's cookie consent as JSON.
func (s *RedisStore) SetConsent(ctx context.Context, visitorID string, consent model.Consent) error {
	raw, err := json.Marshal(consent)
	if err != nil {
		return fmt.Errorf("preferences: encode consent: %w", err)
	}
	if err := s.client.Set(ctx, consentKey(visitorID), string(raw), s.ttl).Err(); err != nil {
		return fmt.Errorf("preferences: set consent: %w", err)
	}
	return nil
}
