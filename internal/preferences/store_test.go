package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botdemo/internal/model"
)

const visitor = "3f1c2a9e-8d7b-4c6a-9e5f-1a2b3c4d5e6f"

func TestRedisStore_Language(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Hour)

	mock.ExpectGetEx(languageKey(visitor), time.Hour).RedisNil()
	_, ok, err := store.Language(ctx, visitor)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSet(languageKey(visitor), "es", time.Hour).SetVal("OK")
	require.NoError(t, store.SetLanguage(ctx, visitor, "es"))

	mock.ExpectGetEx(languageKey(visitor), time.Hour).SetVal("es")
	lang, ok, err := store.Language(ctx, visitor)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "es", lang)

	mock.ExpectGetEx(languageKey(visitor), time.Hour).SetErr(errors.New("connection refused"))
	_, _, err = store.Language(ctx, visitor)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Consent(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, 0)

	consent := model.Consent{
		Necessary: true,
		Analytics: true,
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(consent)
	require.NoError(t, err)

	mock.ExpectSet(consentKey(visitor), string(raw), 0).SetVal("OK")
	require.NoError(t, store.SetConsent(ctx, visitor, consent))

	mock.ExpectGet(consentKey(visitor)).SetVal(string(raw))
	got, ok, err := store.Consent(ctx, visitor)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, consent, got)

	mock.ExpectGet(consentKey(visitor)).RedisNil()
	_, ok, err = store.Consent(ctx, visitor)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet(consentKey(visitor)).SetVal("{broken")
	_, _, err = store.Consent(ctx, visitor)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_ReadRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, 30*time.Minute)

	consent := model.Consent{Necessary: true, Marketing: true}
	raw, err := json.Marshal(consent)
	require.NoError(t, err)

	mock.ExpectGetEx(consentKey(visitor), 30*time.Minute).SetVal(string(raw))
	got, ok, err := store.Consent(ctx, visitor)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, consent, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}
