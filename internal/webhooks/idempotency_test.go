package webhooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdempotencyStore struct {
	keys map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return f.keys[key], nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.keys[key]; exists {
		return false, nil
	}
	f.keys[key] = "1"
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "vt:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
	}
	return nil
}

func TestIdempotencyGuardMarksOnce(t *testing.T) {
	guard, err := NewIdempotencyGuard(newFakeIdempotencyStore(), time.Minute, "webhook:paypal")
	require.NoError(t, err)
	ctx := context.Background()

	duplicate, err := guard.CheckAndMark(ctx, "WH-1")
	require.NoError(t, err)
	assert.False(t, duplicate)

	duplicate, err = guard.CheckAndMark(ctx, "WH-1")
	require.NoError(t, err)
	assert.True(t, duplicate)
}

func TestIdempotencyGuardDeleteReleasesClaim(t *testing.T) {
	guard, err := NewIdempotencyGuard(newFakeIdempotencyStore(), time.Minute, "webhook:paypal")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = guard.CheckAndMark(ctx, "WH-1")
	require.NoError(t, err)
	require.NoError(t, guard.Delete(ctx, "WH-1"))

	duplicate, err := guard.CheckAndMark(ctx, "WH-1")
	require.NoError(t, err)
	assert.False(t, duplicate)
}

func TestIdempotencyGuardValidation(t *testing.T) {
	_, err := NewIdempotencyGuard(nil, time.Minute, "webhook:paypal")
	require.Error(t, err)

	_, err = NewIdempotencyGuard(newFakeIdempotencyStore(), time.Minute, "")
	require.Error(t, err)

	guard, err := NewIdempotencyGuard(newFakeIdempotencyStore(), time.Minute, "webhook:paypal")
	require.NoError(t, err)
	_, err = guard.CheckAndMark(context.Background(), "")
	require.Error(t, err)
}
