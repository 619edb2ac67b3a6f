package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/stretchr/testify/assert"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	s, err := NewRedisStore(&config.SessionRedisConfig{
		ClusterType: cnst.RedisClusterTypeSingle,
		Addr:        mr.Addr(),
		TTL:         time.Hour,
	})
	if err != nil {
		mr.Close()
		t.Fatalf("failed to create RedisStore: %v", err)
	}
	return s, mr
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	s, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "sid", cnst.KeyToken, "tok"))
	assert.NoError(t, s.Set(ctx, "sid", cnst.KeyTenant, "acme"))

	v, err := s.Get(ctx, "sid", cnst.KeyToken)
	assert.NoError(t, err)
	assert.Equal(t, "tok", v)

	assert.NoError(t, s.Delete(ctx, "sid", cnst.KeyToken))
	_, err = s.Get(ctx, "sid", cnst.KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// other keys untouched
	v, err = s.Get(ctx, "sid", cnst.KeyTenant)
	assert.NoError(t, err)
	assert.Equal(t, "acme", v)
}

func TestRedisStore_Clear(t *testing.T) {
	s, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "sid", cnst.KeyToken, "tok"))
	assert.NoError(t, s.Set(ctx, "sid", cnst.KeyPendingPlan, "pro"))
	assert.NoError(t, s.Clear(ctx, "sid"))

	_, err := s.Get(ctx, "sid", cnst.KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = s.Get(ctx, "sid", cnst.KeyPendingPlan)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStore_SessionsAreIsolated(t *testing.T) {
	s, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "a", cnst.KeyToken, "tok-a"))
	assert.NoError(t, s.Set(ctx, "b", cnst.KeyToken, "tok-b"))

	v, err := s.Get(ctx, "a", cnst.KeyToken)
	assert.NoError(t, err)
	assert.Equal(t, "tok-a", v)

	assert.NoError(t, s.Clear(ctx, "a"))
	v, err = s.Get(ctx, "b", cnst.KeyToken)
	assert.NoError(t, err)
	assert.Equal(t, "tok-b", v)
}
