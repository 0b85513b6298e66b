package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
)

// Requiere un Redis real: REDIS_TEST_ADDR=localhost:6379 go test ./internal/infrastructure/redis/
func newTestLocker(t *testing.T) *RunLocker {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR no definido")
	}
	rdb, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRunLocker(rdb, nil)
}

func TestRunLocker_Exclusion(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()
	key := "recal:" + uuid.NewString()

	release, err := l.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	require.NoError(t, release(ctx))

	release2, err := l.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestRunLocker_LiberarTrasVencer(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "recal:"+uuid.NewString(), 50*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(150 * time.Millisecond)
	assert.NoError(t, release(ctx))
}
