package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
)

func pgErr(code string) error {
	return fmt.Errorf("fifo queue: %w", &pgconn.PgError{Code: code, Message: "falla " + code})
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, Base: time.Millisecond, Max: 4 * time.Millisecond}
}

func TestBackoff_ExponencialConTope(t *testing.T) {
	p := RetryPolicy{Attempts: 6, Base: 50 * time.Millisecond, Max: time.Second}
	assert.Equal(t, 50*time.Millisecond, p.backoff(0))
	assert.Equal(t, 100*time.Millisecond, p.backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.backoff(2))
	assert.Equal(t, 800*time.Millisecond, p.backoff(4))
	assert.Equal(t, time.Second, p.backoff(5))
	assert.Equal(t, time.Second, p.backoff(30))
}

func TestWithRetry_ReintentaSerializacionYDeadlock(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected} {
		t.Run(code, func(t *testing.T) {
			calls := 0
			err := withRetry(context.Background(), fastPolicy(4), func() error {
				calls++
				if calls < 3 {
					return pgErr(code)
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, 3, calls)
		})
	}
}

func TestWithRetry_AgotaIntentos(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastPolicy(3), func() error {
		calls++
		return pgErr(codeDeadlockDetected)
	})
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	var pe *pgconn.PgError
	assert.True(t, errors.As(err, &pe), "conserva el error original")
}

func TestWithRetry_LockTimeoutNoSeReintenta(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastPolicy(4), func() error {
		calls++
		return pgErr(codeLockNotAvailable)
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
}

func TestWithRetry_ErrorDeDominioPasaIntacto(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastPolicy(4), func() error {
		calls++
		return domain.ErrInsufficientFIFO
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, domain.ErrInsufficientFIFO, err)
}

func TestWithRetry_ContextoCanceladoCortaEspera(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, RetryPolicy{Attempts: 5, Base: time.Hour, Max: time.Hour}, func() error {
		calls++
		cancel()
		return pgErr(codeSerializationFailure)
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(pgErr(codeLockNotAvailable)), domain.ErrLockTimeout)
	assert.ErrorIs(t, translate(pgErr(codeSerializationFailure)), domain.ErrConcurrentUpdate)
	assert.False(t, retryable(pgErr("23505")))
	assert.False(t, retryable(errors.New("40001 en texto")))
	plain := errors.New("x")
	assert.Equal(t, plain, translate(plain))
}
