package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
)

// Códigos SQLSTATE que Run trata de forma especial.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03" // lock_timeout o NOWAIT
)

// RetryPolicy reintentos de una transacción abortada por serialización o deadlock.
type RetryPolicy struct {
	Attempts int // intentos totales, incluido el primero
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetryPolicy 4 intentos con espera 50ms, 100ms, 200ms (tope 1s).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 4, Base: 50 * time.Millisecond, Max: time.Second}
}

// backoff espera antes del reintento n (0 = primer reintento): Base × 2^n, acotado por Max.
func (p RetryPolicy) backoff(n int) time.Duration {
	wait := p.Base
	for i := 0; i < n && wait < p.Max; i++ {
		wait *= 2
	}
	if p.Max > 0 && wait > p.Max {
		return p.Max
	}
	return wait
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// retryable serialización o deadlock: la transacción completa puede repetirse.
func retryable(err error) bool {
	switch sqlState(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// translate lleva los errores de concurrencia de PostgreSQL a errores de dominio.
func translate(err error) error {
	switch sqlState(err) {
	case codeLockNotAvailable:
		return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %w", domain.ErrConcurrentUpdate, err)
	}
	return err
}

// withRetry ejecuta once hasta que termine sin error reintentable o se agoten los intentos.
func withRetry(ctx context.Context, p RetryPolicy, once func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for n := 0; n < attempts; n++ {
		if n > 0 {
			t := time.NewTimer(p.backoff(n - 1))
			select {
			case <-ctx.Done():
				t.Stop()
				return fmt.Errorf("%w (último error: %w)", ctx.Err(), translate(err))
			case <-t.C:
			}
		}
		if err = once(); err == nil || !retryable(err) {
			break
		}
	}
	if err == nil {
		return nil
	}
	return translate(err)
}
