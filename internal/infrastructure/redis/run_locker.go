// Package redis candado distribuido de ejecuciones de recalculación (redislock sobre go-redis).
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

const keyPrefix = "fifo:"

var _ ports.RunLocker = (*RunLocker)(nil)

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RunLocker implementa ports.RunLocker.
type RunLocker struct {
	locker *redislock.Client
	log    *logger.Logger
}

// NewRunLocker construye el candado sobre un cliente ya conectado.
func NewRunLocker(client redislock.RedisClient, log *logger.Logger) *RunLocker {
	return &RunLocker{locker: redislock.New(client), log: logger.OrNop(log).Component("run_lock")}
}

// Acquire toma la llave sin reintentos; si otro proceso la tiene devuelve domain.ErrRunInProgress.
func (l *RunLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, keyPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrRunInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", key, err)
	}
	l.log.Debug().Str("key", key).Dur("ttl", ttl).Msg("candado obtenido")
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// venció el TTL antes de terminar
			l.log.Warn().Str("key", key).Msg("candado ya no estaba tomado al liberar")
			return nil
		}
		return err
	}, nil
}
