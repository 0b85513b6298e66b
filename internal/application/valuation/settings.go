package valuation

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

// Settings valores por defecto de valoración (de la configuración de la app).
type Settings struct {
	Precision                 inventory.Precision
	DefaultShortagePolicy     string
	DefaultLocationValidation bool
	QueueReadLimit            int
}

// DefaultSettings política error, validación activa, máximo 1000 capas por lectura.
func DefaultSettings() Settings {
	return Settings{
		Precision:                 inventory.DefaultPrecision(),
		DefaultShortagePolicy:     entity.ShortagePolicyError,
		DefaultLocationValidation: true,
		QueueReadLimit:            1000,
	}
}

// Policy parámetros vigentes en el momento de la llamada.
type Policy struct {
	ShortagePolicy    string
	ValidateLocations bool
}

// Fallback indica si la política de faltante es fallback.
func (p Policy) Fallback() bool { return p.ShortagePolicy == entity.ShortagePolicyFallback }

// ReadPolicy lee los parámetros en cada llamada; valores ausentes o inválidos usan los por defecto.
func ReadPolicy(ctx context.Context, configs repository.ConfigRepository, s Settings) (Policy, error) {
	p := Policy{ShortagePolicy: s.DefaultShortagePolicy, ValidateLocations: s.DefaultLocationValidation}
	if configs == nil {
		return p, nil
	}
	if v, ok, err := configs.GetParam(ctx, entity.ParamShortagePolicy); err != nil {
		return p, err
	} else if ok {
		switch v = strings.ToLower(strings.TrimSpace(v)); v {
		case entity.ShortagePolicyError, entity.ShortagePolicyFallback:
			p.ShortagePolicy = v
		}
	}
	if v, ok, err := configs.GetParam(ctx, entity.ParamEnableLocationValidation); err != nil {
		return p, err
	} else if ok {
		if b, perr := strconv.ParseBool(strings.TrimSpace(v)); perr == nil {
			p.ValidateLocations = b
		}
	}
	return p, nil
}
