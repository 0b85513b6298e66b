package http

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
)

func TestStatusFor_ErroresDeConcurrencia(t *testing.T) {
	status, code := statusFor(fmt.Errorf("consumir cola: %w", domain.ErrLockTimeout))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "LOCK_TIMEOUT", code)

	status, code = statusFor(fmt.Errorf("aplicar: %w", domain.ErrConcurrentUpdate))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONCURRENT_UPDATE", code)
}
