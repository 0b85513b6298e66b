package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
)

var validate = validator.New()

var errInvalidBody = fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)

// parseBody decodifica y valida el cuerpo de la petición.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
	}
	return "campos inválidos: " + strings.Join(fields, ", ")
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var shortage *domain.ShortageError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusConflict).JSON(dto.ShortageErrorResponse{
			Code:        "FIFO_SHORTAGE",
			Message:     err.Error(),
			ProductID:   shortage.ProductID,
			WarehouseID: shortage.WarehouseID,
			Requested:   shortage.Requested,
			Available:   shortage.Available,
			Missing:     shortage.Missing(),
		})
	}
	status, code := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, "INVALID_BODY"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidBatchSize):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientFIFO):
		return fiber.StatusConflict, "FIFO_SHORTAGE"
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict, "INVALID_STATE"
	case errors.Is(err, domain.ErrDryRun):
		return fiber.StatusConflict, "DRY_RUN"
	case errors.Is(err, domain.ErrBackupNotActive):
		return fiber.StatusConflict, "BACKUP_NOT_ACTIVE"
	case errors.Is(err, domain.ErrLocked):
		return fiber.StatusConflict, "LAYER_LOCKED"
	case errors.Is(err, domain.ErrLockTimeout):
		return fiber.StatusConflict, "LOCK_TIMEOUT"
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return fiber.StatusConflict, "CONCURRENT_UPDATE"
	case errors.Is(err, domain.ErrRunInProgress):
		return fiber.StatusConflict, "RUN_IN_PROGRESS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrMissingWarehouse):
		return fiber.StatusUnprocessableEntity, "MISSING_WAREHOUSE"
	case errors.Is(err, domain.ErrMissingCost):
		return fiber.StatusUnprocessableEntity, "MISSING_COST"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}
