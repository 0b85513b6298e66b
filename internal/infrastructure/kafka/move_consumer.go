// Package kafka consume el feed de movimientos de stock y los valora.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// MoveHandler valora un movimiento recibido (valuation.MoveUseCase).
type MoveHandler interface {
	Handle(ctx context.Context, companyID string, in dto.MoveRequest) error
}

// Reader subconjunto de *kafka.Reader usado por el consumidor.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventRecorder cuenta eventos por resultado (ok, skipped, failed).
type EventRecorder interface {
	EventConsumed(status string)
}

// moveEvent mensaje del feed: el movimiento más la empresa.
type moveEvent struct {
	CompanyID string `json:"company_id"`
	dto.MoveRequest
}

// MoveConsumer lee movimientos y los entrega al handler, un mensaje a la vez (orden de partición).
type MoveConsumer struct {
	reader    Reader
	handler   MoveHandler
	validate  *validator.Validate
	companyID string
	recorder  EventRecorder
	backoff   time.Duration
	log       *logger.Logger
}

// NewReader lector con grupo de consumo para el topic de movimientos.
func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0,
	})
}

// NewMoveConsumer construye el consumidor. companyID se usa cuando el mensaje no trae empresa.
func NewMoveConsumer(reader Reader, handler MoveHandler, companyID string, recorder EventRecorder, log *logger.Logger) *MoveConsumer {
	return &MoveConsumer{
		reader:    reader,
		handler:   handler,
		validate:  validator.New(),
		companyID: companyID,
		recorder:  recorder,
		backoff:   2 * time.Second,
		log:       logger.OrNop(log).Component("move_consumer"),
	}
}

// Run consume hasta que ctx se cancele.
func (c *MoveConsumer) Run(ctx context.Context) error {
	c.log.Info().Msg("consumidor de movimientos iniciado")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info().Msg("consumidor de movimientos detenido")
				return nil
			}
			c.log.Error().Err(err).Msg("error leyendo mensaje")
			if !c.sleep(ctx) {
				return nil
			}
			continue
		}

		if err := c.process(ctx, msg); err != nil {
			// error transitorio y ctx cancelado: el mensaje queda sin confirmar
			return nil
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Error().Err(err).Int64("offset", msg.Offset).Msg("error confirmando mensaje")
		}
	}
}

// process entrega el mensaje al handler. Los errores de negocio se registran y el mensaje se
// confirma; los de infraestructura se reintentan hasta que ctx se cancele.
func (c *MoveConsumer) process(ctx context.Context, msg kafka.Message) error {
	ev, err := c.decode(msg)
	if err != nil {
		c.log.Warn().Err(err).Int64("offset", msg.Offset).Msg("mensaje descartado")
		c.record("skipped")
		return nil
	}
	log := c.log.With("move_id", ev.ID)
	for {
		err := c.handler.Handle(ctx, ev.CompanyID, ev.MoveRequest)
		switch {
		case err == nil:
			c.record("ok")
			return nil
		case permanent(err):
			log.Warn().Err(err).Msg("movimiento rechazado")
			c.record("skipped")
			return nil
		}
		log.Error().Err(err).Msg("error valorando movimiento; se reintenta")
		c.record("failed")
		if !c.sleep(ctx) {
			return ctx.Err()
		}
	}
}

func (c *MoveConsumer) decode(msg kafka.Message) (*moveEvent, error) {
	var ev moveEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return nil, fmt.Errorf("json inválido: %w", err)
	}
	if ev.CompanyID == "" {
		for _, h := range msg.Headers {
			if h.Key == "company_id" {
				ev.CompanyID = string(h.Value)
			}
		}
	}
	if ev.CompanyID == "" {
		ev.CompanyID = c.companyID
	}
	if ev.CompanyID == "" {
		return nil, fmt.Errorf("%w: mensaje sin company_id", domain.ErrInvalidInput)
	}
	if err := c.validate.Struct(ev.MoveRequest); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &ev, nil
}

func permanent(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrDuplicate, domain.ErrConflict,
		domain.ErrInsufficientFIFO, domain.ErrMissingWarehouse, domain.ErrMissingCost, domain.ErrLocked,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (c *MoveConsumer) record(status string) {
	if c.recorder != nil {
		c.recorder.EventConsumed(status)
	}
}

func (c *MoveConsumer) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Close cierra el lector.
func (c *MoveConsumer) Close() error {
	return c.reader.Close()
}
