// Package mail envía los avisos de recalculaciones programadas.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

var (
	_ ports.Notifier = (*SMTPNotifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

// Sender abstrae el envío SMTP (gomail.Dialer en producción).
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier implementa ports.Notifier con gomail.
type SMTPNotifier struct {
	sender Sender
	from   string
	log    *logger.Logger
}

// NewSMTPNotifier construye el notificador a partir de la configuración SMTP.
func NewSMTPNotifier(cfg config.MailConfig, log *logger.Logger) *SMTPNotifier {
	return NewSMTPNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, log)
}

// NewSMTPNotifierWithSender permite inyectar el emisor (pruebas).
func NewSMTPNotifierWithSender(sender Sender, from string, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, log: logger.OrNop(log).Component("mail")}
}

// Notify envía el correo; sin destinatarios no hace nada.
func (n *SMTPNotifier) Notify(_ context.Context, msg ports.Notification) error {
	if len(msg.To) == 0 {
		return nil
	}
	n.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("enviando aviso")
	if err := n.sender.DialAndSend(buildMessage(n.from, msg)); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}

func buildMessage(from string, msg ports.Notification) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if len(msg.Attachment) > 0 {
		data := msg.Attachment
		m.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(data))
			return err
		}))
	}
	return m
}

// LogNotifier registra el aviso en el log cuando no hay SMTP configurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de respaldo.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: logger.OrNop(log).Component("mail")}
}

func (n *LogNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).
		Int("attachment_bytes", len(msg.Attachment)).Msg("aviso sin SMTP configurado")
	return nil
}
