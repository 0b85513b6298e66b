package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func TestNotify_ArmaMensajeConAdjunto(t *testing.T) {
	s := &fakeSender{}
	n := NewSMTPNotifierWithSender(s, "fifo@example.com", nil)

	err := n.Notify(context.Background(), ports.Notification{
		To:             []string{"costos@example.com"},
		Subject:        "Recalculo r1",
		Body:           "Capas borradas: 5",
		AttachmentName: "recalculo_r1.xlsx",
		Attachment:     []byte("xlsx"),
	})
	require.NoError(t, err)
	require.Len(t, s.sent, 1)

	m := s.sent[0]
	assert.Equal(t, []string{"fifo@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"costos@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Recalculo r1"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "recalculo_r1.xlsx")
}

func TestNotify_SinDestinatariosNoEnvia(t *testing.T) {
	s := &fakeSender{}
	n := NewSMTPNotifierWithSender(s, "fifo@example.com", nil)
	require.NoError(t, n.Notify(context.Background(), ports.Notification{Subject: "x"}))
	assert.Empty(t, s.sent)
}

func TestNotify_ErrorDelServidor(t *testing.T) {
	s := &fakeSender{err: errors.New("535 auth")}
	n := NewSMTPNotifierWithSender(s, "fifo@example.com", nil)
	err := n.Notify(context.Background(), ports.Notification{To: []string{"a@example.com"}})
	assert.ErrorContains(t, err, "535 auth")
}

func TestLogNotifier_NoFalla(t *testing.T) {
	assert.NoError(t, NewLogNotifier(nil).Notify(context.Background(), ports.Notification{To: []string{"a@example.com"}}))
}
