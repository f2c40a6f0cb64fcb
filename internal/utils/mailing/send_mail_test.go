package mailing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	from   string
	to     []string
	body   bytes.Buffer
	closed bool
}

func (s *recordingSender) Send(from string, to []string, msg io.WriterTo) error {
	s.from = from
	s.to = to
	_, err := msg.WriteTo(&s.body)
	return err
}

func (s *recordingSender) Close() error {
	s.closed = true
	return nil
}

func TestSendMailWithAttachment(t *testing.T) {
	sender := &recordingSender{}
	m := &mailer{
		config: MailConfig{SMTPEmail: "noreply@foodgram.test", SMTPSender: "Foodgram"},
		dial:   func(MailConfig) (gomail.SendCloser, error) { return sender, nil },
	}

	err := m.SendMail(context.Background(), "cook@foodgram.test", "Shopping list", "<p>attached</p>", Attachment{
		FileName:    "shopping_cart.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3"),
	})
	require.NoError(t, err)

	assert.Equal(t, "noreply@foodgram.test", sender.from)
	assert.Equal(t, []string{"cook@foodgram.test"}, sender.to)
	assert.Contains(t, sender.body.String(), `filename="shopping_cart.pdf"`)
	assert.True(t, sender.closed)
}

func TestSendMailDialError(t *testing.T) {
	dialErr := errors.New("connection refused")
	m := &mailer{dial: func(MailConfig) (gomail.SendCloser, error) { return nil, dialErr }}

	err := m.SendMail(context.Background(), "cook@foodgram.test", "s", "b")
	assert.ErrorIs(t, err, dialErr)
}

func TestSendMailCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &mailer{dial: func(MailConfig) (gomail.SendCloser, error) {
		t.Fatal("dial must not be called")
		return nil, nil
	}}
	assert.ErrorIs(t, m.SendMail(ctx, "a@b.c", "s", "b"), context.Canceled)
}
