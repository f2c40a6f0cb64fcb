package mailing

import (
	"context"
	"io"
	"strconv"

	"foodgram-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	MailConfig struct {
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Attachment struct {
		FileName    string
		ContentType string
		Data        []byte
	}

	Mailer interface {
		SendMail(ctx context.Context, toEmail string, subject string, body string, attachments ...Attachment) error
	}

	mailer struct {
		config MailConfig
		dial   func(MailConfig) (gomail.SendCloser, error)
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func NewMailer(config MailConfig) Mailer {
	return &mailer{config: config, dial: dialSMTP}
}

func dialSMTP(config MailConfig) (gomail.SendCloser, error) {
	port, err := strconv.Atoi(config.SMTPPort)
	if err != nil {
		return nil, err
	}
	dialer := gomail.NewDialer(
		config.SMTPHost,
		port,
		config.SMTPEmail,
		config.SMTPPassword,
	)
	return dialer.Dial()
}

func (m *mailer) newMessage(toEmail, subject, body string, attachments []Attachment) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	for _, a := range attachments {
		data := a.Data
		msg.Attach(a.FileName,
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return msg
}

func (m *mailer) SendMail(ctx context.Context, toEmail string, subject string, body string, attachments ...Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sender, err := m.dial(m.config)
	if err != nil {
		return err
	}
	defer sender.Close()

	return gomail.Send(sender, m.newMessage(toEmail, subject, body, attachments))
}
