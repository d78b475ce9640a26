// Package email envía los mails transaccionales del servicio por SMTP.
package email

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// SMTPConfig son los parámetros de conexión al relay.
type SMTPConfig struct {
	Host               string
	Port               int
	From               string
	Username           string
	Password           string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// Mailer envía mails por SMTP. Implementa auth.VerificationMailer.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}
	return &Mailer{cfg: cfg}
}

// SendVerification envía el mail de verificación de cuenta.
func (m *Mailer) SendVerification(ctx context.Context, to, name, link string) error {
	if name == "" {
		name = "Hola"
	}
	subject := "Verificá tu cuenta de HelloCard"
	text := fmt.Sprintf("%s,\n\nVerificá tu email entrando a:\n%s\n\nSi no creaste esta cuenta, ignorá este mail.\n", name, link)
	html := fmt.Sprintf(
		`<p>%s,</p><p>Verificá tu email haciendo click acá:</p><p><a href="%s">Verificar cuenta</a></p><p>Si no creaste esta cuenta, ignorá este mail.</p>`,
		name, link)

	return m.send(ctx, to, subject, html, text)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log := logger.From(ctx).With(
		logger.Component("email"),
		logger.String("host", m.cfg.Host),
		logger.String("to", to),
	)
	log.Debug("sending email", logger.String("subject", subject))

	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	d := mail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         m.cfg.Host,
		InsecureSkipVerify: m.cfg.InsecureSkipVerify, // solo dev
	}
	switch m.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	case "none":
		d.TLSConfig = nil
	}

	if err := d.DialAndSend(msg); err != nil {
		log.Warn("email send failed", logger.Err(err))
		return fmt.Errorf("email: enviando a %s: %w", to, err)
	}
	log.Debug("email sent")
	return nil
}
