package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
	"go.uber.org/zap"
)

type SMTPNotifier struct {
	Host string
	Port int
	From string
	User string
	Pass string
	// TLSMode is "auto" (STARTTLS when offered), "ssl" or "none".
	TLSMode string

	log *zap.Logger
}

func NewSMTPNotifier(host string, port int, from, user, pass, tlsMode string, log *zap.Logger) *SMTPNotifier {
	if tlsMode == "" {
		tlsMode = "auto"
	}
	return &SMTPNotifier{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: tlsMode,
		log:     log.With(zap.String("component", "smtp"), zap.String("host", host)),
	}
}

func (s *SMTPNotifier) message(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

func (s *SMTPNotifier) dialer() *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{ServerName: s.Host}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	}
	return d
}

// Notify sends synchronously; ctx is only checked before dialing since go-mail
// has no context support.
func (s *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer().DialAndSend(s.message(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.log.Debug("email sent", zap.String("to", msg.To))
	return nil
}
