package notify

import (
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type SMTP struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewSMTP(cfg Config) *SMTP {
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	return &SMTP{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.From,
		to:     cfg.To,
	}
}

func (s *SMTP) message(sum Summary) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject(sum))
	m.SetBody("text/html", body(sum))
	return m
}

func (s *SMTP) Notify(sum Summary) error {
	if err := s.dialer.DialAndSend(s.message(sum)); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}
