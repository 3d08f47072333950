package notify

import (
	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Mailjet struct {
	client *mailjet.Client
	from   string
	to     string
}

func NewMailjet(cfg Config) *Mailjet {
	return &Mailjet{
		client: mailjet.NewMailjetClient(cfg.MailjetAPIKey, cfg.MailjetSecretKey),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// Notify отправляет письмо через Mailjet
func (m *Mailjet) Notify(s Summary) error {
	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: m.from,
				Name:  "Wallet Tracer",
			},
			To: &mailjet.RecipientsV31{
				{
					Email: m.to,
				},
			},
			Subject:  subject(s),
			HTMLPart: body(s),
		},
	}

	res, err := m.client.SendMailV31(&mailjet.MessagesV31{Info: messagesInfo})
	if err != nil {
		return errors.Wrap(err, "mailjet send")
	}
	logrus.WithField("job_id", s.JobID).Debugf("Mailjet ответ: %+v", res)
	return nil
}
