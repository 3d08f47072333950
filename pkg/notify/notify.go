package notify

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"wallet_tracer_back/models"
)

const (
	DriverNone    = "none"
	DriverMailjet = "mailjet"
	DriverSMTP    = "smtp"
)

// Summary то, что уходит ревьюеру по завершении задачи
type Summary struct {
	JobID            string
	Address          string
	Chain            models.Chain
	Status           models.JobStatus
	WalletsProcessed int
	Error            string
}

func SummaryOf(job models.Job) Summary {
	return Summary{
		JobID:            job.ID,
		Address:          job.Address,
		Chain:            job.Chain,
		Status:           job.Status,
		WalletsProcessed: job.WalletsProcessed,
		Error:            job.Error,
	}
}

type Notifier interface {
	Notify(s Summary) error
}

type Config struct {
	Driver string
	From   string
	To     string

	MailjetAPIKey    string
	MailjetSecretKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// New выбирает отправителя по конфигу. Если ключей нет, уведомления отключаются.
func New(cfg Config) Notifier {
	switch strings.ToLower(cfg.Driver) {
	case DriverMailjet:
		if cfg.MailjetAPIKey == "" || cfg.MailjetSecretKey == "" {
			logrus.Warn("MAILJET_API_KEY или MAILJET_SECRET_KEY не установлены, уведомления отключены")
			return Noop{}
		}
		return NewMailjet(cfg)
	case DriverSMTP:
		if cfg.SMTPHost == "" {
			logrus.Warn("smtp.host не задан, уведомления отключены")
			return Noop{}
		}
		return NewSMTP(cfg)
	default:
		return Noop{}
	}
}

type Noop struct{}

func (Noop) Notify(Summary) error {
	return nil
}

func subject(s Summary) string {
	return fmt.Sprintf("Дерево транзакций %s: %s", s.Address, s.Status)
}

func body(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Задача <b>%s</b> завершена со статусом <b>%s</b>.</p>", s.JobID, s.Status)
	fmt.Fprintf(&b, "<p>Кошелёк: %s (%s)<br>Обработано кошельков: %d</p>", s.Address, s.Chain, s.WalletsProcessed)
	if s.Error != "" {
		fmt.Fprintf(&b, "<p>Ошибка: %s</p>", s.Error)
	}
	return b.String()
}
