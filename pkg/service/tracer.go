package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"wallet_tracer_back/internal/address"
	"wallet_tracer_back/models"
	"wallet_tracer_back/pkg/cache"
	"wallet_tracer_back/pkg/chainclient"
	"wallet_tracer_back/pkg/metrics"
	"wallet_tracer_back/pkg/notify"
	"wallet_tracer_back/pkg/repository"
	"wallet_tracer_back/pkg/tree"
)

type Config struct {
	DepthLimit int
	FetchCache bool
}

// TracerService запускает построение дерева в отдельной горутине на задачу.
// Отмены, таймаутов и повторов нет: задача всегда доходит до Completed или Failed.
type TracerService struct {
	repos    repository.Jobs
	clients  chainclient.Registry
	notifier notify.Notifier
	cfg      Config
	newID    func() string
	now      func() time.Time
}

func NewTracerService(repos repository.Jobs, clients chainclient.Registry, notifier notify.Notifier, cfg Config) *TracerService {
	if cfg.DepthLimit <= 0 {
		cfg.DepthLimit = tree.DefaultDepthLimit
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &TracerService{
		repos:    repos,
		clients:  clients,
		notifier: notifier,
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s *TracerService) Start(addr string) (string, error) {
	chain, err := address.Validate(addr)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidInput, "address %q", addr)
	}
	client, ok := s.clients.For(chain)
	if !ok {
		return "", errors.Wrapf(ErrInvalidInput, "chain %s is not configured", chain)
	}

	job := models.Job{
		ID:        s.newID(),
		Address:   address.Normalize(addr),
		Chain:     chain,
		Status:    models.JobRunning,
		CreatedAt: s.now(),
	}
	if err := s.repos.Create(job); err != nil {
		return "", errors.Wrap(err, "create job")
	}

	metrics.JobsStarted.WithLabelValues(string(chain)).Inc()
	metrics.JobsRunning.Inc()
	logrus.WithFields(logrus.Fields{"job_id": job.ID, "address": job.Address, "chain": chain}).
		Info("Запущено построение дерева транзакций")

	go s.run(job, client)
	return job.ID, nil
}

func (s *TracerService) run(job models.Job, client chainclient.Client) {
	log := logrus.WithFields(logrus.Fields{"job_id": job.ID, "chain": job.Chain})

	if s.cfg.FetchCache {
		client = cache.NewCachingClient(client, cache.NewTransferCache())
	}
	bound := progressBound(s.cfg.DepthLimit)

	builder := tree.NewBuilder(client, s.cfg.DepthLimit, func(wallet string, branchVisited int) {
		updated, err := s.repos.Update(job.ID, func(j *models.Job) error {
			j.WalletsProcessed++
			j.Progress = max(j.Progress, runningPercent(j.WalletsProcessed, bound))
			return nil
		})
		if err != nil {
			log.Errorf("Не удалось обновить прогресс: %s", err)
			return
		}
		log.WithFields(logrus.Fields{
			"address":           wallet,
			"branch_visited":    branchVisited,
			"wallets_processed": updated.WalletsProcessed,
			"progress":          updated.Progress,
		}).Debug("Кошелёк обработан")
	})

	result, buildErr := builder.Build(context.Background(), job.Address, 0, nil)

	finished, err := s.repos.Update(job.ID, func(j *models.Job) error {
		if j.Terminal() {
			return errors.Errorf("job %s already finished", j.ID)
		}
		now := s.now()
		j.FinishedAt = &now
		j.Progress = 100
		if buildErr != nil {
			j.Status = models.JobFailed
			j.Error = buildErr.Error()
			return nil
		}
		j.Status = models.JobCompleted
		j.Result = result
		return nil
	})
	metrics.JobsRunning.Dec()
	if err != nil {
		log.Errorf("Не удалось сохранить результат задачи: %s", err)
		return
	}

	metrics.JobsFinished.WithLabelValues(string(job.Chain), string(finished.Status)).Inc()
	metrics.JobDuration.WithLabelValues(string(job.Chain), string(finished.Status)).
		Observe(finished.FinishedAt.Sub(finished.CreatedAt).Seconds())

	if buildErr != nil {
		log.WithField("wallets_processed", finished.WalletsProcessed).Errorf("Построение дерева упало: %s", buildErr)
	} else {
		log.WithField("wallets_processed", finished.WalletsProcessed).Info("Дерево транзакций построено")
	}

	if err := s.notifier.Notify(notify.SummaryOf(finished)); err != nil {
		log.Errorf("Не удалось отправить уведомление: %s", err)
	}
}

func (s *TracerService) GetProgress(jobID string) (models.Progress, error) {
	job, err := s.get(jobID)
	if err != nil {
		return models.Progress{}, err
	}
	return models.Progress{
		Status:           job.Status,
		Percent:          job.Progress,
		WalletsProcessed: job.WalletsProcessed,
	}, nil
}

func (s *TracerService) GetResult(jobID string) (*models.TreeNode, error) {
	job, err := s.get(jobID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case models.JobCompleted:
		return job.Result, nil
	case models.JobFailed:
		return nil, &JobFailedError{JobID: job.ID, Message: job.Error}
	default:
		return nil, ErrNotReady
	}
}

func (s *TracerService) Jobs() []models.Job {
	jobs := s.repos.List()
	for i := range jobs {
		jobs[i].Result = nil
	}
	return jobs
}

func (s *TracerService) get(jobID string) (models.Job, error) {
	if jobID == "" {
		return models.Job{}, errors.Wrap(ErrInvalidInput, "empty request id")
	}
	job, err := s.repos.Get(jobID)
	if errors.Is(err, repository.ErrJobNotFound) {
		return models.Job{}, ErrNotFound
	}
	return job, err
}

// progressBound сколько кошельков максимум запрашивается при ветвлении 2: 2^limit - 1
func progressBound(limit int) int {
	if limit >= 30 {
		return 1<<30 - 1
	}
	return 1<<limit - 1
}

// runningPercent 100 бывает только у завершённой задачи
func runningPercent(processed, bound int) int {
	if bound <= 0 {
		return 99
	}
	return min(99, processed*100/bound)
}
