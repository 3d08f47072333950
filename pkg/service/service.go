package service

import (
	"wallet_tracer_back/models"
	"wallet_tracer_back/pkg/chainclient"
	"wallet_tracer_back/pkg/notify"
	"wallet_tracer_back/pkg/repository"
)

type Tracer interface {
	Start(address string) (string, error)
	GetProgress(jobID string) (models.Progress, error)
	GetResult(jobID string) (*models.TreeNode, error)
	Jobs() []models.Job
}

type Service struct {
	Tracer
}

func NewService(repos *repository.Repository, clients chainclient.Registry, notifier notify.Notifier, cfg Config) *Service {
	return &Service{
		Tracer: NewTracerService(repos.Jobs, clients, notifier, cfg),
	}
}
