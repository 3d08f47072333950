package repository

import (
	"errors"

	"wallet_tracer_back/models"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobExists   = errors.New("job already exists")
)

type Jobs interface {
	Create(job models.Job) error
	Get(id string) (models.Job, error)
	// Update применяет fn к задаче под блокировкой хранилища
	Update(id string, fn func(job *models.Job) error) (models.Job, error)
	List() []models.Job
}

type Repository struct {
	Jobs
}

func NewRepository() *Repository {
	return &Repository{
		Jobs: NewJobMemory(),
	}
}
