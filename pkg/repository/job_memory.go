package repository

import (
	"sort"
	"sync"

	"wallet_tracer_back/models"
)

// JobMemory хранит задачи в памяти процесса. После рестарта задачи теряются.
type JobMemory struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
}

func NewJobMemory() *JobMemory {
	return &JobMemory{jobs: make(map[string]*models.Job)}
}

func (r *JobMemory) Create(job models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; ok {
		return ErrJobExists
	}
	r.jobs[job.ID] = &job
	return nil
}

// Get возвращает копию задачи. Result после завершения не меняется, поэтому указатель можно отдавать.
func (r *JobMemory) Get(id string) (models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	return *job, nil
}

func (r *JobMemory) Update(id string, fn func(job *models.Job) error) (models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}

	updated := *job
	if err := fn(&updated); err != nil {
		return *job, err
	}
	*job = updated
	return updated, nil
}

func (r *JobMemory) List() []models.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]models.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs
}
