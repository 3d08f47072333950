package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_tracer_back/models"
)

func TestJobMemory_CreateGet(t *testing.T) {
	r := NewJobMemory()

	job := models.Job{ID: "1", Address: "0xabc", Chain: models.ChainERC20, Status: models.JobRunning}
	require.NoError(t, r.Create(job))
	assert.ErrorIs(t, r.Create(job), ErrJobExists)

	got, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, job, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobMemory_GetReturnsCopy(t *testing.T) {
	r := NewJobMemory()
	require.NoError(t, r.Create(models.Job{ID: "1", Status: models.JobRunning}))

	got, err := r.Get("1")
	require.NoError(t, err)
	got.Status = models.JobFailed

	again, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, models.JobRunning, again.Status)
}

func TestJobMemory_Update(t *testing.T) {
	r := NewJobMemory()
	require.NoError(t, r.Create(models.Job{ID: "1", Status: models.JobRunning}))

	updated, err := r.Update("1", func(job *models.Job) error {
		job.WalletsProcessed++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.WalletsProcessed)

	rejected := errors.New("rejected")
	_, err = r.Update("1", func(job *models.Job) error {
		job.WalletsProcessed = 100
		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	got, _ := r.Get("1")
	assert.Equal(t, 1, got.WalletsProcessed, "failed update is not applied")

	_, err = r.Update("missing", func(*models.Job) error { return nil })
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobMemory_ConcurrentUpdates(t *testing.T) {
	r := NewJobMemory()
	require.NoError(t, r.Create(models.Job{ID: "1"}))

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Update("1", func(job *models.Job) error {
				job.WalletsProcessed++
				return nil
			})
			_, _ = r.Get("1")
		}()
	}
	wg.Wait()

	got, _ := r.Get("1")
	assert.Equal(t, workers, got.WalletsProcessed)
}

func TestJobMemory_ListOrderedByCreation(t *testing.T) {
	r := NewJobMemory()
	base := time.Now()
	for i := 3; i > 0; i-- {
		require.NoError(t, r.Create(models.Job{ID: fmt.Sprint(i), CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	jobs := r.List()
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func TestNewRepository(t *testing.T) {
	repos := NewRepository()
	require.NotNil(t, repos.Jobs)
}
