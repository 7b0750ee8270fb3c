package batch

import (
	"sync"
	"time"

	"imagecreator/internal/domain"
)

// Tracker holds the live state of asynchronous batch jobs. Counters only
// ever increase and a job flips from processing to complete exactly once.
type Tracker struct {
	mu   sync.Mutex
	jobs map[string]*domain.BatchJob
}

func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*domain.BatchJob)}
}

func (t *Tracker) Create(id string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = &domain.BatchJob{
		ID:        id,
		Total:     total,
		Status:    domain.JobStatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
}

// AddResult records one successful item.
func (t *Tracker) AddResult(id string, asset domain.ImageAsset) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.Completed++
	job.Results = append(job.Results, asset)
	t.finishIfDone(job)
}

// AddError records one failed item.
func (t *Tracker) AddError(id string, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.Failed++
	job.Errors = append(job.Errors, msg)
	t.finishIfDone(job)
}

func (t *Tracker) finishIfDone(job *domain.BatchJob) {
	if job.Status == domain.JobStatusProcessing && job.Done() {
		job.Status = domain.JobStatusComplete
	}
}

// Job returns a snapshot of the job state.
func (t *Tracker) Job(id string) (domain.BatchJob, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return domain.BatchJob{}, domain.ErrJobNotFound
	}
	snap := *job
	snap.Results = append([]domain.ImageAsset(nil), job.Results...)
	snap.Errors = append([]string(nil), job.Errors...)
	return snap, nil
}
