package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"imagecreator/internal/domain"
	"imagecreator/internal/infra"
)

// GenerateFunc produces one asset for one prompt.
type GenerateFunc func(ctx context.Context, prompt string) (domain.ImageAsset, error)

// Coordinator fans batch prompts out over a bounded worker pool, either
// synchronously or as a tracked background job.
type Coordinator struct {
	logger  *infra.Logger
	tracker *Tracker
	workers int
}

func NewCoordinator(logger *infra.Logger, workers int) *Coordinator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Coordinator{logger: logger, tracker: NewTracker(), workers: workers}
}

// Result is one unit's outcome, kept in submission order.
type Result struct {
	Asset domain.ImageAsset
	Err   error
}

// Run executes n units concurrently on the bounded pool and waits. Every
// unit resolves; failures land in the matching Result slot instead of
// aborting the rest.
func (c *Coordinator) Run(ctx context.Context, n int, unit func(ctx context.Context, i int) (domain.ImageAsset, error)) []Result {
	results := make([]Result, n)

	pool := NewPool(c.workers)
	for i := 0; i < n; i++ {
		i := i
		pool.Go(func() {
			asset, err := unit(ctx, i)
			results[i] = Result{Asset: asset, Err: err}
		})
	}
	pool.Wait()
	return results
}

// RunAll generates every prompt and waits. Individual failures are collected
// rather than aborting the batch; only a batch with zero successes is an
// error.
func (c *Coordinator) RunAll(ctx context.Context, prompts []string, gen GenerateFunc) ([]domain.ImageAsset, []string, error) {
	slots := c.Run(ctx, len(prompts), func(ctx context.Context, i int) (domain.ImageAsset, error) {
		return gen(ctx, prompts[i])
	})

	var results []domain.ImageAsset
	var failures []string
	for i, s := range slots {
		if s.Err != nil {
			c.logger.Warn().Err(s.Err).Int("index", i).Msg("batch item failed")
			failures = append(failures, fmt.Sprintf("item %d: %v", i, s.Err))
			continue
		}
		results = append(results, s.Asset)
	}
	if len(results) == 0 && len(prompts) > 0 {
		return nil, failures, fmt.Errorf("all batch items failed: %s", strings.Join(failures, "; "))
	}
	return results, failures, nil
}

// SubmitJob starts the batch in the background and returns its job id. The
// work detaches from the request context so a closed connection does not
// cancel generation in flight.
func (c *Coordinator) SubmitJob(ctx context.Context, prompts []string, gen GenerateFunc) string {
	id := uuid.NewString()
	c.tracker.Create(id, len(prompts))

	detached := context.WithoutCancel(ctx)
	go func() {
		pool := NewPool(c.workers)
		for i, p := range prompts {
			i, p := i, p
			pool.Go(func() {
				asset, err := gen(detached, p)
				if err != nil {
					c.logger.Warn().Err(err).Str("job_id", id).Int("index", i).Msg("batch item failed")
					c.tracker.AddError(id, fmt.Sprintf("item %d: %v", i, err))
					return
				}
				c.tracker.AddResult(id, asset)
			})
		}
		pool.Wait()
		c.logger.Info().Str("job_id", id).Int("total", len(prompts)).Msg("batch job finished")
	}()
	return id
}

// Job returns the current snapshot of a submitted job.
func (c *Coordinator) Job(id string) (domain.BatchJob, error) {
	return c.tracker.Job(id)
}
