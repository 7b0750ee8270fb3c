package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"imagecreator/internal/domain"
	"imagecreator/internal/infra"
)

func nopLogger() *infra.Logger {
	l := infra.Logger(zerolog.New(io.Discard))
	return &l
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := NewPool(2)
	var active, peak int32
	var mu sync.Mutex

	for i := 0; i < 10; i++ {
		pool.Go(func() {
			n := atomic.AddInt32(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
		})
	}
	pool.Wait()

	if peak > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestRunKeepsSlotOrder(t *testing.T) {
	c := NewCoordinator(nopLogger(), 3)

	results := c.Run(context.Background(), 5, func(ctx context.Context, i int) (domain.ImageAsset, error) {
		if i == 2 {
			return domain.ImageAsset{}, errors.New("unit refused")
		}
		return domain.ImageAsset{ID: fmt.Sprintf("asset-%d", i)}, nil
	})

	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}
	for i, r := range results {
		if i == 2 {
			if r.Err == nil {
				t.Fatal("slot 2 should carry its error")
			}
			continue
		}
		if r.Err != nil || r.Asset.ID != fmt.Sprintf("asset-%d", i) {
			t.Fatalf("slot %d = %+v", i, r)
		}
	}
}

func TestRunAllCollectsPartialFailures(t *testing.T) {
	c := NewCoordinator(nopLogger(), 2)
	prompts := []string{"a", "fail-b", "c", "fail-d", "e"}

	results, failures, err := c.RunAll(context.Background(), prompts, func(ctx context.Context, p string) (domain.ImageAsset, error) {
		if strings.HasPrefix(p, "fail-") {
			return domain.ImageAsset{}, fmt.Errorf("generation refused for %s", p)
		}
		return domain.ImageAsset{ID: p, Prompt: p}, nil
	})
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}
	// Successes keep prompt order.
	if results[0].ID != "a" || results[1].ID != "c" || results[2].ID != "e" {
		t.Fatalf("unexpected result order: %v", results)
	}
}

func TestRunAllErrorsWhenEverythingFails(t *testing.T) {
	c := NewCoordinator(nopLogger(), 2)
	boom := errors.New("boom")

	_, failures, err := c.RunAll(context.Background(), []string{"a", "b"}, func(ctx context.Context, p string) (domain.ImageAsset, error) {
		return domain.ImageAsset{}, boom
	})
	if err == nil {
		t.Fatal("expected error when all items fail")
	}
	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error should carry item messages: %v", err)
	}
}

func TestSubmitJobTracksProgress(t *testing.T) {
	c := NewCoordinator(nopLogger(), 2)
	prompts := []string{"a", "fail-b", "c", "d", "fail-e"}

	id := c.SubmitJob(context.Background(), prompts, func(ctx context.Context, p string) (domain.ImageAsset, error) {
		if strings.HasPrefix(p, "fail-") {
			return domain.ImageAsset{}, errors.New("refused")
		}
		return domain.ImageAsset{ID: p}, nil
	})

	deadline := time.After(2 * time.Second)
	for {
		job, err := c.Job(id)
		if err != nil {
			t.Fatalf("Job: %v", err)
		}
		if job.Status == domain.JobStatusComplete {
			if job.Completed != 3 || job.Failed != 2 {
				t.Fatalf("completed=%d failed=%d, want 3/2", job.Completed, job.Failed)
			}
			if len(job.Results) != 3 || len(job.Errors) != 2 {
				t.Fatalf("results=%d errors=%d", len(job.Results), len(job.Errors))
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("job never completed: %+v", job)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestJobNotFound(t *testing.T) {
	c := NewCoordinator(nopLogger(), 1)
	if _, err := c.Job("missing"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubmitJobSurvivesCanceledRequestContext(t *testing.T) {
	c := NewCoordinator(nopLogger(), 1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	id := c.SubmitJob(ctx, []string{"a"}, func(ctx context.Context, p string) (domain.ImageAsset, error) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return domain.ImageAsset{}, err
		}
		return domain.ImageAsset{ID: p}, nil
	})

	<-started
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		job, err := c.Job(id)
		if err != nil {
			t.Fatalf("Job: %v", err)
		}
		if job.Status == domain.JobStatusComplete {
			if job.Completed != 1 || job.Failed != 0 {
				t.Fatalf("detached work should finish, got %+v", job)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("job never completed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
