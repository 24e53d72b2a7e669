// Package scheduler runs detached background refreshes, at most one per refresh key.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"
)

// Job is the body of one background refresh.
type Job func(ctx context.Context)

// Scheduler starts background refreshes outside the caller's lifetime and tracks
// them until they finish.
type Scheduler struct {
	claims *Claims
	logger ports.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewScheduler creates a Scheduler. The logger may be nil.
func NewScheduler(logger ports.Logger) *Scheduler {
	return &Scheduler{
		claims: NewClaims(),
		logger: logger,
	}
}

// Claims returns the claim registry shared by background and foreground refreshes.
func (s *Scheduler) Claims() *Claims {
	return s.claims
}

// Schedule runs job in the background unless a refresh for key is already running
// or the scheduler is closed. It reports whether the job was started.
// The job's context keeps ctx's values but is not cancelled with it.
func (s *Scheduler) Schedule(ctx context.Context, key string, job Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	release, ok := s.claims.TryAcquire(key)
	if !ok {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer release()
		defer s.recoverJob(key)

		job(context.WithoutCancel(ctx))
	}()
	return true
}

func (s *Scheduler) recoverJob(key string) {
	r := recover()
	if r == nil || s.logger == nil {
		return
	}
	s.logger.Error(zerr.With(zerr.New(fmt.Sprintf("background refresh panicked: %v", r)), "key", key))
}

// Closed reports whether Close has been called.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Wait blocks until every started job has finished or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for the running ones.
func (s *Scheduler) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.Wait(ctx)
}
