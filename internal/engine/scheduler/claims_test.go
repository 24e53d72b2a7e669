package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/engine/scheduler"
)

func TestClaims_TryAcquire(t *testing.T) {
	claims := scheduler.NewClaims()

	release, ok := claims.TryAcquire("comments|acme/site|7")
	require.True(t, ok)
	assert.True(t, claims.Held("comments|acme/site|7"))

	_, ok = claims.TryAcquire("comments|acme/site|7")
	assert.False(t, ok, "second claim on a held key")

	_, ok = claims.TryAcquire("comments|acme/site|8")
	assert.True(t, ok, "other keys are independent")

	release()
	release()
	assert.False(t, claims.Held("comments|acme/site|7"))

	_, ok = claims.TryAcquire("comments|acme/site|7")
	assert.True(t, ok)
}

func TestClaims_AcquireWaitsForRelease(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		claims := scheduler.NewClaims()
		release, ok := claims.TryAcquire("k")
		require.True(t, ok)

		acquired := make(chan struct{})
		go func() {
			r, err := claims.Acquire(context.Background(), "k")
			if err == nil {
				close(acquired)
				r()
			}
		}()

		synctest.Wait()
		select {
		case <-acquired:
			t.Fatal("acquired a held key")
		default:
		}

		release()
		synctest.Wait()
		select {
		case <-acquired:
		default:
			t.Fatal("waiter was not woken")
		}
	})
}

func TestClaims_AcquireHonoursContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		claims := scheduler.NewClaims()
		_, ok := claims.TryAcquire("k")
		require.True(t, ok)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err := claims.Acquire(ctx, "k")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClaims_AcquireGrantsInWaitingOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		claims := scheduler.NewClaims()
		release, ok := claims.TryAcquire("k")
		require.True(t, ok)

		var (
			mu    sync.Mutex
			order []int
			wg    sync.WaitGroup
		)
		for i := range 4 {
			wg.Go(func() {
				r, err := claims.Acquire(context.Background(), "k")
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				r()
			})
			// Each waiter is queued before the next one starts.
			synctest.Wait()
		}

		release()
		wg.Wait()
		assert.Equal(t, []int{0, 1, 2, 3}, order)
		assert.False(t, claims.Held("k"))
	})
}

func TestClaims_CancelledWaiterLeavesTheQueue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		claims := scheduler.NewClaims()
		release, ok := claims.TryAcquire("k")
		require.True(t, ok)

		ctx, cancel := context.WithCancel(context.Background())
		gaveUp := make(chan error)
		go func() {
			_, err := claims.Acquire(ctx, "k")
			gaveUp <- err
		}()

		acquired := make(chan func())
		go func() {
			r, err := claims.Acquire(context.Background(), "k")
			if err == nil {
				acquired <- r
			}
		}()

		synctest.Wait()
		cancel()
		assert.ErrorIs(t, <-gaveUp, context.Canceled)

		release()
		r := <-acquired
		assert.True(t, claims.Held("k"))
		r()
		assert.False(t, claims.Held("k"))
	})
}
