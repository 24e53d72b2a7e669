package scheduler

import (
	"context"
	"slices"
	"sync"
)

// Claims hands out exclusive, process-wide claims on refresh keys.
// At most one refresh or ingest per (namespace, owner) holds a claim at a time, and
// blocked Acquire calls are granted the claim in the order they started waiting.
type Claims struct {
	mu   sync.Mutex
	held map[string]*claim
}

type claim struct {
	waiters []chan struct{}
}

// NewClaims creates an empty claim registry.
func NewClaims() *Claims {
	return &Claims{held: make(map[string]*claim)}
}

// TryAcquire claims key if it is free. The returned release func is safe to call more than once.
func (c *Claims) TryAcquire(key string) (func(), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.held[key]; busy {
		return nil, false
	}
	c.held[key] = &claim{}
	return c.release(key), true
}

// Acquire blocks until key is handed to the caller or ctx is done.
func (c *Claims) Acquire(ctx context.Context, key string) (func(), error) {
	c.mu.Lock()
	cl, busy := c.held[key]
	if !busy {
		c.held[key] = &claim{}
		c.mu.Unlock()
		return c.release(key), nil
	}
	turn := make(chan struct{})
	cl.waiters = append(cl.waiters, turn)
	c.mu.Unlock()

	select {
	case <-turn:
		return c.release(key), nil
	case <-ctx.Done():
	}

	c.mu.Lock()
	select {
	case <-turn:
		// Handed over while giving up: pass it on.
		c.mu.Unlock()
		c.release(key)()
	default:
		cl.waiters = slices.DeleteFunc(cl.waiters, func(w chan struct{}) bool { return w == turn })
		c.mu.Unlock()
	}
	return nil, ctx.Err()
}

// Held reports whether key is currently claimed.
func (c *Claims) Held(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, busy := c.held[key]
	return busy
}

// release returns the func that gives key up, to the longest waiter if there is one.
func (c *Claims) release(key string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			cl := c.held[key]
			if len(cl.waiters) == 0 {
				delete(c.held, key)
				return
			}
			next := cl.waiters[0]
			cl.waiters = cl.waiters[1:]
			close(next)
		})
	}
}
