package password

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds how many hashes run at once so bcrypt cannot starve the
// request goroutines under load.
type Limiter struct {
	hasher Hasher
	sem    *semaphore.Weighted
}

// NewLimiter wraps h. A non-positive size falls back to runtime.NumCPU().
func NewLimiter(h Hasher, size int) *Limiter {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Limiter{hasher: h, sem: semaphore.NewWeighted(int64(size))}
}

// Hash waits for a slot, then hashes plaintext.
func (l *Limiter) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for hash slot: %w", err)
	}
	defer l.sem.Release(1)

	return l.hasher.Hash(plaintext)
}

// Verify waits for a slot, then verifies plaintext against hashed.
func (l *Limiter) Verify(ctx context.Context, plaintext, hashed string) (bool, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("waiting for hash slot: %w", err)
	}
	defer l.sem.Release(1)

	return l.hasher.Verify(plaintext, hashed)
}
