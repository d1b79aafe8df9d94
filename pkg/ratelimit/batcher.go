package ratelimit

import (
	"context"
	"iter"
	"time"
)

const (
	DefaultBatchSize  = 20
	DefaultBatchDelay = time.Second
)

// Batches yields consecutive slices of items, each of length size except
// possibly the last. The index passed along is the zero-based batch number.
// Slices alias items.
func Batches[T any](items []T, size int) iter.Seq2[int, []T] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return func(yield func(int, []T) bool) {
		for i, start := 0, 0; start < len(items); i, start = i+1, start+size {
			end := min(start+size, len(items))
			if !yield(i, items[start:end:end]) {
				return
			}
		}
	}
}

// Batcher groups work into fixed-size batches and enforces a fixed pause
// between them. With the defaults that is at most 20 requests per second.
type Batcher struct {
	size  int
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBatcher creates a batcher. A non-positive size falls back to
// DefaultBatchSize; a negative delay is treated as zero.
func NewBatcher(size int, delay time.Duration) *Batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if delay < 0 {
		delay = 0
	}
	return &Batcher{size: size, delay: delay, sleep: sleep}
}

// Size returns the batch size
func (b *Batcher) Size() int {
	return b.size
}

// Delay returns the pause taken between batches
func (b *Batcher) Delay() time.Duration {
	return b.delay
}

// Count returns the number of batches n items are split into
func (b *Batcher) Count(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + b.size - 1) / b.size
}

// Pause suspends for the configured delay. It returns ctx.Err() as soon as
// ctx is cancelled.
func (b *Batcher) Pause(ctx context.Context) error {
	return b.sleep(ctx, b.delay)
}
