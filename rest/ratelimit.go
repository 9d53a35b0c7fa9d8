package rest

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// defaultRetryAfter is used when a 429 body carries no usable
// retry_after value.
const defaultRetryAfter = time.Second

// bucketSet tracks one rate-limit bucket per "METHOD URL" pair, the
// granularity the API rate limits at.
type bucketSet struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

func newBucketSet() *bucketSet {
	return &bucketSet{buckets: make(map[string]*bucket)}
}

func (s *bucketSet) get(method, url string) *bucket {
	key := method + " " + url
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{}
		s.buckets[key] = b
	}
	return b
}

// bucket holds a deadline before which requests on its route must not
// be sent. Concurrent callers all wait on the same deadline.
type bucket struct {
	mu    sync.Mutex
	until time.Time
}

// hold blocks the bucket for d from now.
func (b *bucket) hold(d time.Duration) {
	if d <= 0 {
		d = defaultRetryAfter
	}
	deadline := time.Now().Add(d)
	b.mu.Lock()
	if deadline.After(b.until) {
		b.until = deadline
	}
	b.mu.Unlock()
}

// wait sleeps until the bucket is released or ctx is done.
func (b *bucket) wait(ctx context.Context) error {
	b.mu.Lock()
	until := b.until
	b.mu.Unlock()

	d := time.Until(until)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfter extracts the retry_after duration from a 429 response
// body. The API reports it in seconds.
func retryAfter(body []byte) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.RetryAfter <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(payload.RetryAfter * float64(time.Second))
}
