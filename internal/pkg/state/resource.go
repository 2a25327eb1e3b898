package state

import (
	"sync"
	"time"

	"github.com/Vodeneev/footballhub/internal/pkg/metrics"
)

// Snapshot is a point-in-time copy of a resource.
type Snapshot[T any] struct {
	Data      T         `json:"data"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Ticket identifies one fetch started with Pending.
type Ticket uint64

// Resource is a {data, loading, error} triple moved through
// pending -> fulfilled | rejected. Only the newest pending ticket may settle
// it, so a slow earlier fetch cannot overwrite a later one.
type Resource[T any] struct {
	name     string
	fallback string

	mu        sync.RWMutex
	data      T
	loading   bool
	err       string
	updatedAt time.Time
	latest    Ticket
}

func NewResource[T any](name, fallback string, initial T) *Resource[T] {
	return &Resource[T]{name: name, fallback: fallback, data: initial}
}

func (r *Resource[T]) Name() string {
	return r.name
}

// Pending marks the resource as loading and clears the previous error.
// Data is kept until the fetch settles.
func (r *Resource[T]) Pending() Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest++
	r.loading = true
	r.err = ""
	return r.latest
}

// Fulfill stores data. It reports false when the ticket is stale.
func (r *Resource[T]) Fulfill(t Ticket, data T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t != r.latest {
		metrics.Fetches.WithLabelValues(r.name, "stale").Inc()
		return false
	}
	r.loading = false
	r.data = data
	r.updatedAt = time.Now()
	metrics.Fetches.WithLabelValues(r.name, "fulfilled").Inc()
	return true
}

// Reject records err, or the fallback message when err has no text.
func (r *Resource[T]) Reject(t Ticket, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t != r.latest {
		metrics.Fetches.WithLabelValues(r.name, "stale").Inc()
		return false
	}
	r.loading = false
	r.err = r.fallback
	if err != nil && err.Error() != "" {
		r.err = err.Error()
	}
	metrics.Fetches.WithLabelValues(r.name, "rejected").Inc()
	return true
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot[T]{
		Data:      r.data,
		Loading:   r.loading,
		Error:     r.err,
		UpdatedAt: r.updatedAt,
	}
}
