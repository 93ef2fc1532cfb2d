package store

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/heysubinoy/jsonkv/pkg/kv"
)

// Metrics holds timing statistics for store operations.
// Uses atomic operations for thread-safe updates without locks.
type Metrics struct {
	CreateCount  atomic.Uint64
	GetCount     atomic.Uint64
	ReplaceCount atomic.Uint64
	DeleteCount  atomic.Uint64

	// Cumulative latencies in nanoseconds
	CreateLatencyNs  atomic.Uint64
	GetLatencyNs     atomic.Uint64
	ReplaceLatencyNs atomic.Uint64
	DeleteLatencyNs  atomic.Uint64
}

// InstrumentedStore wraps any kv.Store implementation with timing
// metrics. This pattern works for both the in-memory and the
// bbolt-backed store.
type InstrumentedStore struct {
	store   kv.Store
	metrics *Metrics
}

// Compile-time check to ensure InstrumentedStore implements kv.Store.
var _ kv.Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with instrumentation.
func NewInstrumentedStore(store kv.Store) *InstrumentedStore {
	return &InstrumentedStore{
		store:   store,
		metrics: &Metrics{},
	}
}

// Create delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Create(key string, value json.RawMessage) error {
	start := time.Now()
	err := s.store.Create(key, value)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.CreateCount.Add(1)
	s.metrics.CreateLatencyNs.Add(uint64(elapsed))

	return err
}

// Get delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Get(key string) (json.RawMessage, error) {
	start := time.Now()
	value, err := s.store.Get(key)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.GetCount.Add(1)
	s.metrics.GetLatencyNs.Add(uint64(elapsed))

	return value, err
}

// Replace delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Replace(key string, value json.RawMessage) error {
	start := time.Now()
	err := s.store.Replace(key, value)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.ReplaceCount.Add(1)
	s.metrics.ReplaceLatencyNs.Add(uint64(elapsed))

	return err
}

// Delete delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Delete(key string) error {
	start := time.Now()
	err := s.store.Delete(key)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.DeleteCount.Add(1)
	s.metrics.DeleteLatencyNs.Add(uint64(elapsed))

	return err
}

// Count delegates to the wrapped store without instrumentation.
func (s *InstrumentedStore) Count() (int, error) {
	return s.store.Count()
}

// GetMetrics returns a snapshot of current metrics.
func (s *InstrumentedStore) GetMetrics() MetricsSnapshot {
	createCount := s.metrics.CreateCount.Load()
	getCount := s.metrics.GetCount.Load()
	replaceCount := s.metrics.ReplaceCount.Load()
	deleteCount := s.metrics.DeleteCount.Load()

	return MetricsSnapshot{
		CreateCount:       createCount,
		GetCount:          getCount,
		ReplaceCount:      replaceCount,
		DeleteCount:       deleteCount,
		CreateAvgLatency:  s.avgLatency(s.metrics.CreateLatencyNs.Load(), createCount),
		GetAvgLatency:     s.avgLatency(s.metrics.GetLatencyNs.Load(), getCount),
		ReplaceAvgLatency: s.avgLatency(s.metrics.ReplaceLatencyNs.Load(), replaceCount),
		DeleteAvgLatency:  s.avgLatency(s.metrics.DeleteLatencyNs.Load(), deleteCount),
	}
}

// ResetMetrics clears all metrics counters.
func (s *InstrumentedStore) ResetMetrics() {
	s.metrics.CreateCount.Store(0)
	s.metrics.GetCount.Store(0)
	s.metrics.ReplaceCount.Store(0)
	s.metrics.DeleteCount.Store(0)
	s.metrics.CreateLatencyNs.Store(0)
	s.metrics.GetLatencyNs.Store(0)
	s.metrics.ReplaceLatencyNs.Store(0)
	s.metrics.DeleteLatencyNs.Store(0)
}

func (s *InstrumentedStore) avgLatency(totalNs, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	CreateCount       uint64
	GetCount          uint64
	ReplaceCount      uint64
	DeleteCount       uint64
	CreateAvgLatency  time.Duration
	GetAvgLatency     time.Duration
	ReplaceAvgLatency time.Duration
	DeleteAvgLatency  time.Duration
}
