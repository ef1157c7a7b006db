package engine

import (
	"sync"
	"time"
)

// Stats accumulates per binding throughput figures for tuning the batch
// size.
type Stats struct {
	Batches       int64
	Failures      int64
	Rows          int64
	TotalDuration time.Duration
	LastDuration  time.Duration
	LastBatchRows int
}

// RowsPerSecond is the insert rate over all successful batches.
func (s Stats) RowsPerSecond() float64 {
	if s.TotalDuration <= 0 {
		return 0
	}
	return float64(s.Rows) / s.TotalDuration.Seconds()
}

// AvgBatchDuration is the mean duration of successful batches.
func (s Stats) AvgBatchDuration() time.Duration {
	if s.Batches == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Batches)
}

type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func (r *statsRecorder) ObserveBatch(ev BatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.Err != nil {
		r.stats.Failures++
		return
	}
	r.stats.Batches++
	r.stats.Rows += int64(ev.Rows)
	r.stats.TotalDuration += ev.Duration
	r.stats.LastDuration = ev.Duration
	r.stats.LastBatchRows = ev.Rows
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
