package sources

import (
	"sync"
	"time"
)

// latencyWindowSize bounds the rolling latency buffer per source.
const latencyWindowSize = 100

// HealthSnapshot is a read-only view of a source's rolling health statistics.
type HealthSnapshot struct {
	Source            string     `json:"source"`
	SuccessCount      uint64     `json:"success_count"`
	ErrorCount        uint64     `json:"error_count"`
	LastSuccessAt     *time.Time `json:"last_success_at,omitempty"`
	LastError         string     `json:"last_error,omitempty"`
	RecentLatenciesMs []float64  `json:"recent_latencies_ms"`
}

// HealthTracker maintains per-source rolling statistics. It is owned and
// written only by the source it belongs to; other components read snapshots.
type HealthTracker struct {
	mu            sync.Mutex
	source        string
	successCount  uint64
	errorCount    uint64
	lastSuccessAt time.Time
	lastError     string
	latencies     []float64 // ring buffer, capacity latencyWindowSize
	next          int       // next write position once the buffer is full
	full          bool
}

// NewHealthTracker creates a health tracker for the named source.
func NewHealthTracker(source string) *HealthTracker {
	return &HealthTracker{
		source:    source,
		latencies: make([]float64, 0, latencyWindowSize),
	}
}

// RecordSuccess records a successful fetch and its latency.
func (h *HealthTracker) RecordSuccess(latency time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.successCount++
	h.lastSuccessAt = time.Now()
	h.recordLatency(float64(latency.Microseconds()) / 1000.0)
}

// RecordError records a failed fetch.
func (h *HealthTracker) RecordError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.errorCount++
	if err != nil {
		h.lastError = err.Error()
	}
}

// recordLatency appends to the ring buffer, evicting the oldest entry once
// the window is full. Caller must hold the lock.
func (h *HealthTracker) recordLatency(ms float64) {
	if !h.full {
		h.latencies = append(h.latencies, ms)
		if len(h.latencies) == latencyWindowSize {
			h.full = true
		}
		return
	}
	h.latencies[h.next] = ms
	h.next = (h.next + 1) % latencyWindowSize
}

// Snapshot returns a copy of the current statistics with latencies ordered
// oldest first.
func (h *HealthTracker) Snapshot() HealthSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := HealthSnapshot{
		Source:       h.source,
		SuccessCount: h.successCount,
		ErrorCount:   h.errorCount,
		LastError:    h.lastError,
	}
	if !h.lastSuccessAt.IsZero() {
		t := h.lastSuccessAt
		snap.LastSuccessAt = &t
	}

	snap.RecentLatenciesMs = make([]float64, 0, len(h.latencies))
	if h.full {
		snap.RecentLatenciesMs = append(snap.RecentLatenciesMs, h.latencies[h.next:]...)
		snap.RecentLatenciesMs = append(snap.RecentLatenciesMs, h.latencies[:h.next]...)
	} else {
		snap.RecentLatenciesMs = append(snap.RecentLatenciesMs, h.latencies...)
	}

	return snap
}
