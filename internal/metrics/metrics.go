// Package metrics provides scan statistics for the VST catalog.
package metrics

import (
	"encoding/json"
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks scan, probe and cache counters.
// All fields are thread-safe for concurrent access.
type Metrics struct {
	// Scan metrics
	ScansStarted   atomic.Int64
	ScansCompleted atomic.Int64
	ScansCanceled  atomic.Int64

	// Probe metrics
	CandidatesFound atomic.Int64
	ProbesSucceeded atomic.Int64
	ProbesFailed    atomic.Int64
	EffectsFound    atomic.Int64
	ShellEffects    atomic.Int64

	// Cache metrics
	CacheLoads        atomic.Int64
	CacheLoadFailures atomic.Int64
	CacheSaves        atomic.Int64
	CacheSaveFailures atomic.Int64

	// Timing metrics
	startTime    time.Time
	lastScan     atomic.Value // time.Time
	avgProbeNs   atomic.Int64
	probeCount   atomic.Int64
	lastScanNs   atomic.Int64
	failureKinds map[string]int64

	mu sync.RWMutex
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Timestamp         time.Time        `json:"timestamp"`
	Uptime            string           `json:"uptime"`
	ScansStarted      int64            `json:"scans_started"`
	ScansCompleted    int64            `json:"scans_completed"`
	ScansCanceled     int64            `json:"scans_canceled"`
	CandidatesFound   int64            `json:"candidates_found"`
	ProbesSucceeded   int64            `json:"probes_succeeded"`
	ProbesFailed      int64            `json:"probes_failed"`
	EffectsFound      int64            `json:"effects_found"`
	ShellEffects      int64            `json:"shell_effects"`
	CacheLoads        int64            `json:"cache_loads"`
	CacheLoadFailures int64            `json:"cache_load_failures"`
	CacheSaves        int64            `json:"cache_saves"`
	CacheSaveFailures int64            `json:"cache_save_failures"`
	FailuresByKind    map[string]int64 `json:"failures_by_kind,omitempty"`
	AvgProbeMs        float64          `json:"avg_probe_ms"`
	LastScanMs        float64          `json:"last_scan_ms"`
	LastScan          string           `json:"last_scan,omitempty"`
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime:    time.Now(),
		failureKinds: make(map[string]int64),
	}
}

// RecordProbe records one probe outcome and its duration.
// An empty kind means the probe succeeded.
func (m *Metrics) RecordProbe(kind string, effects, shell int, d time.Duration) {
	if kind == "" {
		m.ProbesSucceeded.Add(1)
		m.EffectsFound.Add(int64(effects))
		m.ShellEffects.Add(int64(shell))
	} else {
		m.ProbesFailed.Add(1)
		m.mu.Lock()
		m.failureKinds[kind]++
		m.mu.Unlock()
	}

	ns := d.Nanoseconds()
	count := m.probeCount.Add(1)

	// Running average: newAvg = oldAvg + (newValue - oldAvg) / count
	for {
		oldAvg := m.avgProbeNs.Load()
		newAvg := oldAvg + (ns-oldAvg)/count
		if m.avgProbeNs.CompareAndSwap(oldAvg, newAvg) {
			break
		}
		count = m.probeCount.Load()
		if count == 0 {
			count = 1
		}
	}
}

// RecordScan records the completion time and duration of a full rescan.
func (m *Metrics) RecordScan(d time.Duration) {
	m.ScansCompleted.Add(1)
	m.lastScanNs.Store(d.Nanoseconds())
	m.lastScan.Store(time.Now())
}

// Uptime returns the duration since the metrics instance was created.
func (m *Metrics) Uptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// AvgProbe returns the average probe duration.
// Returns 0 if no probe has been recorded.
func (m *Metrics) AvgProbe() time.Duration {
	return time.Duration(m.avgProbeNs.Load())
}

// FailuresByKind returns a copy of the failure counters keyed by failure kind.
func (m *Metrics) FailuresByKind() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.failureKinds)
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Timestamp:         time.Now(),
		Uptime:            m.Uptime().Round(time.Millisecond).String(),
		ScansStarted:      m.ScansStarted.Load(),
		ScansCompleted:    m.ScansCompleted.Load(),
		ScansCanceled:     m.ScansCanceled.Load(),
		CandidatesFound:   m.CandidatesFound.Load(),
		ProbesSucceeded:   m.ProbesSucceeded.Load(),
		ProbesFailed:      m.ProbesFailed.Load(),
		EffectsFound:      m.EffectsFound.Load(),
		ShellEffects:      m.ShellEffects.Load(),
		CacheLoads:        m.CacheLoads.Load(),
		CacheLoadFailures: m.CacheLoadFailures.Load(),
		CacheSaves:        m.CacheSaves.Load(),
		CacheSaveFailures: m.CacheSaveFailures.Load(),
		FailuresByKind:    m.FailuresByKind(),
		AvgProbeMs:        float64(m.avgProbeNs.Load()) / float64(time.Millisecond),
		LastScanMs:        float64(m.lastScanNs.Load()) / float64(time.Millisecond),
	}

	if len(snap.FailuresByKind) == 0 {
		snap.FailuresByKind = nil
	}

	if v := m.lastScan.Load(); v != nil {
		if t, ok := v.(time.Time); ok && !t.IsZero() {
			snap.LastScan = t.Format(time.RFC3339)
		}
	}

	return snap
}

// ToJSON returns a JSON-encoded representation of the current metrics snapshot.
func (m *Metrics) ToJSON() ([]byte, error) {
	snap := m.Snapshot()
	return json.Marshal(snap)
}

// Reset resets all metric counters to zero while preserving the start time.
func (m *Metrics) Reset() {
	m.ScansStarted.Store(0)
	m.ScansCompleted.Store(0)
	m.ScansCanceled.Store(0)
	m.CandidatesFound.Store(0)
	m.ProbesSucceeded.Store(0)
	m.ProbesFailed.Store(0)
	m.EffectsFound.Store(0)
	m.ShellEffects.Store(0)
	m.CacheLoads.Store(0)
	m.CacheLoadFailures.Store(0)
	m.CacheSaves.Store(0)
	m.CacheSaveFailures.Store(0)
	m.avgProbeNs.Store(0)
	m.probeCount.Store(0)
	m.lastScanNs.Store(0)

	m.mu.Lock()
	m.failureKinds = make(map[string]int64)
	m.startTime = time.Now()
	m.mu.Unlock()
}
