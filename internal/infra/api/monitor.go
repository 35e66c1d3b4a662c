package api

import (
	"sync"
	"time"
)

// EndpointStatus represents the health state of the reporting endpoint as
// observed from this process.
type EndpointStatus string

const (
	StatusHealthy   EndpointStatus = "healthy"
	StatusDegraded  EndpointStatus = "degraded"
	StatusThrottled EndpointStatus = "throttled"
)

// MonitorSnapshot is a point-in-time view of endpoint health, served on
// the ops /health route.
type MonitorSnapshot struct {
	Status         EndpointStatus `json:"status"`
	AverageLatency string         `json:"average_latency"`
	SuccessCount   int            `json:"success_count"`
	FailureCount   int            `json:"failure_count"`
	ThrottleCount  int            `json:"throttle_count"`
	LastSuccessAt  time.Time      `json:"last_success_at,omitzero"`
	LastFailureAt  time.Time      `json:"last_failure_at,omitzero"`
}

// EndpointMonitor tracks latency and failure rates of the reporting
// endpoint over a sliding window of recent calls.
type EndpointMonitor struct {
	mu sync.RWMutex

	recentLatencies  []time.Duration
	maxLatencyWindow int

	successCount  int
	failureCount  int
	throttleCount int

	lastSuccessAt    time.Time
	lastFailureAt    time.Time
	lastThrottleTime time.Time

	recentOutcomes []bool // sliding success/failure window
	maxOutcomes    int

	slowResponseThreshold time.Duration
	degradedThreshold     float64
	throttleCooldown      time.Duration
}

// NewEndpointMonitor creates a monitor with default thresholds.
func NewEndpointMonitor() *EndpointMonitor {
	return &EndpointMonitor{
		recentLatencies:       make([]time.Duration, 0, 100),
		maxLatencyWindow:      100,
		recentOutcomes:        make([]bool, 0, 50),
		maxOutcomes:           50,
		slowResponseThreshold: 3 * time.Second,
		degradedThreshold:     0.3, // 30% error rate
		throttleCooldown:      time.Minute,
	}
}

// RecordSuccess records a successful call with its latency.
func (m *EndpointMonitor) RecordSuccess(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.successCount++
	m.lastSuccessAt = time.Now()

	m.recentLatencies = append(m.recentLatencies, latency)
	if len(m.recentLatencies) > m.maxLatencyWindow {
		m.recentLatencies = m.recentLatencies[1:]
	}
	m.pushOutcome(true)
}

// RecordFailure records a failed call. Rate-limit statuses additionally
// mark the endpoint as throttled for a cooldown period.
func (m *EndpointMonitor) RecordFailure(httpStatus int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failureCount++
	m.lastFailureAt = time.Now()

	if httpStatus == 429 {
		m.throttleCount++
		m.lastThrottleTime = time.Now()
	}
	m.pushOutcome(false)
}

func (m *EndpointMonitor) pushOutcome(ok bool) {
	m.recentOutcomes = append(m.recentOutcomes, ok)
	if len(m.recentOutcomes) > m.maxOutcomes {
		m.recentOutcomes = m.recentOutcomes[1:]
	}
}

// Status returns the current health verdict.
func (m *EndpointMonitor) Status() EndpointStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statusLocked()
}

func (m *EndpointMonitor) statusLocked() EndpointStatus {
	if time.Since(m.lastThrottleTime) < m.throttleCooldown && m.throttleCount > 0 {
		return StatusThrottled
	}

	if len(m.recentOutcomes) >= 10 {
		failures := 0
		for _, ok := range m.recentOutcomes {
			if !ok {
				failures++
			}
		}
		if float64(failures)/float64(len(m.recentOutcomes)) >= m.degradedThreshold {
			return StatusDegraded
		}
	}

	if avg := m.averageLatencyLocked(); avg > m.slowResponseThreshold {
		return StatusDegraded
	}

	return StatusHealthy
}

func (m *EndpointMonitor) averageLatencyLocked() time.Duration {
	if len(m.recentLatencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, l := range m.recentLatencies {
		total += l
	}
	return total / time.Duration(len(m.recentLatencies))
}

// Snapshot returns a copy of the monitor state.
func (m *EndpointMonitor) Snapshot() MonitorSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MonitorSnapshot{
		Status:         m.statusLocked(),
		AverageLatency: m.averageLatencyLocked().String(),
		SuccessCount:   m.successCount,
		FailureCount:   m.failureCount,
		ThrottleCount:  m.throttleCount,
		LastSuccessAt:  m.lastSuccessAt,
		LastFailureAt:  m.lastFailureAt,
	}
}
