package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"go.uber.org/zap"
)

// DefaultHealthInterval is the time between two health checks.
const DefaultHealthInterval = 30 * time.Second

// Status is the last known health of the service.
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// HealthChecker is implemented by Client.
type HealthChecker interface {
	Health(ctx context.Context) (models.RawValue, error)
}

// Snapshot is the monitor state at one point in time.
type Snapshot struct {
	Status    Status    `json:"status"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Monitor polls a HealthChecker on a fixed interval. It shares nothing with
// analysis calls, so a failing check never affects one in progress.
type Monitor struct {
	checker  HealthChecker
	interval time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	last     Snapshot
	onChange func(prev, cur Snapshot)
}

// NewMonitor creates a new Monitor. A non-positive interval means DefaultHealthInterval.
func NewMonitor(checker HealthChecker, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		logger:   logger,
		last:     Snapshot{Status: StatusUnknown},
	}
}

// OnChange registers fn to be called whenever the status changes.
// It must be set before Run.
func (m *Monitor) OnChange(fn func(prev, cur Snapshot)) {
	m.onChange = fn
}

// Run checks immediately and then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check performs one health check, bounded by the monitor interval.
func (m *Monitor) Check(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	snap := Snapshot{Status: StatusHealthy, CheckedAt: time.Now()}
	if _, err := m.checker.Health(ctx); err != nil {
		snap.Status = StatusUnhealthy
		snap.Error = err.Error()
	}

	m.mu.Lock()
	prev := m.last
	m.last = snap
	m.mu.Unlock()

	if prev.Status != snap.Status {
		m.logger.Info("upstream health changed",
			zap.String("from", string(prev.Status)),
			zap.String("to", string(snap.Status)),
			zap.String("error", snap.Error))
		if m.onChange != nil {
			m.onChange(prev, snap)
		}
	}
	return snap
}

// Snapshot returns the last check result.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}
