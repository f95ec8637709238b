package upstream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
)

type fakeChecker struct {
	mu    sync.Mutex
	err   error
	calls atomic.Int32
}

func (f *fakeChecker) Health(ctx context.Context) (models.RawValue, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.NewNull(), f.err
}

func (f *fakeChecker) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func TestMonitorStartsUnknown(t *testing.T) {
	m := NewMonitor(&fakeChecker{}, time.Minute, nil)
	assert.Equal(t, StatusUnknown, m.Snapshot().Status)
}

func TestMonitorCheck(t *testing.T) {
	checker := &fakeChecker{}
	m := NewMonitor(checker, time.Minute, nil)

	assert.Equal(t, StatusHealthy, m.Check(context.Background()).Status)

	checker.fail(errors.New("connection refused"))
	snap := m.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, snap.Status)
	assert.Equal(t, "connection refused", snap.Error)
	assert.Equal(t, snap, m.Snapshot())
}

func TestMonitorRunPollsUntilCancelled(t *testing.T) {
	checker := &fakeChecker{}
	m := NewMonitor(checker, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return checker.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusHealthy, m.Snapshot().Status)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMonitorDefaultInterval(t *testing.T) {
	m := NewMonitor(&fakeChecker{}, 0, nil)
	assert.Equal(t, DefaultHealthInterval, m.interval)
}

func TestMonitorOnChange(t *testing.T) {
	checker := &fakeChecker{}
	m := NewMonitor(checker, time.Minute, nil)

	var changes []Status
	m.OnChange(func(prev, cur Snapshot) {
		changes = append(changes, cur.Status)
	})

	m.Check(context.Background())
	m.Check(context.Background())
	checker.fail(errors.New("down"))
	m.Check(context.Background())

	assert.Equal(t, []Status{StatusHealthy, StatusUnhealthy}, changes)
}
