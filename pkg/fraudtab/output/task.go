package output

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"go.uber.org/zap"
)

// TaskState is the outcome of an export task so far.
type TaskState string

const (
	TaskInFlight  TaskState = "in_flight"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// TaskResult is what a finished task produced.
type TaskResult struct {
	Path     string
	Err      error
	Duration time.Duration
}

// Task is one export running in the background. Tasks share no mutable
// state, so exports of different formats may run concurrently in any order.
type Task struct {
	ID     string
	Format Format

	done chan struct{}

	mu     sync.Mutex
	state  TaskState
	result TaskResult
}

// Exporter starts export tasks writing into one directory.
type Exporter struct {
	dir    string
	logger *zap.Logger
}

// NewExporter returns an Exporter writing into dir. A nil logger discards logs.
func NewExporter(dir string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{dir: dir, logger: logger}
}

// Start launches an export of raw and returns immediately.
// A failed task is never retried.
func (e *Exporter) Start(raw models.RawValue, format Format, opts Options) *Task {
	t := &Task{
		ID:     uuid.NewString(),
		Format: format,
		done:   make(chan struct{}),
		state:  TaskInFlight,
	}
	log := e.logger.With(zap.String("task_id", t.ID), zap.String("format", string(format)))
	log.Debug("export started")

	go func() {
		start := time.Now()
		path, err := ExportFile(e.dir, raw, format, opts)
		t.finish(TaskResult{Path: path, Err: err, Duration: time.Since(start)})
		if err != nil {
			log.Error("export failed", zap.Error(err))
			return
		}
		log.Info("export written", zap.String("path", path), zap.Duration("duration", time.Since(start)))
	}()
	return t
}

func (t *Task) finish(res TaskResult) {
	t.mu.Lock()
	t.result = res
	if res.Err != nil {
		t.state = TaskFailed
	} else {
		t.state = TaskSucceeded
	}
	t.mu.Unlock()
	close(t.done)
}

// State returns the current outcome.
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx ends. Cancelling ctx stops the
// wait, not the export.
func (t *Task) Wait(ctx context.Context) (TaskResult, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.result, t.result.Err
	case <-ctx.Done():
		return TaskResult{}, ctx.Err()
	}
}
