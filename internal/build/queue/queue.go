// Package queue runs file build jobs on a bounded pool of workers.
package queue

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
)

// Status represents the current status of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// ErrQueueFull is returned by Enqueue when no slot is free.
var ErrQueueFull = stdErrors.New("build queue is full")

// ErrClosed is returned when enqueuing into a closed queue.
var ErrClosed = stdErrors.New("build queue is closed")

// Job is one file to build.
type Job struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Error       string        `json:"error,omitempty"`

	cancel context.CancelFunc
}

// Handler executes a job.
type Handler interface {
	Handle(ctx context.Context, job *Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job *Job) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, job *Job) error { return f(ctx, job) }

// Observer is notified about job lifecycle transitions.
type Observer interface {
	JobStarted(job *Job, workerID string)
	JobFinished(job *Job, err error)
}

// Queue manages jobs and the workers consuming them.
type Queue struct {
	jobs        chan *Job
	workers     int
	maxSize     int
	mu          sync.RWMutex
	active      map[string]*Job
	history     []*Job
	historySize int
	stopChan    chan struct{}
	stopOnce    sync.Once
	closeOnce   sync.Once
	closeMu     sync.RWMutex
	closed      bool
	wg          sync.WaitGroup
	handler     Handler
	observer    Observer
	logger      *slog.Logger
}

// New creates a queue with the given capacity, worker count and handler.
func New(maxSize, workers int, handler Handler) *Queue {
	if maxSize <= 0 {
		maxSize = 100
	}
	if workers <= 0 {
		workers = 2
	}
	if handler == nil {
		panic("queue.New: handler is required")
	}
	return &Queue{
		jobs:        make(chan *Job, maxSize),
		workers:     workers,
		maxSize:     maxSize,
		active:      make(map[string]*Job),
		history:     make([]*Job, 0),
		historySize: maxSize,
		stopChan:    make(chan struct{}),
		handler:     handler,
		logger:      slog.Default(),
	}
}

// SetObserver injects a lifecycle observer.
func (q *Queue) SetObserver(o Observer) { q.observer = o }

// SetLogger sets a custom logger.
func (q *Queue) SetLogger(logger *slog.Logger) {
	if logger != nil {
		q.logger = logger
	}
}

// Start begins processing jobs with the configured number of workers.
func (q *Queue) Start(ctx context.Context) {
	q.logger.Debug("Starting build queue", "workers", q.workers, "max_size", q.maxSize)
	for i := range q.workers {
		q.wg.Add(1)
		go q.worker(ctx, fmt.Sprintf("worker-%d", i))
	}
}

// Enqueue adds a job without blocking.
func (q *Queue) Enqueue(job *Job) error {
	if job == nil {
		return stdErrors.New("job cannot be nil")
	}
	if job.ID == "" {
		return stdErrors.New("job ID is required")
	}

	q.closeMu.RLock()
	defer q.closeMu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	q.prepare(job)
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Submit adds a job, waiting for a free slot until ctx is done.
func (q *Queue) Submit(ctx context.Context, job *Job) error {
	if job == nil || job.ID == "" {
		return stdErrors.New("job with ID is required")
	}
	q.closeMu.RLock()
	defer q.closeMu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	q.prepare(job)
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) prepare(job *Job) {
	job.Status = StatusQueued
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
}

// Close stops accepting jobs; workers exit once the backlog is drained.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.closeMu.Lock()
		q.closed = true
		close(q.jobs)
		q.closeMu.Unlock()
	})
}

// Wait blocks until every worker has exited.
func (q *Queue) Wait() { q.wg.Wait() }

// Stop cancels active jobs and shuts the workers down without draining.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.stopChan) })

	q.mu.Lock()
	for _, job := range q.active {
		if job.cancel != nil {
			job.cancel()
		}
	}
	q.mu.Unlock()

	q.wg.Wait()
}

// Length returns the current backlog.
func (q *Queue) Length() int { return len(q.jobs) }

// Active returns copies of the running jobs.
func (q *Queue) Active() []Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	active := make([]Job, 0, len(q.active))
	for _, job := range q.active {
		active = append(active, *job)
	}
	return active
}

// Snapshot returns a copy of a job (active first, then history).
func (q *Queue) Snapshot(id string) (Job, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if j, ok := q.active[id]; ok {
		return *j, true
	}
	for _, j := range q.history {
		if j.ID == id {
			return *j, true
		}
	}
	return Job{}, false
}

func (q *Queue) worker(ctx context.Context, workerID string) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopChan:
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			if job != nil {
				q.processJob(ctx, job, workerID)
			}
		}
	}
}

func (q *Queue) processJob(ctx context.Context, job *Job, workerID string) {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startTime := time.Now()
	q.mu.Lock()
	job.cancel = cancel
	job.StartedAt = &startTime
	job.Status = StatusRunning
	q.active[job.ID] = job
	q.mu.Unlock()

	if q.observer != nil {
		q.observer.JobStarted(job, workerID)
	}

	err := q.handler.Handle(jobCtx, job)

	q.markJobCompleted(job, err)
	if err != nil {
		q.logger.Debug("Build job failed", logfields.Path(job.Path), logfields.Worker(workerID), logfields.Error(err))
	}
	if q.observer != nil {
		q.observer.JobFinished(job, err)
	}
}

func (q *Queue) markJobCompleted(job *Job, err error) {
	endTime := time.Now()
	q.mu.Lock()
	defer q.mu.Unlock()

	job.CompletedAt = &endTime
	if job.StartedAt != nil {
		job.Duration = endTime.Sub(*job.StartedAt)
	}
	delete(q.active, job.ID)
	switch {
	case err == nil:
		job.Status = StatusCompleted
	case stdErrors.Is(err, context.Canceled):
		job.Status = StatusCanceled
		job.Error = err.Error()
	default:
		job.Status = StatusFailed
		job.Error = err.Error()
	}
	q.addToHistory(job)
}

func (q *Queue) addToHistory(job *Job) {
	q.history = append(q.history, job)
	if len(q.history) > q.historySize {
		copy(q.history, q.history[len(q.history)-q.historySize:])
		q.history = q.history[:q.historySize]
	}
}
