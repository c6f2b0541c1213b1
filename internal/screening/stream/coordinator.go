// Package stream owns the per-run broadcast channels and the lifecycle of
// screening runs executing in the background.
package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"lexscreen/internal/audit"
	"lexscreen/internal/screening/controller"
	"lexscreen/internal/screening/metrics"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/strategy"
	"lexscreen/pkg/attrs"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/requestcontext"
)

const (
	defaultMaxConcurrentRuns = 16
	defaultSubscriberBuffer  = 32
)

// runExecutor lets tests substitute the escalation controller.
type runExecutor interface {
	Execute(ctx context.Context, run controller.Run) controller.Outcome
}

// Coordinator creates runs, fans their events out to subscribers, and tracks
// run status past channel teardown so late callers can still query it.
type Coordinator struct {
	builder  *strategy.Builder
	executor runExecutor
	audit    *audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// sem bounds concurrently executing runs. Runs beyond the limit stay
	// in initiated status until a slot frees up.
	sem              *semaphore.Weighted
	subscriberBuffer int

	mu   sync.RWMutex
	runs map[id.RunID]*run

	now func() time.Time
}

// run is one broadcast channel plus its lifecycle state. The executing
// goroutine is the only publisher; subscribers attach and detach freely.
type run struct {
	orgID     id.OrgID
	runID     id.RunID
	key       string
	trigger   string
	level     models.ComplexityLevel
	score     float64
	startedAt time.Time

	mu          sync.RWMutex
	status      models.RunStatus
	phasesRun   int
	finishedAt  time.Time
	cancelled   bool
	subscribers map[*Subscription]struct{}
}

// Subscription is one subscriber's bounded event feed. Events arrive on C;
// it is closed when the run reaches a terminal status or on unsubscribe.
type Subscription struct {
	C <-chan models.Event

	ch     chan models.Event
	closed bool
}

// RunHandle is what a caller gets back from StartRun.
type RunHandle struct {
	RunID  id.RunID
	OrgID  id.OrgID
	Key    string
	Status models.RunStatus
	Level  models.ComplexityLevel
}

// Snapshot is a point-in-time view of a run's state.
type Snapshot struct {
	RunID      id.RunID               `json:"run_id"`
	OrgID      id.OrgID               `json:"organization_id"`
	Key        string                 `json:"run_key"`
	Status     models.RunStatus       `json:"status"`
	Level      models.ComplexityLevel `json:"recommended_complexity"`
	Score      float64                `json:"total_score"`
	PhasesRun  int                    `json:"phases_run"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt *time.Time             `json:"finished_at,omitempty"`
}

type Option func(*Coordinator)

func WithMaxConcurrentRuns(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

func WithSubscriberBuffer(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.subscriberBuffer = n
		}
	}
}

func New(builder *strategy.Builder, executor runExecutor, auditPub *audit.Publisher, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		builder:          builder,
		executor:         executor,
		audit:            auditPub,
		metrics:          m,
		logger:           logger,
		sem:              semaphore.NewWeighted(defaultMaxConcurrentRuns),
		subscriberBuffer: defaultSubscriberBuffer,
		runs:             make(map[id.RunID]*run),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartRun builds the strategy for the profile snapshot and spawns the run's
// background execution. It returns immediately; progress is observed through
// Subscribe or Status.
func (c *Coordinator) StartRun(ctx context.Context, profile models.Profile, trigger string) (*RunHandle, error) {
	if profile.OrgID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "organization ID is required")
	}

	plan := c.builder.Build(profile)
	runID := id.NewRunID()
	startedAt := requestcontext.Now(ctx)

	r := &run{
		orgID:       profile.OrgID,
		runID:       runID,
		key:         models.RunKey(profile.OrgID, runID, startedAt),
		trigger:     trigger,
		level:       plan.Level,
		score:       plan.Score.TotalScore,
		startedAt:   startedAt,
		status:      models.RunInitiated,
		subscribers: make(map[*Subscription]struct{}),
	}

	c.mu.Lock()
	c.runs[runID] = r
	c.mu.Unlock()

	c.logAudit(ctx, r, audit.ActionRunStarted,
		"outcome", string(models.RunInitiated),
		"trigger", trigger,
		"recommended_complexity", string(plan.Level),
	)

	// Detach from the request lifetime but keep request-scoped values for
	// log correlation.
	go c.execute(context.WithoutCancel(ctx), r, plan)

	return &RunHandle{
		RunID:  runID,
		OrgID:  profile.OrgID,
		Key:    r.key,
		Status: models.RunInitiated,
		Level:  plan.Level,
	}, nil
}

func (c *Coordinator) execute(ctx context.Context, r *run, plan models.Strategy) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		c.finish(ctx, r, controller.Outcome{Status: models.RunErrored, Err: err})
		return
	}
	defer c.sem.Release(1)

	// The run may have been cancelled while queued for a slot.
	if r.isCancelled() {
		r.publish(c.metrics, models.Event{
			Type:      models.EventStreamCompleted,
			Timestamp: c.now(),
			RunID:     r.runID,
			OrgID:     r.orgID,
		})
		c.finish(ctx, r, controller.Outcome{Status: models.RunCancelled})
		return
	}

	r.setStatus(models.RunRunning)
	c.metrics.RunStarted()
	defer c.metrics.RunFinished()

	outcome := c.executor.Execute(ctx, controller.Run{
		OrgID:     r.orgID,
		RunID:     r.runID,
		Trigger:   r.trigger,
		Strategy:  plan,
		Publish:   func(e models.Event) { r.publish(c.metrics, e) },
		Cancelled: r.isCancelled,
	})
	c.finish(ctx, r, outcome)
}

// finish records the terminal status, closes all subscriber channels, and
// emits the audit trail entry.
func (c *Coordinator) finish(ctx context.Context, r *run, outcome controller.Outcome) {
	r.mu.Lock()
	r.status = outcome.Status
	r.phasesRun = outcome.PhasesRun
	r.finishedAt = c.now()
	for sub := range r.subscribers {
		sub.closed = true
		close(sub.ch)
		c.metrics.SubscriberDetached()
	}
	r.subscribers = make(map[*Subscription]struct{})
	r.mu.Unlock()

	c.metrics.IncrementRun(string(outcome.Status))

	action := audit.ActionRunCompleted
	switch outcome.Status {
	case models.RunErrored:
		action = audit.ActionRunErrored
	case models.RunCancelled:
		action = audit.ActionRunCancelled
	}
	c.logAudit(ctx, r, action,
		"outcome", string(outcome.Status),
		"phases_run", outcome.PhasesRun,
	)

	if outcome.Err != nil {
		c.logger.ErrorContext(ctx, "screening run failed",
			slog.String("run_id", r.runID.String()),
			slog.Int("phases_run", outcome.PhasesRun),
			slog.Any("error", outcome.Err),
		)
	}
}

// Subscribe attaches a new subscriber to the run's broadcast channel. Only
// events published after attachment are delivered; there is no replay. A
// subscriber attaching to a finished run gets an immediately closed channel.
func (c *Coordinator) Subscribe(runID id.RunID) (*Subscription, error) {
	r, err := c.lookup(runID)
	if err != nil {
		return nil, err
	}

	ch := make(chan models.Event, c.subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch}

	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		sub.closed = true
		close(ch)
		return sub, nil
	}
	r.subscribers[sub] = struct{}{}
	r.mu.Unlock()

	c.metrics.SubscriberAttached()
	return sub, nil
}

// Unsubscribe detaches a subscriber and closes its channel. Idempotent:
// detaching an already-detached or terminal-closed subscription is a no-op.
func (c *Coordinator) Unsubscribe(runID id.RunID, sub *Subscription) {
	r, err := c.lookup(runID)
	if err != nil || sub == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[sub]; !ok {
		return
	}
	delete(r.subscribers, sub)
	sub.closed = true
	close(sub.ch)
	c.metrics.SubscriberDetached()
}

// Status returns a snapshot of the run's current state.
func (c *Coordinator) Status(runID id.RunID) (*Snapshot, error) {
	r, err := c.lookup(runID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := &Snapshot{
		RunID:     r.runID,
		OrgID:     r.orgID,
		Key:       r.key,
		Status:    r.status,
		Level:     r.level,
		Score:     r.score,
		PhasesRun: r.phasesRun,
		StartedAt: r.startedAt,
	}
	if !r.finishedAt.IsZero() {
		t := r.finishedAt
		snap.FinishedAt = &t
	}
	return snap, nil
}

// Cancel requests advisory cancellation. The run stops at its next phase
// boundary; cancelling a finished run is a no-op.
func (c *Coordinator) Cancel(runID id.RunID) error {
	r, err := c.lookup(runID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.Terminal() {
		r.cancelled = true
	}
	return nil
}

func (c *Coordinator) lookup(runID id.RunID) (*run, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.runs[runID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "screening run not found")
	}
	return r, nil
}

func (c *Coordinator) logAudit(ctx context.Context, r *run, action string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "run_key", r.key, "event", action, "log_type", "audit")
	c.logger.InfoContext(ctx, action, args...)

	c.audit.Emit(ctx, audit.Event{
		OrgID:   r.orgID,
		RunID:   r.runID,
		Action:  action,
		Trigger: r.trigger,
		Outcome: attrs.ExtractString(attributes, "outcome"),
		Detail:  attrs.ExtractString(attributes, "detail"),
	})
}

// publish fans one event out to every attached subscriber. Delivery is
// best-effort per subscriber: a full buffer drops the event for that
// subscriber only, never blocking the run.
func (r *run) publish(m *metrics.Metrics, e models.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for sub := range r.subscribers {
		select {
		case sub.ch <- e:
		default:
			m.IncrementDropped()
		}
	}
}

func (r *run) setStatus(s models.RunStatus) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

func (r *run) isCancelled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cancelled
}
