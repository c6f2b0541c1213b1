// Package controller drives one screening run through its escalating phases.
package controller

import (
	"context"
	"log/slog"
	"time"

	regmodels "lexscreen/internal/regulation/models"
	"lexscreen/internal/screening/differ"
	"lexscreen/internal/screening/models"
	id "lexscreen/pkg/domain"
)

// State is the controller's position in the run state machine.
type State string

const (
	StateNotStarted    State = "not_started"
	StatePhase1Running State = "phase1_running"
	StatePhase1Done    State = "phase1_done"
	StatePhase2Running State = "phase2_running"
	StatePhase2Done    State = "phase2_done"
	StatePhase3Running State = "phase3_running"
	StateCompleted     State = "completed"
	StateErrored       State = "errored"
	StateCancelled     State = "cancelled"
)

func runningState(phase models.ComplexityLevel) State {
	switch phase {
	case models.ComplexityEnhanced:
		return StatePhase2Running
	case models.ComplexityComprehensive:
		return StatePhase3Running
	default:
		return StatePhase1Running
	}
}

// doneState maps a finished phase to its state. Phase 3 has no intermediate
// done state; finishing it completes the run.
func doneState(phase models.ComplexityLevel) State {
	switch phase {
	case models.ComplexityEnhanced:
		return StatePhase2Done
	case models.ComplexityComprehensive:
		return StateCompleted
	default:
		return StatePhase1Done
	}
}

// PhaseRunner executes a single screening phase.
type PhaseRunner interface {
	ExecutePhase(ctx context.Context, strategy models.Strategy, phase models.ComplexityLevel) (*models.PhaseResult, error)
}

// Run is everything the controller needs to execute one screening run. The
// Publish callback is the run's broadcast channel; Cancelled is the advisory
// cancellation flag consulted at phase boundaries only.
type Run struct {
	OrgID    id.OrgID
	RunID    id.RunID
	Trigger  string
	Strategy models.Strategy

	Publish   func(models.Event)
	Cancelled func() bool
}

// Outcome is the terminal result of a run.
type Outcome struct {
	Status    models.RunStatus
	State     State
	PhasesRun int
	Err       error
}

// Controller orchestrates phases sequentially and diffs each phase's result
// against its immediate predecessor. It is stateless across runs; one Execute
// call carries the full lifecycle of one run.
type Controller struct {
	runner PhaseRunner
	logger *slog.Logger
	now    func() time.Time
}

func New(runner PhaseRunner, logger *slog.Logger) *Controller {
	return &Controller{runner: runner, logger: logger, now: time.Now}
}

// Execute runs all justified phases in order and publishes the run's event
// sequence: stream_started, then phase_started/phase_completed pairs, then
// exactly one terminal event. Phases never run in parallel; each diff is
// defined against the phase immediately before it.
func (c *Controller) Execute(ctx context.Context, run Run) Outcome {
	run.Publish(models.Event{
		Type:      models.EventStreamStarted,
		Timestamp: c.now(),
		RunID:     run.RunID,
		OrgID:     run.OrgID,
		Trigger:   run.Trigger,
	})

	state := StateNotStarted
	phasesRun := 0
	var prevSample []regmodels.Ref

	phase := models.ComplexityBasic
	for {
		if c.cancelled(ctx, run) {
			state = StateCancelled
			c.logger.InfoContext(ctx, "run cancelled at phase boundary",
				slog.String("run_id", run.RunID.String()),
				slog.String("next_phase", string(phase)),
				slog.Int("phases_run", phasesRun),
			)
			run.Publish(c.terminalEvent(run, models.EventStreamCompleted, phasesRun, ""))
			return Outcome{Status: models.RunCancelled, State: state, PhasesRun: phasesRun}
		}

		state = runningState(phase)
		run.Publish(models.Event{
			Type:      models.EventPhaseStarted,
			Timestamp: c.now(),
			RunID:     run.RunID,
			OrgID:     run.OrgID,
			Phase:     phase,
		})

		result, err := c.runner.ExecutePhase(ctx, run.Strategy, phase)
		if err != nil {
			state = StateErrored
			run.Publish(c.terminalEvent(run, models.EventStreamError, phasesRun, err.Error()))
			return Outcome{Status: models.RunErrored, State: state, PhasesRun: phasesRun, Err: err}
		}

		state = doneState(phase)
		phasesRun++

		var d models.Diff
		if phase == models.ComplexityBasic {
			d = differ.Initial(result.Sample)
		} else {
			d = differ.Diff(prevSample, result.Sample)
		}
		prevSample = result.Sample

		next, escalate := c.nextPhase(run.Strategy, phase)

		completed := models.Event{
			Type:      models.EventPhaseCompleted,
			Timestamp: c.now(),
			RunID:     run.RunID,
			OrgID:     run.OrgID,
			Phase:     phase,
			Result:    result,
			Diff:      &d,
		}
		if escalate {
			completed.NextPhase = &next
		}
		run.Publish(completed)

		if !escalate {
			state = StateCompleted
			run.Publish(c.terminalEvent(run, models.EventStreamCompleted, phasesRun, ""))
			return Outcome{Status: models.RunCompleted, State: state, PhasesRun: phasesRun}
		}
		phase = next
	}
}

// nextPhase applies the escalation gates: enhanced requires a recommendation
// of at least enhanced, comprehensive requires exactly comprehensive. A phase
// never starts unless its predecessor completed successfully.
func (c *Controller) nextPhase(strategy models.Strategy, done models.ComplexityLevel) (models.ComplexityLevel, bool) {
	next, ok := done.Next()
	if !ok {
		return "", false
	}
	if !strategy.Score.Recommended.AtLeast(next) {
		return "", false
	}
	return next, true
}

func (c *Controller) cancelled(ctx context.Context, run Run) bool {
	if run.Cancelled != nil && run.Cancelled() {
		return true
	}
	return ctx.Err() != nil
}

func (c *Controller) terminalEvent(run Run, t models.EventType, phasesRun int, errMsg string) models.Event {
	return models.Event{
		Type:           t,
		Timestamp:      c.now(),
		RunID:          run.RunID,
		OrgID:          run.OrgID,
		TotalPhasesRun: phasesRun,
		ErrorMessage:   errMsg,
	}
}
