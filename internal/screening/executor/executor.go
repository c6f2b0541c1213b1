package executor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lexscreen/internal/regulation/store"
	"lexscreen/internal/screening/metrics"
	"lexscreen/internal/screening/models"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/sentinel"
)

// Soft wall-clock budgets per phase. A phase exceeding its budget completes
// normally and is flagged for observability; budgets never abort work.
const (
	BasicBudget         = 100 * time.Millisecond
	EnhancedBudget      = 500 * time.Millisecond
	ComprehensiveBudget = 2 * time.Second
)

// BudgetFor returns the soft time budget for a phase level.
func BudgetFor(phase models.ComplexityLevel) time.Duration {
	switch phase {
	case models.ComplexityEnhanced:
		return EnhancedBudget
	case models.ComplexityComprehensive:
		return ComprehensiveBudget
	default:
		return BasicBudget
	}
}

// Executor runs a single screening phase against the regulation corpus.
type Executor struct {
	regulations store.Store
	logger      *slog.Logger
	metrics     *metrics.Metrics

	// now is injectable for deterministic timing in tests.
	now func() time.Time
}

func New(regulations store.Store, logger *slog.Logger, m *metrics.Metrics) *Executor {
	return &Executor{
		regulations: regulations,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

// ExecutePhase runs one phase of the given strategy and returns its result.
// Store failures surface as coded query errors; the caller decides whether
// partial results from earlier phases remain usable.
func (e *Executor) ExecutePhase(ctx context.Context, strategy models.Strategy, phase models.ComplexityLevel) (*models.PhaseResult, error) {
	if phase.Number() == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown screening phase: "+string(phase))
	}

	params := strategy.ParamsFor(phase)

	started := e.now()
	qr, err := e.regulations.FindRegulations(ctx, params)
	elapsed := e.now().Sub(started)

	overBudget := elapsed > BudgetFor(phase)
	e.metrics.ObservePhase(string(phase), elapsed, overBudget, err)

	if err != nil {
		e.logger.ErrorContext(ctx, "phase query failed",
			slog.String("phase", string(phase)),
			slog.Int64("elapsed_ms", elapsed.Milliseconds()),
			slog.Any("error", err),
		)
		msg := "phase " + string(phase) + " query failed"
		if errors.Is(err, sentinel.ErrUnavailable) {
			msg = "regulation store unavailable during phase " + string(phase)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeQueryFailed, msg)
	}

	if overBudget {
		e.logger.WarnContext(ctx, "phase exceeded soft budget",
			slog.String("phase", string(phase)),
			slog.Int64("elapsed_ms", elapsed.Milliseconds()),
			slog.Int64("budget_ms", BudgetFor(phase).Milliseconds()),
		)
	}

	return &models.PhaseResult{
		Phase:           phase,
		RegulationCount: qr.Count,
		Sample:          qr.Sample,
		ExecutionTimeMS: elapsed.Milliseconds(),
		Optimization:    qr.OptimizationApplied,
		OverBudget:      overBudget,
	}, nil
}
