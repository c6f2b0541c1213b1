package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	regmodels "lexscreen/internal/regulation/models"
	"lexscreen/internal/screening/models"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/sentinel"
)

type fakeStore struct {
	result     *regmodels.QueryResult
	err        error
	lastParams regmodels.QueryParams
	delay      time.Duration
	clock      *fakeClock
}

func (f *fakeStore) FindRegulations(_ context.Context, params regmodels.QueryParams) (*regmodels.QueryResult, error) {
	f.lastParams = params
	if f.clock != nil {
		f.clock.advance(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func strategyFor(level models.ComplexityLevel) models.Strategy {
	return models.Strategy{
		Level: level,
		QueryParams: map[models.ComplexityLevel]regmodels.QueryParams{
			models.ComplexityBasic:         {Families: []string{"data-protection"}, InForceOnly: true},
			models.ComplexityEnhanced:      {Families: []string{"data-protection"}, InForceOnly: true, Employees: 120},
			models.ComplexityComprehensive: {Families: []string{"data-protection"}, InForceOnly: true, Employees: 120, Sector: "finance"},
		},
	}
}

type ExecutorSuite struct {
	suite.Suite
	store *fakeStore
	clock *fakeClock
	exec  *Executor
}

func (s *ExecutorSuite) SetupTest() {
	s.clock = &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s.store = &fakeStore{
		clock: s.clock,
		result: &regmodels.QueryResult{
			Count: 4,
			Sample: []regmodels.Ref{
				{ID: "ukpga-2018-12", Title: "Data Protection Act 2018", Family: "data-protection"},
			},
			OptimizationApplied: true,
		},
	}
	s.exec = New(s.store, slog.New(slog.DiscardHandler), nil)
	s.exec.now = s.clock.now
}

func (s *ExecutorSuite) TestExecutesPhaseWithPhaseParams() {
	s.store.delay = 20 * time.Millisecond

	res, err := s.exec.ExecutePhase(context.Background(), strategyFor(models.ComplexityEnhanced), models.ComplexityEnhanced)

	s.Require().NoError(err)
	s.Equal(models.ComplexityEnhanced, res.Phase)
	s.Equal(4, res.RegulationCount)
	s.Len(res.Sample, 1)
	s.Equal(int64(20), res.ExecutionTimeMS)
	s.True(res.Optimization)
	s.False(res.OverBudget)
	s.Equal(120, s.store.lastParams.Employees)
}

func (s *ExecutorSuite) TestFallbackForcesBasicParamsEveryPhase() {
	strategy := strategyFor(models.ComplexityComprehensive)
	strategy.Fallback = &models.Fallback{
		MissingFields: []string{"industry_sector"},
		Reason:        "incomplete core profile data",
	}

	_, err := s.exec.ExecutePhase(context.Background(), strategy, models.ComplexityComprehensive)

	s.Require().NoError(err)
	s.Zero(s.store.lastParams.Employees)
	s.Empty(s.store.lastParams.Sector)
}

func (s *ExecutorSuite) TestOverBudgetFlaggedNotAborted() {
	tests := []struct {
		phase  models.ComplexityLevel
		delay  time.Duration
		expect bool
	}{
		{models.ComplexityBasic, 99 * time.Millisecond, false},
		{models.ComplexityBasic, 150 * time.Millisecond, true},
		{models.ComplexityEnhanced, 400 * time.Millisecond, false},
		{models.ComplexityEnhanced, 700 * time.Millisecond, true},
		{models.ComplexityComprehensive, 1900 * time.Millisecond, false},
		{models.ComplexityComprehensive, 2500 * time.Millisecond, true},
	}

	for _, tc := range tests {
		s.Run(string(tc.phase)+"/"+tc.delay.String(), func() {
			s.store.delay = tc.delay

			res, err := s.exec.ExecutePhase(context.Background(), strategyFor(tc.phase), tc.phase)

			s.Require().NoError(err)
			s.Equal(tc.expect, res.OverBudget)
			s.Equal(tc.delay.Milliseconds(), res.ExecutionTimeMS)
		})
	}
}

func (s *ExecutorSuite) TestQueryFailureReturnsCodedError() {
	s.store.err = errors.New("connection reset")

	res, err := s.exec.ExecutePhase(context.Background(), strategyFor(models.ComplexityBasic), models.ComplexityBasic)

	s.Nil(res)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeQueryFailed))
}

func (s *ExecutorSuite) TestUnavailableStoreSurfacesAsQueryError() {
	s.store.err = fmt.Errorf("count regulations: %w: connection refused", sentinel.ErrUnavailable)

	_, err := s.exec.ExecutePhase(context.Background(), strategyFor(models.ComplexityBasic), models.ComplexityBasic)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeQueryFailed))
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.Contains(err.Error(), "unavailable")
}

func (s *ExecutorSuite) TestUnknownPhaseRejected() {
	res, err := s.exec.ExecutePhase(context.Background(), strategyFor(models.ComplexityBasic), models.ComplexityLevel("forensic"))

	s.Nil(res)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorSuite))
}
