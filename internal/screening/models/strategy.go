package models

import (
	"time"

	regmodels "lexscreen/internal/regulation/models"
)

// Strategy is the concrete, immutable query and caching plan for one run.
type Strategy struct {
	Level ComplexityLevel
	Score ComplexityScore

	// QueryParams per phase level. Each deeper level layers additional
	// filters onto the basic set.
	QueryParams map[ComplexityLevel]regmodels.QueryParams

	// CacheTTL is advisory for an external cache collaborator. Deeper
	// screenings are more expensive and their results more stable, so the
	// TTL grows with the level.
	CacheTTL time.Duration

	// Fallback is set when core fields are missing; it steers the executor
	// toward the most conservative query shape to avoid false negatives
	// from absent filter data.
	Fallback *Fallback

	// PerformanceEstimate is the expected wall-clock cost of a full run at
	// this level, for monitoring dashboards only.
	PerformanceEstimate time.Duration
}

// Fallback documents why the conservative query shape applies.
type Fallback struct {
	MissingFields []string
	Reason        string
}

// ParamsFor returns the query params for a phase, honoring the fallback:
// with core data missing, every phase uses the basic query shape.
func (s Strategy) ParamsFor(phase ComplexityLevel) regmodels.QueryParams {
	if s.Fallback != nil {
		return s.QueryParams[ComplexityBasic]
	}
	return s.QueryParams[phase]
}
