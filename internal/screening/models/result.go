package models

import regmodels "lexscreen/internal/regulation/models"

// PhaseResult is the outcome of one screening phase. It is consumed
// immediately for diffing and event publication, not retained.
type PhaseResult struct {
	Phase           ComplexityLevel `json:"phase"`
	RegulationCount int             `json:"regulation_count"`
	Sample          []regmodels.Ref `json:"sample_regulations"`
	ExecutionTimeMS int64           `json:"execution_time_ms"`
	Optimization    bool            `json:"optimization_applied"`

	// OverBudget flags a phase that exceeded its soft time budget.
	// Observability only, never an error condition.
	OverBudget bool `json:"over_budget"`
}

// Diff is the set delta between two result samples, keyed by regulation ID.
type Diff struct {
	Added          []regmodels.Ref `json:"added"`
	Removed        []regmodels.Ref `json:"removed"`
	UnchangedCount int             `json:"unchanged_count"`
	TotalChanges   int             `json:"total_changes"`
}
