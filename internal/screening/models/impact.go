package models

// ImpactLevel classifies how strongly a profile edit affects screening results.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Impact is the assessment of a set of changed profile fields. Computed on
// demand, never persisted.
type Impact struct {
	RequiresRescreening bool        `json:"requires_rescreening"`
	ImpactLevel         ImpactLevel `json:"impact_level"`

	// EstimatedResultChangePct is a rough 0-100 estimate of how much of the
	// applicable-law set the edit is likely to shift.
	EstimatedResultChangePct int `json:"estimated_result_change_pct"`

	Recommendation string `json:"recommendation"`
}
