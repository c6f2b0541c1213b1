// Package scorer derives a complexity score from a profile snapshot.
//
// Scoring is pure domain logic: no I/O, no side effects, and it never fails.
// Missing or malformed fields simply contribute zero.
package scorer

import "lexscreen/internal/screening/models"

// Tier weights and escalation thresholds. Product-tuned values; adjust with
// care, the thresholds double as the escalation controller's phase gates.
const (
	CoreWeight     = 0.4
	EnhancedWeight = 0.5
	OptionalWeight = 0.1

	EnhancedThreshold      = 0.5
	ComprehensiveThreshold = 0.8
)

// Score computes the complexity score for a profile snapshot.
func Score(p models.Profile) models.ComplexityScore {
	return ScoreWithThresholds(p, EnhancedThreshold, ComprehensiveThreshold)
}

// ScoreWithThresholds computes the score against custom escalation gates.
// The service wiring passes configured thresholds here; Score uses defaults.
func ScoreWithThresholds(p models.Profile, enhanced, comprehensive float64) models.ComplexityScore {
	core := tierCompleteness(p, models.CoreFields())
	enh := tierCompleteness(p, models.EnhancedFields())
	opt := tierCompleteness(p, models.OptionalFields())

	total := clamp01(core*CoreWeight + enh*EnhancedWeight + opt*OptionalWeight)

	return models.ComplexityScore{
		TotalScore:           total,
		Recommended:          recommend(total, enhanced, comprehensive),
		CoreCompleteness:     core,
		EnhancedCompleteness: enh,
		OptionalCompleteness: opt,
	}
}

func recommend(total, enhanced, comprehensive float64) models.ComplexityLevel {
	switch {
	case total >= comprehensive:
		return models.ComplexityComprehensive
	case total >= enhanced:
		return models.ComplexityEnhanced
	default:
		return models.ComplexityBasic
	}
}

func tierCompleteness(p models.Profile, fields []string) float64 {
	if len(fields) == 0 {
		return 0
	}
	completed := 0
	for _, f := range fields {
		if p.FieldCompleted(f) {
			completed++
		}
	}
	return float64(completed) / float64(len(fields))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
