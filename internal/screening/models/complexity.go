package models

// ComplexityLevel is both the recommended screening depth for a profile and
// the identity of one screening phase: phase N runs at the Nth level.
type ComplexityLevel string

const (
	ComplexityBasic         ComplexityLevel = "basic"
	ComplexityEnhanced      ComplexityLevel = "enhanced"
	ComplexityComprehensive ComplexityLevel = "comprehensive"
)

// Levels returns all levels in escalation order.
func Levels() []ComplexityLevel {
	return []ComplexityLevel{ComplexityBasic, ComplexityEnhanced, ComplexityComprehensive}
}

// Number returns the 1-based phase number for the level, 0 for unknown.
func (l ComplexityLevel) Number() int {
	switch l {
	case ComplexityBasic:
		return 1
	case ComplexityEnhanced:
		return 2
	case ComplexityComprehensive:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether l is as deep as other.
func (l ComplexityLevel) AtLeast(other ComplexityLevel) bool {
	return l.Number() >= other.Number()
}

// Next returns the level after l, and false when l is the deepest.
func (l ComplexityLevel) Next() (ComplexityLevel, bool) {
	switch l {
	case ComplexityBasic:
		return ComplexityEnhanced, true
	case ComplexityEnhanced:
		return ComplexityComprehensive, true
	default:
		return "", false
	}
}

// ComplexityScore is the derived completeness metric driving screening depth.
// Pure function of the profile snapshot; never persisted.
type ComplexityScore struct {
	TotalScore  float64         `json:"total_score"`
	Recommended ComplexityLevel `json:"recommended_complexity"`

	// Per-tier completeness, kept for observability and explanations.
	CoreCompleteness     float64 `json:"core_completeness"`
	EnhancedCompleteness float64 `json:"enhanced_completeness"`
	OptionalCompleteness float64 `json:"optional_completeness"`
}
