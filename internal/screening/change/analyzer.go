// Package change classifies profile edits by their likely effect on an
// organization's applicable-law set.
package change

import (
	"lexscreen/internal/screening/models"
)

// Per-field impact weights, in percentage points of the result set likely to
// shift. Critical fields alter which regulation families and thresholds apply
// at all; enhanced fields only refine deeper phases.
var fieldWeights = map[string]int{
	models.FieldIndustrySector:     40,
	models.FieldHeadquartersRegion: 35,
	models.FieldEmployeeCount:      25,

	models.FieldOperationalRegions: 15,
	models.FieldBusinessActivities: 12,
	models.FieldAnnualTurnover:     10,
}

// criticalFields are the edits that invalidate prior screening results
// outright and force a fresh run.
var criticalFields = map[string]bool{
	models.FieldIndustrySector:     true,
	models.FieldHeadquartersRegion: true,
	models.FieldEmployeeCount:      true,
}

// enhancedFields only shift results of the deeper phases; a re-screen is
// recommended, not forced.
var enhancedFields = map[string]bool{
	models.FieldOperationalRegions: true,
	models.FieldBusinessActivities: true,
	models.FieldAnnualTurnover:     true,
}

// Analyze assesses a set of changed field names. Unknown or cosmetic fields
// contribute nothing; duplicates count once.
func Analyze(changedFields []string) models.Impact {
	seen := make(map[string]bool, len(changedFields))

	var critical, enhanced bool
	pct := 0
	for _, f := range changedFields {
		if seen[f] {
			continue
		}
		seen[f] = true

		switch {
		case criticalFields[f]:
			critical = true
		case enhancedFields[f]:
			enhanced = true
		}
		pct += fieldWeights[f]
	}
	if pct > 100 {
		pct = 100
	}

	switch {
	case critical:
		return models.Impact{
			RequiresRescreening:      true,
			ImpactLevel:              models.ImpactHigh,
			EstimatedResultChangePct: pct,
			Recommendation:           "critical profile data changed; a full re-screening has been started",
		}
	case enhanced:
		return models.Impact{
			RequiresRescreening:      false,
			ImpactLevel:              models.ImpactMedium,
			EstimatedResultChangePct: pct,
			Recommendation:           "enhanced profile data changed; an enhanced re-screening is recommended",
		}
	default:
		return models.Impact{
			RequiresRescreening:      false,
			ImpactLevel:              models.ImpactLow,
			EstimatedResultChangePct: pct,
			Recommendation:           "no screening-relevant fields changed",
		}
	}
}

// EventType returns the notification event kind for an impact: profile-change
// notifications for medium and high impact, a minor-update marker otherwise.
func EventType(impact models.Impact) models.EventType {
	if impact.ImpactLevel == models.ImpactLow {
		return models.EventMinorProfileUpdate
	}
	return models.EventProfileChangeNotification
}
