package change

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lexscreen/internal/screening/models"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		changed    []string
		wantLevel  models.ImpactLevel
		wantForced bool
		wantPct    int
	}{
		{
			name:       "critical field forces rescreening",
			changed:    []string{models.FieldIndustrySector},
			wantLevel:  models.ImpactHigh,
			wantForced: true,
			wantPct:    40,
		},
		{
			name:       "critical outranks enhanced",
			changed:    []string{models.FieldAnnualTurnover, models.FieldEmployeeCount},
			wantLevel:  models.ImpactHigh,
			wantForced: true,
			wantPct:    35,
		},
		{
			name:       "enhanced-only recommends without forcing",
			changed:    []string{models.FieldOperationalRegions, models.FieldBusinessActivities},
			wantLevel:  models.ImpactMedium,
			wantForced: false,
			wantPct:    27,
		},
		{
			name:      "cosmetic fields are low impact",
			changed:   []string{models.FieldWebsite, models.FieldOrganizationName},
			wantLevel: models.ImpactLow,
		},
		{
			name:      "no changes",
			changed:   nil,
			wantLevel: models.ImpactLow,
		},
		{
			name:       "weighted sum capped at 100",
			changed:    []string{models.FieldIndustrySector, models.FieldHeadquartersRegion, models.FieldEmployeeCount, models.FieldOperationalRegions},
			wantLevel:  models.ImpactHigh,
			wantForced: true,
			wantPct:    100,
		},
		{
			name:       "duplicates count once",
			changed:    []string{models.FieldAnnualTurnover, models.FieldAnnualTurnover},
			wantLevel:  models.ImpactMedium,
			wantForced: false,
			wantPct:    10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Analyze(tc.changed)

			assert.Equal(t, tc.wantLevel, got.ImpactLevel)
			assert.Equal(t, tc.wantForced, got.RequiresRescreening)
			assert.Equal(t, tc.wantPct, got.EstimatedResultChangePct)
			assert.NotEmpty(t, got.Recommendation)
		})
	}
}

func TestEventTypeByImpact(t *testing.T) {
	assert.Equal(t, models.EventMinorProfileUpdate, EventType(models.Impact{ImpactLevel: models.ImpactLow}))
	assert.Equal(t, models.EventProfileChangeNotification, EventType(models.Impact{ImpactLevel: models.ImpactMedium}))
	assert.Equal(t, models.EventProfileChangeNotification, EventType(models.Impact{ImpactLevel: models.ImpactHigh}))
}
