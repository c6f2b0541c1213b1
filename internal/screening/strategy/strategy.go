// Package strategy turns a scored profile into an executable screening plan.
package strategy

import (
	"strings"
	"time"

	regmodels "lexscreen/internal/regulation/models"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/scorer"
)

// Cache TTLs by complexity level. A richer profile changes its applicable-law
// set less often per unit time than a sparse one being filled in, so deeper
// screenings keep their results longer.
const (
	BasicCacheTTL         = 1 * time.Hour
	EnhancedCacheTTL      = 6 * time.Hour
	ComprehensiveCacheTTL = 72 * time.Hour
)

// Performance estimates by level, for dashboards.
const (
	basicEstimate         = 100 * time.Millisecond
	enhancedEstimate      = 600 * time.Millisecond
	comprehensiveEstimate = 2600 * time.Millisecond
)

// SampleLimit caps the regulation refs carried in each phase result.
const SampleLimit = 50

// Builder constructs strategies. Thresholds come from configuration so
// deployments can tune the escalation gates.
type Builder struct {
	enhancedThreshold      float64
	comprehensiveThreshold float64
}

// NewBuilder creates a Builder with the given escalation thresholds.
// Zero thresholds fall back to the scorer defaults.
func NewBuilder(enhanced, comprehensive float64) *Builder {
	if enhanced <= 0 {
		enhanced = scorer.EnhancedThreshold
	}
	if comprehensive <= 0 {
		comprehensive = scorer.ComprehensiveThreshold
	}
	return &Builder{enhancedThreshold: enhanced, comprehensiveThreshold: comprehensive}
}

// Build scores the profile and derives the run's immutable strategy.
func (b *Builder) Build(p models.Profile) models.Strategy {
	score := scorer.ScoreWithThresholds(p, b.enhancedThreshold, b.comprehensiveThreshold)

	s := models.Strategy{
		Level: score.Recommended,
		Score: score,
		QueryParams: map[models.ComplexityLevel]regmodels.QueryParams{
			models.ComplexityBasic:         basicParams(p),
			models.ComplexityEnhanced:      enhancedParams(p),
			models.ComplexityComprehensive: comprehensiveParams(p),
		},
	}

	switch score.Recommended {
	case models.ComplexityComprehensive:
		s.CacheTTL = ComprehensiveCacheTTL
		s.PerformanceEstimate = comprehensiveEstimate
	case models.ComplexityEnhanced:
		s.CacheTTL = EnhancedCacheTTL
		s.PerformanceEstimate = enhancedEstimate
	default:
		s.CacheTTL = BasicCacheTTL
		s.PerformanceEstimate = basicEstimate
	}
	for level, params := range s.QueryParams {
		params.CacheTTL = s.CacheTTL
		s.QueryParams[level] = params
	}

	if missing := p.MissingCoreFields(); len(missing) > 0 {
		s.Fallback = &models.Fallback{
			MissingFields: missing,
			Reason:        "core fields missing: " + strings.Join(missing, ", "),
		}
	}

	return s
}

// basicParams is the minimal conservative query shape: legal family,
// geographic extent, and in-force status only. With filter data absent the
// filters stay open rather than excluding records, avoiding false negatives.
func basicParams(p models.Profile) regmodels.QueryParams {
	return regmodels.QueryParams{
		Families:    familiesFor(p),
		GeoExtents:  extentsFor(p),
		InForceOnly: true,
		SampleLimit: SampleLimit,
	}
}

// enhancedParams layers employee-count and turnover ranges onto the basic
// set and narrows to duty-creating records.
func enhancedParams(p models.Profile) regmodels.QueryParams {
	params := basicParams(p)
	params.Employees = p.EmployeeCount
	params.Turnover = p.AnnualTurnover
	params.DutyCreating = true
	return params
}

// comprehensiveParams adds sector matching and the multi-region operational
// filter on top of the enhanced set.
func comprehensiveParams(p models.Profile) regmodels.QueryParams {
	params := enhancedParams(p)
	params.Sector = p.IndustrySector
	params.Regions = p.OperationalRegions
	return params
}

// familiesFor selects the legal families worth screening for the profile.
// Sector-independent families always apply; sector-specific ones join when
// the profile names an industry known to attract them.
func familiesFor(p models.Profile) []string {
	families := []string{"health_safety", "employment", "data_protection", "corporate"}
	switch p.IndustrySector {
	case "manufacturing", "construction", "agriculture", "energy", "waste":
		families = append(families, "environmental")
	}
	return families
}

// extentsFor maps the headquarters region onto geographic extents. Unknown
// or missing regions screen the union of extents.
func extentsFor(p models.Profile) []string {
	switch p.HeadquartersRegion {
	case "england", "wales":
		return []string{"uk", "england_wales"}
	case "scotland":
		return []string{"uk", "scotland"}
	case "northern_ireland":
		return []string{"uk", "northern_ireland"}
	default:
		return []string{"uk", "england_wales", "scotland", "northern_ireland", "eu"}
	}
}
