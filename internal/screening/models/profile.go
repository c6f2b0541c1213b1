package models

import id "lexscreen/pkg/domain"

// Profile is an immutable snapshot of an organization's business attributes,
// taken at the moment a screening run starts. The engine only reads it;
// account management upstream owns the mutable record.
type Profile struct {
	OrgID id.OrgID

	// Core fields: always expected, drive the basic query shape.
	OrganizationName   string
	OrganizationType   string
	HeadquartersRegion string
	IndustrySector     string

	// Enhanced fields: optional, unlock deeper screening.
	EmployeeCount      int
	AnnualTurnover     int64
	OperationalRegions []string
	BusinessActivities []string
	LegalStructure     string
	FoundingYear       int
	RegulatoryHistory  []string

	// Optional fields: minor precision contribution.
	Website       string
	PublicContact string
}

// Field names as used in profile-change notifications.
const (
	FieldOrganizationName   = "organization_name"
	FieldOrganizationType   = "organization_type"
	FieldHeadquartersRegion = "headquarters_region"
	FieldIndustrySector     = "industry_sector"
	FieldEmployeeCount      = "employee_count"
	FieldAnnualTurnover     = "annual_turnover"
	FieldOperationalRegions = "operational_regions"
	FieldBusinessActivities = "business_activities"
	FieldLegalStructure     = "legal_structure"
	FieldFoundingYear       = "founding_year"
	FieldRegulatoryHistory  = "regulatory_history"
	FieldWebsite            = "website"
	FieldPublicContact      = "public_contact"
)

// CoreFields lists the core tier in scoring order.
func CoreFields() []string {
	return []string{
		FieldOrganizationName,
		FieldOrganizationType,
		FieldHeadquartersRegion,
		FieldIndustrySector,
	}
}

// EnhancedFields lists the enhanced tier.
func EnhancedFields() []string {
	return []string{
		FieldEmployeeCount,
		FieldAnnualTurnover,
		FieldOperationalRegions,
		FieldBusinessActivities,
		FieldLegalStructure,
		FieldFoundingYear,
		FieldRegulatoryHistory,
	}
}

// OptionalFields lists the optional tier.
func OptionalFields() []string {
	return []string{FieldWebsite, FieldPublicContact}
}

// FieldCompleted reports whether the named field carries a usable value.
// Empty strings and lists and non-positive numbers count as not completed.
// Unknown field names are never completed.
func (p Profile) FieldCompleted(field string) bool {
	switch field {
	case FieldOrganizationName:
		return p.OrganizationName != ""
	case FieldOrganizationType:
		return p.OrganizationType != ""
	case FieldHeadquartersRegion:
		return p.HeadquartersRegion != ""
	case FieldIndustrySector:
		return p.IndustrySector != ""
	case FieldEmployeeCount:
		return p.EmployeeCount > 0
	case FieldAnnualTurnover:
		return p.AnnualTurnover > 0
	case FieldOperationalRegions:
		return len(p.OperationalRegions) > 0
	case FieldBusinessActivities:
		return len(p.BusinessActivities) > 0
	case FieldLegalStructure:
		return p.LegalStructure != ""
	case FieldFoundingYear:
		return p.FoundingYear > 0
	case FieldRegulatoryHistory:
		return len(p.RegulatoryHistory) > 0
	case FieldWebsite:
		return p.Website != ""
	case FieldPublicContact:
		return p.PublicContact != ""
	default:
		return false
	}
}

// MissingCoreFields returns the core fields without a usable value.
func (p Profile) MissingCoreFields() []string {
	var missing []string
	for _, f := range CoreFields() {
		if !p.FieldCompleted(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
