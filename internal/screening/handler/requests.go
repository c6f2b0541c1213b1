package handler

import (
	"lexscreen/internal/screening/models"
	id "lexscreen/pkg/domain"
)

// ProfileRequest is the organization profile snapshot as submitted by the
// caller. Absent fields are simply incomplete, never invalid.
type ProfileRequest struct {
	OrganizationName   string   `json:"organization_name"`
	OrganizationType   string   `json:"organization_type"`
	HeadquartersRegion string   `json:"headquarters_region"`
	IndustrySector     string   `json:"industry_sector"`
	EmployeeCount      int      `json:"employee_count"`
	AnnualTurnover     int64    `json:"annual_turnover"`
	OperationalRegions []string `json:"operational_regions"`
	BusinessActivities []string `json:"business_activities"`
	LegalStructure     string   `json:"legal_structure"`
	FoundingYear       int      `json:"founding_year"`
	RegulatoryHistory  []string `json:"regulatory_history"`
	Website            string   `json:"website"`
	PublicContact      string   `json:"public_contact"`
}

func (r ProfileRequest) ToDomain(orgID id.OrgID) models.Profile {
	return models.Profile{
		OrgID:              orgID,
		OrganizationName:   r.OrganizationName,
		OrganizationType:   r.OrganizationType,
		HeadquartersRegion: r.HeadquartersRegion,
		IndustrySector:     r.IndustrySector,
		EmployeeCount:      r.EmployeeCount,
		AnnualTurnover:     r.AnnualTurnover,
		OperationalRegions: r.OperationalRegions,
		BusinessActivities: r.BusinessActivities,
		LegalStructure:     r.LegalStructure,
		FoundingYear:       r.FoundingYear,
		RegulatoryHistory:  r.RegulatoryHistory,
		Website:            r.Website,
		PublicContact:      r.PublicContact,
	}
}

// StartRunRequest starts a screening run for an organization.
type StartRunRequest struct {
	OrganizationID string         `json:"organization_id"`
	Profile        ProfileRequest `json:"profile"`
	Options        struct {
		Trigger string `json:"trigger"`
	} `json:"options"`
}

// ProfileChangeRequest reports edited profile fields for impact analysis. The
// current snapshot rides along so a forced re-screening can start immediately.
type ProfileChangeRequest struct {
	OrganizationID string         `json:"organization_id"`
	ChangedFields  []string       `json:"changed_fields"`
	Profile        ProfileRequest `json:"profile"`
}
