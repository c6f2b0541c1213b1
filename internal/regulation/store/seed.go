package store

import "lexscreen/internal/regulation/models"

// SeedCorpus returns a small built-in corpus for development and tests. The
// records span families, extents, and applicability shapes so every query
// filter has something to bite on.
func SeedCorpus() []models.Regulation {
	return []models.Regulation{
		{
			ID: "uksi-1999-3242", Title: "Management of Health and Safety at Work Regulations",
			Family: "health_safety", GeoExtent: "uk", InForce: true, DutyCreating: true,
			MinEmployees: 5,
		},
		{
			ID: "ukpga-1974-37", Title: "Health and Safety at Work etc. Act",
			Family: "health_safety", GeoExtent: "uk", InForce: true, DutyCreating: true,
		},
		{
			ID: "uksi-2002-2677", Title: "Control of Substances Hazardous to Health Regulations",
			Family: "health_safety", GeoExtent: "uk", InForce: true, DutyCreating: true,
			Sectors: []string{"manufacturing", "construction", "agriculture"},
		},
		{
			ID: "ukpga-1990-43", Title: "Environmental Protection Act",
			Family: "environmental", GeoExtent: "england_wales", InForce: true, DutyCreating: true,
			Regions: []string{"england", "wales"},
		},
		{
			ID: "uksi-2016-1154", Title: "Environmental Permitting Regulations",
			Family: "environmental", GeoExtent: "england_wales", InForce: true, DutyCreating: true,
			Sectors: []string{"manufacturing", "energy", "waste"},
			Regions: []string{"england", "wales"},
		},
		{
			ID: "ukpga-2018-12", Title: "Data Protection Act",
			Family: "data_protection", GeoExtent: "uk", InForce: true, DutyCreating: true,
		},
		{
			ID: "uksi-2003-2426", Title: "Privacy and Electronic Communications Regulations",
			Family: "data_protection", GeoExtent: "uk", InForce: true, DutyCreating: true,
			MinEmployees: 1,
		},
		{
			ID: "ukpga-2006-46", Title: "Companies Act",
			Family: "corporate", GeoExtent: "uk", InForce: true, DutyCreating: true,
			MinTurnover: 632_000,
		},
		{
			ID: "ukpga-2015-26", Title: "Modern Slavery Act",
			Family: "corporate", GeoExtent: "uk", InForce: true, DutyCreating: true,
			MinTurnover: 36_000_000,
		},
		{
			ID: "uksi-1998-1833", Title: "Working Time Regulations",
			Family: "employment", GeoExtent: "uk", InForce: true, DutyCreating: true,
			MinEmployees: 1,
		},
		{
			ID: "ukpga-2010-15", Title: "Equality Act",
			Family: "employment", GeoExtent: "uk", InForce: true, DutyCreating: true,
		},
		{
			ID: "asp-2014-3", Title: "Regulatory Reform (Scotland) Act",
			Family: "environmental", GeoExtent: "scotland", InForce: true, DutyCreating: false,
			Regions: []string{"scotland"},
		},
		{
			ID: "ukpga-1954-56", Title: "Landlord and Tenant Act (superseded provisions)",
			Family: "corporate", GeoExtent: "england_wales", InForce: false, DutyCreating: false,
		},
	}
}
