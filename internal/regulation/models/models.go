package models

import "time"

// Regulation is one legal record in the corpus. Applicability attributes are
// denormalized onto the record so screening queries can match without joins.
type Regulation struct {
	ID        string
	Title     string
	Family    string // e.g. "health_safety", "environmental", "data_protection"
	GeoExtent string // e.g. "uk", "england_wales", "eu"
	InForce   bool

	// DutyCreating marks records that impose duties on organizations, as
	// opposed to purely declaratory instruments. Duty-creating records are
	// indexed separately so screening can pre-filter the scanned superset.
	DutyCreating bool

	// Applicability filters. Zero values mean "applies regardless".
	Sectors      []string
	Regions      []string
	MinEmployees int
	MaxEmployees int
	MinTurnover  int64
	MaxTurnover  int64
}

// Ref is a lightweight reference to a regulation, used in result samples and
// diffs. Identity is the ID; two refs with the same ID are the same record.
type Ref struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Family string `json:"family"`
}

// RefFrom builds a Ref for a regulation.
func RefFrom(r Regulation) Ref {
	return Ref{ID: r.ID, Title: r.Title, Family: r.Family}
}

// QueryParams scope one screening query. The basic set (families, extents,
// in-force) is always present; deeper screening phases layer on the
// organization-shaped filters.
type QueryParams struct {
	Families     []string
	GeoExtents   []string
	InForceOnly  bool
	Sector       string
	Employees    int      // 0 = no employee-count filter
	Turnover     int64    // 0 = no turnover filter
	Regions      []string // multi-region operational filter
	DutyCreating bool     // pre-filter on duty-creating records

	// SampleLimit caps the refs returned alongside the full count.
	SampleLimit int

	// CacheTTL is advisory: a caching collaborator wrapping the store may
	// retain the result for this long. The stores themselves ignore it.
	CacheTTL time.Duration
}

// QueryResult is the outcome of one corpus query.
type QueryResult struct {
	Count               int
	Sample              []Ref
	OptimizationApplied bool
}
