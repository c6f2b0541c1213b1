package store

import (
	"context"
	"sync"

	"lexscreen/internal/regulation/models"
)

// InMemoryStore holds the corpus in memory. It backs tests and small
// deployments; production corpora use PostgresStore.
type InMemoryStore struct {
	mu          sync.RWMutex
	regulations []models.Regulation

	// dutyIdx indexes the positions of duty-creating records so queries
	// scoped to them scan a reduced superset.
	dutyIdx []int
}

// NewInMemoryStore creates a store seeded with the given corpus.
func NewInMemoryStore(regulations []models.Regulation) *InMemoryStore {
	s := &InMemoryStore{}
	s.Replace(regulations)
	return s
}

// Replace swaps the corpus wholesale and rebuilds indexes.
func (s *InMemoryStore) Replace(regulations []models.Regulation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regulations = make([]models.Regulation, len(regulations))
	copy(s.regulations, regulations)

	s.dutyIdx = s.dutyIdx[:0]
	for i, r := range s.regulations {
		if r.DutyCreating {
			s.dutyIdx = append(s.dutyIdx, i)
		}
	}
}

// FindRegulations evaluates the query against the corpus. Count is the full
// match count; Sample is capped at params.SampleLimit.
func (s *InMemoryStore) FindRegulations(ctx context.Context, params models.QueryParams) (*models.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := &models.QueryResult{}

	scan := func(r models.Regulation) {
		if !matches(r, params) {
			return
		}
		result.Count++
		if params.SampleLimit <= 0 || len(result.Sample) < params.SampleLimit {
			result.Sample = append(result.Sample, models.RefFrom(r))
		}
	}

	if params.DutyCreating && len(s.dutyIdx) > 0 {
		result.OptimizationApplied = true
		for _, i := range s.dutyIdx {
			scan(s.regulations[i])
		}
		return result, nil
	}

	for _, r := range s.regulations {
		scan(r)
	}
	return result, nil
}

func matches(r models.Regulation, params models.QueryParams) bool {
	if params.InForceOnly && !r.InForce {
		return false
	}
	if params.DutyCreating && !r.DutyCreating {
		return false
	}
	if len(params.Families) > 0 && !contains(params.Families, r.Family) {
		return false
	}
	if len(params.GeoExtents) > 0 && !contains(params.GeoExtents, r.GeoExtent) {
		return false
	}
	if params.Sector != "" && len(r.Sectors) > 0 && !contains(r.Sectors, params.Sector) {
		return false
	}
	if params.Employees > 0 {
		if r.MinEmployees > 0 && params.Employees < r.MinEmployees {
			return false
		}
		if r.MaxEmployees > 0 && params.Employees > r.MaxEmployees {
			return false
		}
	}
	if params.Turnover > 0 {
		if r.MinTurnover > 0 && params.Turnover < r.MinTurnover {
			return false
		}
		if r.MaxTurnover > 0 && params.Turnover > r.MaxTurnover {
			return false
		}
	}
	if len(params.Regions) > 0 && len(r.Regions) > 0 && !overlaps(params.Regions, r.Regions) {
		return false
	}
	return true
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	for _, s := range a {
		if contains(b, s) {
			return true
		}
	}
	return false
}
