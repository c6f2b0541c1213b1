package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"lexscreen/internal/regulation/models"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore(SeedCorpus())
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestBasicFilters() {
	s.Run("unfiltered query returns whole corpus", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{})
		s.Require().NoError(err)
		s.Equal(len(SeedCorpus()), result.Count)
		s.False(result.OptimizationApplied)
	})

	s.Run("in-force filter excludes repealed records", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{InForceOnly: true})
		s.Require().NoError(err)
		for _, ref := range result.Sample {
			s.NotEqual("ukpga-1954-56", ref.ID)
		}
	})

	s.Run("family filter", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{
			Families: []string{"data_protection"},
		})
		s.Require().NoError(err)
		s.Equal(2, result.Count)
	})

	s.Run("geographic extent filter", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{
			GeoExtents: []string{"scotland"},
		})
		s.Require().NoError(err)
		s.Equal(1, result.Count)
		s.Equal("asp-2014-3", result.Sample[0].ID)
	})
}

func (s *InMemoryStoreSuite) TestOrganizationFilters() {
	s.Run("employee count excludes thresholds above the organization", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{
			Families:  []string{"health_safety"},
			Employees: 3,
		})
		s.Require().NoError(err)
		for _, ref := range result.Sample {
			s.NotEqual("uksi-1999-3242", ref.ID, "min 5 employees should not match 3")
		}
	})

	s.Run("turnover excludes large-undertaking duties", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{
			Families: []string{"corporate"},
			Turnover: 1_000_000,
		})
		s.Require().NoError(err)
		for _, ref := range result.Sample {
			s.NotEqual("ukpga-2015-26", ref.ID, "36M threshold should not match 1M turnover")
		}
	})

	s.Run("sector filter keeps records without sector restriction", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{
			Families: []string{"health_safety"},
			Sector:   "retail",
		})
		s.Require().NoError(err)
		// COSHH is sector-restricted and excluded; unrestricted HSWA remains.
		ids := make([]string, 0, len(result.Sample))
		for _, ref := range result.Sample {
			ids = append(ids, ref.ID)
		}
		s.NotContains(ids, "uksi-2002-2677")
		s.Contains(ids, "ukpga-1974-37")
	})

	s.Run("region overlap", func() {
		result, err := s.store.FindRegulations(s.ctx, models.QueryParams{
			Families: []string{"environmental"},
			Regions:  []string{"scotland"},
		})
		s.Require().NoError(err)
		for _, ref := range result.Sample {
			s.NotEqual("ukpga-1990-43", ref.ID, "england/wales record should not match scotland-only operations")
		}
	})
}

func (s *InMemoryStoreSuite) TestDutyCreatingPrefilter() {
	result, err := s.store.FindRegulations(s.ctx, models.QueryParams{DutyCreating: true})
	s.Require().NoError(err)
	s.True(result.OptimizationApplied)
	for _, ref := range result.Sample {
		s.NotEqual("asp-2014-3", ref.ID)
		s.NotEqual("ukpga-1954-56", ref.ID)
	}
}

func (s *InMemoryStoreSuite) TestSampleCap() {
	result, err := s.store.FindRegulations(s.ctx, models.QueryParams{SampleLimit: 3})
	s.Require().NoError(err)
	s.Len(result.Sample, 3)
	s.Equal(len(SeedCorpus()), result.Count, "count stays independent of the sample cap")
}

func (s *InMemoryStoreSuite) TestReplaceRebuildsIndexes() {
	s.store.Replace([]models.Regulation{
		{ID: "only", Title: "Only One", Family: "corporate", InForce: true, DutyCreating: true},
	})

	result, err := s.store.FindRegulations(s.ctx, models.QueryParams{DutyCreating: true})
	s.Require().NoError(err)
	s.Equal(1, result.Count)
	s.True(result.OptimizationApplied)
}
