package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexscreen/internal/audit"
	regstore "lexscreen/internal/regulation/store"
	"lexscreen/internal/screening/controller"
	"lexscreen/internal/screening/executor"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/strategy"
	"lexscreen/internal/screening/stream"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/testutil"
)

func newRouter(t *testing.T) (chi.Router, *audit.InMemoryStore) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	regs := regstore.NewInMemoryStore(regstore.SeedCorpus())

	exec := executor.New(regs, logger, nil)
	ctrl := controller.New(exec, logger)

	auditStore := audit.NewInMemoryStore()
	inbox := make(chan audit.Event, 64)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go audit.NewWorker(auditStore, inbox, logger).Run(ctx) //nolint:errcheck
	auditPub := audit.NewPublisher(inbox, logger)

	coord := stream.New(strategy.NewBuilder(0, 0), ctrl, auditPub, nil, logger)

	r := chi.NewRouter()
	New(coord, auditPub, logger).Register(r)
	return r, auditStore
}

func startRunPayload(orgID string) StartRunRequest {
	req := StartRunRequest{
		OrganizationID: orgID,
		Profile: ProfileRequest{
			OrganizationName:   "Harborline Foods Ltd",
			OrganizationType:   "limited_company",
			HeadquartersRegion: "england",
			IndustrySector:     "manufacturing",
			EmployeeCount:      85,
			AnnualTurnover:     12_000_000,
			OperationalRegions: []string{"england", "wales"},
			BusinessActivities: []string{"food_production"},
			LegalStructure:     "ltd",
			FoundingYear:       2003,
			RegulatoryHistory:  []string{"fsa-2021-102"},
			Website:            "https://harborline.example",
			PublicContact:      "hello@harborline.example",
		},
	}
	req.Options.Trigger = "manual"
	return req
}

func TestStartRunAndObserveCompletion(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/screening/runs", startRunPayload(id.NewOrgID().String())))
	testutil.AssertStatus(t, rr, http.StatusAccepted)

	run := testutil.UnmarshalResponse[RunResponse](t, rr)
	require.NotEmpty(t, run.RunID)
	assert.Equal(t, models.RunInitiated, run.Status)
	assert.Equal(t, models.ComplexityComprehensive, run.Level)
	assert.Contains(t, run.RunKey, run.OrganizationID)

	require.Eventually(t, func() bool {
		statusRR := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/screening/runs/"+run.RunID))
		if statusRR.Code != http.StatusOK {
			return false
		}
		snap := testutil.UnmarshalResponse[stream.Snapshot](t, statusRR)
		return snap.Status == models.RunCompleted && snap.PhasesRun == 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStartRunRejectsBadOrganizationID(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/screening/runs", startRunPayload("not-a-uuid")))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
}

func TestStartRunRejectsMalformedBody(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/screening/runs", "{not json"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
}

func TestStatusUnknownRunReturnsNotFound(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/screening/runs/"+id.NewRunID().String()))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(dErrors.CodeNotFound))
}

func TestCancelUnknownRunReturnsNotFound(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/screening/runs/"+id.NewRunID().String()+"/cancel"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(dErrors.CodeNotFound))
}

func TestProfileChangeCriticalStartsRescreening(t *testing.T) {
	router, auditStore := newRouter(t)
	orgID := id.NewOrgID()

	payload := ProfileChangeRequest{
		OrganizationID: orgID.String(),
		ChangedFields:  []string{models.FieldIndustrySector},
		Profile:        startRunPayload(orgID.String()).Profile,
	}
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/screening/profile-changes", payload))
	testutil.AssertStatusOK(t, rr)

	resp := testutil.UnmarshalResponse[ImpactResponse](t, rr)
	assert.Equal(t, models.ImpactHigh, resp.Impact.ImpactLevel)
	assert.True(t, resp.Impact.RequiresRescreening)
	assert.Equal(t, models.EventProfileChangeNotification, resp.EventType)
	require.NotNil(t, resp.Run)

	require.Eventually(t, func() bool {
		events, err := auditStore.ListByOrg(context.Background(), orgID)
		if err != nil {
			return false
		}
		var analyzed, started bool
		for _, e := range events {
			analyzed = analyzed || e.Action == audit.ActionProfileAnalyzed
			started = started || e.Action == audit.ActionRunStarted
		}
		return analyzed && started
	}, 2*time.Second, 5*time.Millisecond)
}

func TestProfileChangeEnhancedOnlyRecommends(t *testing.T) {
	router, _ := newRouter(t)

	payload := ProfileChangeRequest{
		OrganizationID: id.NewOrgID().String(),
		ChangedFields:  []string{models.FieldAnnualTurnover, models.FieldOperationalRegions},
	}
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/screening/profile-changes", payload))
	testutil.AssertStatusOK(t, rr)

	resp := testutil.UnmarshalResponse[ImpactResponse](t, rr)
	assert.Equal(t, models.ImpactMedium, resp.Impact.ImpactLevel)
	assert.False(t, resp.Impact.RequiresRescreening)
	assert.Nil(t, resp.Run)
}

func TestProfileChangeCosmeticIsMinorUpdate(t *testing.T) {
	router, _ := newRouter(t)

	payload := ProfileChangeRequest{
		OrganizationID: id.NewOrgID().String(),
		ChangedFields:  []string{models.FieldWebsite},
	}
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/screening/profile-changes", payload))
	testutil.AssertStatusOK(t, rr)

	resp := testutil.UnmarshalResponse[ImpactResponse](t, rr)
	assert.Equal(t, models.ImpactLow, resp.Impact.ImpactLevel)
	assert.Equal(t, models.EventMinorProfileUpdate, resp.EventType)
}

// fakeCoordinator drives the SSE handler with a scripted subscription.
type fakeCoordinator struct {
	runID        id.RunID
	events       chan models.Event
	unsubscribed bool
}

func (f *fakeCoordinator) StartRun(context.Context, models.Profile, string) (*stream.RunHandle, error) {
	return nil, dErrors.New(dErrors.CodeInternal, "not scripted")
}

func (f *fakeCoordinator) Subscribe(runID id.RunID) (*stream.Subscription, error) {
	if runID != f.runID {
		return nil, dErrors.New(dErrors.CodeNotFound, "screening run not found")
	}
	return &stream.Subscription{C: f.events}, nil
}

func (f *fakeCoordinator) Unsubscribe(id.RunID, *stream.Subscription) { f.unsubscribed = true }

func (f *fakeCoordinator) Status(id.RunID) (*stream.Snapshot, error) {
	return nil, dErrors.New(dErrors.CodeNotFound, "screening run not found")
}

func (f *fakeCoordinator) Cancel(id.RunID) error { return nil }

func TestEventsStreamWritesSSEFrames(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	runID := id.NewRunID()
	fake := &fakeCoordinator{runID: runID, events: make(chan models.Event, 4)}

	r := chi.NewRouter()
	New(fake, audit.NewPublisher(nil, logger), logger).Register(r)

	orgID := id.NewOrgID()
	fake.events <- models.Event{Type: models.EventStreamStarted, RunID: runID, OrgID: orgID, Trigger: "manual"}
	fake.events <- models.Event{Type: models.EventPhaseCompleted, RunID: runID, OrgID: orgID, Phase: models.ComplexityBasic}
	fake.events <- models.Event{Type: models.EventStreamCompleted, RunID: runID, OrgID: orgID, TotalPhasesRun: 1}
	close(fake.events)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, testutil.NewRequest(t, http.MethodGet, "/screening/runs/"+runID.String()+"/events"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	frames := []string{
		"event: stream_started",
		"event: phase_completed",
		"event: stream_completed",
	}
	last := -1
	for _, frame := range frames {
		idx := strings.Index(body, frame)
		require.GreaterOrEqual(t, idx, 0, "missing frame %q", frame)
		assert.Greater(t, idx, last, "frame %q out of order", frame)
		last = idx
	}
	assert.Contains(t, body, `"total_phases_run":1`)
	assert.True(t, fake.unsubscribed)
}

func TestEventsUnknownRunReturnsNotFound(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	fake := &fakeCoordinator{runID: id.NewRunID(), events: make(chan models.Event)}

	r := chi.NewRouter()
	New(fake, audit.NewPublisher(nil, logger), logger).Register(r)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/screening/runs/"+id.NewRunID().String()+"/events"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(dErrors.CodeNotFound))
}
