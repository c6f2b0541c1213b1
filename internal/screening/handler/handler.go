// Package handler wires the screening HTTP surface to the stream coordinator.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lexscreen/internal/audit"
	"lexscreen/internal/screening/change"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/stream"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/httputil"
	"lexscreen/pkg/requestcontext"
)

// Coordinator is the run lifecycle surface the handler depends on.
type Coordinator interface {
	StartRun(ctx context.Context, profile models.Profile, trigger string) (*stream.RunHandle, error)
	Subscribe(runID id.RunID) (*stream.Subscription, error)
	Unsubscribe(runID id.RunID, sub *stream.Subscription)
	Status(runID id.RunID) (*stream.Snapshot, error)
	Cancel(runID id.RunID) error
}

// Handler exposes screening runs and profile-change analysis over HTTP.
type Handler struct {
	coordinator Coordinator
	audit       *audit.Publisher
	logger      *slog.Logger
}

func New(coordinator Coordinator, auditPub *audit.Publisher, logger *slog.Logger) *Handler {
	return &Handler{coordinator: coordinator, audit: auditPub, logger: logger}
}

// Register mounts screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/screening", func(r chi.Router) {
		r.Post("/runs", h.HandleStartRun)
		r.Get("/runs/{runID}", h.HandleStatus)
		r.Get("/runs/{runID}/events", h.HandleEvents)
		r.Post("/runs/{runID}/cancel", h.HandleCancel)
		r.Post("/profile-changes", h.HandleProfileChange)
	})
}

// HandleStartRun handles POST /screening/runs.
func (h *Handler) HandleStartRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[StartRunRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	orgID, err := id.ParseOrgID(req.OrganizationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	trigger := req.Options.Trigger
	if trigger == "" {
		trigger = "manual"
	}

	handle, err := h.coordinator.StartRun(requestcontext.WithTrigger(ctx, trigger), req.Profile.ToDomain(orgID), trigger)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start screening run",
			"request_id", requestID,
			"organization_id", req.OrganizationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "screening run started",
		"request_id", requestID,
		"run_id", handle.RunID,
		"organization_id", req.OrganizationID,
		"trigger", trigger,
		"recommended_complexity", handle.Level,
	)

	httputil.WriteJSON(w, http.StatusAccepted, fromHandle(handle))
}

// HandleStatus handles GET /screening/runs/{runID}.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	runID, err := id.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	snap, err := h.coordinator.Status(runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandleCancel handles POST /screening/runs/{runID}/cancel. Cancellation is
// advisory; the run stops at its next phase boundary.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID, err := id.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.coordinator.Cancel(runID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "screening run cancellation requested",
		"request_id", requestcontext.RequestID(ctx),
		"run_id", runID,
	)

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "cancellation_requested"})
}

// HandleProfileChange handles POST /screening/profile-changes. A critical
// change starts a fresh run; anything else only reports the assessed impact.
func (h *Handler) HandleProfileChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ProfileChangeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	orgID, err := id.ParseOrgID(req.OrganizationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	impact := change.Analyze(req.ChangedFields)
	resp := ImpactResponse{Impact: impact, EventType: change.EventType(impact)}

	h.audit.Emit(ctx, audit.Event{
		OrgID:   orgID,
		Action:  audit.ActionProfileAnalyzed,
		Trigger: "profile_edit",
		Outcome: string(impact.ImpactLevel),
	})

	if impact.RequiresRescreening {
		handle, err := h.coordinator.StartRun(ctx, req.Profile.ToDomain(orgID), "profile_edit")
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to start re-screening run",
				"request_id", requestID,
				"organization_id", req.OrganizationID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		run := fromHandle(handle)
		resp.Run = &run
	}

	h.logger.InfoContext(ctx, "profile change analyzed",
		"request_id", requestID,
		"organization_id", req.OrganizationID,
		"impact_level", impact.ImpactLevel,
		"requires_rescreening", impact.RequiresRescreening,
	)

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleEvents handles GET /screening/runs/{runID}/events as a Server-Sent
// Events stream. The subscriber only sees events published after it attaches.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID, err := id.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "streaming not supported"))
		return
	}

	sub, err := h.coordinator.Subscribe(runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer h.coordinator.Unsubscribe(runID, sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Heartbeats keep intermediaries from closing an idle stream while a
	// long phase executes.
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case event, open := <-sub.C:
			if !open {
				return
			}
			if err := writeSSE(w, event); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
