package handler

import (
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/stream"
)

// RunResponse is the envelope returned when a run is started.
type RunResponse struct {
	RunID          string                 `json:"run_id"`
	OrganizationID string                 `json:"organization_id"`
	RunKey         string                 `json:"run_key"`
	Status         models.RunStatus       `json:"status"`
	Level          models.ComplexityLevel `json:"recommended_complexity"`
}

func fromHandle(h *stream.RunHandle) RunResponse {
	return RunResponse{
		RunID:          h.RunID.String(),
		OrganizationID: h.OrgID.String(),
		RunKey:         h.Key,
		Status:         h.Status,
		Level:          h.Level,
	}
}

// ImpactResponse is the outcome of a profile-change analysis, including the
// re-screening run when the change forced one.
type ImpactResponse struct {
	Impact    models.Impact    `json:"impact"`
	EventType models.EventType `json:"event_type"`
	Run       *RunResponse     `json:"run,omitempty"`
}
