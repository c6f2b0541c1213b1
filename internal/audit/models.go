package audit

import (
	"time"

	id "lexscreen/pkg/domain"
)

// Action names for screening lifecycle and profile-change events.
const (
	ActionRunStarted      = "screening.run_started"
	ActionRunCompleted    = "screening.run_completed"
	ActionRunErrored      = "screening.run_errored"
	ActionRunCancelled    = "screening.run_cancelled"
	ActionProfileAnalyzed = "screening.profile_change_analyzed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	OrgID     id.OrgID  `json:"organization_id"`
	RunID     id.RunID  `json:"run_id,omitempty"`
	Action    string    `json:"action"`
	Trigger   string    `json:"trigger,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
