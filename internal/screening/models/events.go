package models

import (
	"time"

	id "lexscreen/pkg/domain"
)

// EventType identifies one event on a run's stream.
type EventType string

const (
	EventStreamStarted   EventType = "stream_started"
	EventPhaseStarted    EventType = "phase_started"
	EventPhaseCompleted  EventType = "phase_completed"
	EventStreamCompleted EventType = "stream_completed"
	EventStreamError     EventType = "stream_error"

	// Profile-change events are published outside any run stream.
	EventProfileChangeNotification EventType = "profile_change_notification"
	EventMinorProfileUpdate        EventType = "minor_profile_update"
)

// Event is one update on a run's broadcast channel. Within a run, events are
// published in strict order: stream_started, then phase_started /
// phase_completed pairs in phase order, then exactly one terminal event.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	RunID id.RunID `json:"run_id"`
	OrgID id.OrgID `json:"organization_id"`

	// Trigger is the informational source tag given at start_run.
	// Carried on stream_started only.
	Trigger string `json:"trigger,omitempty"`

	// Phase payloads.
	Phase     ComplexityLevel  `json:"phase,omitempty"`
	Result    *PhaseResult     `json:"result,omitempty"`
	Diff      *Diff            `json:"diff,omitempty"`
	NextPhase *ComplexityLevel `json:"next_phase,omitempty"`

	// Terminal payloads.
	TotalPhasesRun int    `json:"total_phases_run,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`

	// Profile-change payload.
	Impact *Impact `json:"impact,omitempty"`
}
