package models

import (
	"fmt"
	"time"

	id "lexscreen/pkg/domain"
)

// RunStatus is the lifecycle state of one screening run.
type RunStatus string

const (
	RunInitiated RunStatus = "initiated"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunErrored   RunStatus = "errored"
	RunCancelled RunStatus = "cancelled"
)

// Terminal reports whether the status ends the run.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunErrored, RunCancelled:
		return true
	default:
		return false
	}
}

// RunKey is the textual run identity: organization plus a timestamp component
// plus a fresh UUID, so rapid repeated runs on the same organization stay
// distinct while remaining greppable in logs by organization.
func RunKey(orgID id.OrgID, runID id.RunID, startedAt time.Time) string {
	return fmt.Sprintf("%s:%d:%s", orgID, startedAt.UnixMilli(), runID)
}
