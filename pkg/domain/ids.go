package domain

import (
	"github.com/google/uuid"

	dErrors "lexscreen/pkg/domain-errors"
)

// Typed identifiers for the screening domain. Wrapping uuid.UUID in distinct
// types lets the compiler reject an OrgID where a RunID is expected.
//
// IDs must be valid, non-empty, non-nil UUIDs. The Parse* functions enforce
// this at trust boundaries (HTTP handlers, store loads); internal code passes
// the typed values around without re-validating.

// OrgID identifies an organization whose profile is screened.
type OrgID uuid.UUID

// RunID identifies one progressive screening run.
type RunID uuid.UUID

// NewOrgID returns a fresh organization ID.
func NewOrgID() OrgID { return OrgID(uuid.New()) }

// NewRunID returns a fresh run ID.
func NewRunID() RunID { return RunID(uuid.New()) }

// ParseOrgID validates and returns an OrgID.
func ParseOrgID(s string) (OrgID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return OrgID{}, err
	}
	return OrgID(u), nil
}

// ParseRunID validates and returns a RunID.
func ParseRunID(s string) (RunID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return RunID{}, err
	}
	return RunID(u), nil
}

func (id OrgID) String() string { return uuid.UUID(id).String() }
func (id RunID) String() string { return uuid.UUID(id).String() }

// Text marshalling keeps IDs as canonical UUID strings in JSON payloads.

func (id OrgID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id RunID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *OrgID) UnmarshalText(b []byte) error {
	parsed, err := ParseOrgID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RunID) UnmarshalText(b []byte) error {
	parsed, err := ParseRunID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IsNil reports whether the ID is the zero UUID.
func (id OrgID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the ID is the zero UUID.
func (id RunID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
