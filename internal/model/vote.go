package model

import "time"

// VoteRecord is one ledger row per (segment, voter) pair. Type is the legacy
// integer storage code; decode it with service.DecodeStoredType.
type VoteRecord struct {
	SegmentUUID string    `json:"UUID"`
	UserID      string    `json:"userID"`
	Type        int       `json:"type"`
	IPHash      string    `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// VoteRequest is the API request body for POST /api/voteOnSponsorTime.
// Type is a pointer so a missing vote kind is distinguishable from 0 (down).
type VoteRequest struct {
	UUID     string `json:"UUID"`
	UserID   string `json:"userID"`
	Type     *int   `json:"type,omitempty"`
	Category string `json:"category,omitempty"`
}

// ViewRequest is the API request body for POST /api/viewedVideoSponsorTime.
type ViewRequest struct {
	UUID string `json:"UUID"`
}

// OutcomeStatus classifies what a vote submission did.
type OutcomeStatus int

const (
	// OutcomeApplied: the vote mutated score or category state (or was an
	// exact repeat, which nets to zero and still reads as success).
	OutcomeApplied OutcomeStatus = iota
	// OutcomeAcknowledged: blocked by a moderation lock; no writes, but the
	// caller gets an explanatory message rather than an error.
	OutcomeAcknowledged
	// OutcomeSilent: redundant no-op (e.g. downvoting an already-suppressed
	// segment); the caller sees plain success.
	OutcomeSilent
	// OutcomeRejected: client error; Code and Message say why.
	OutcomeRejected
)

// VoteOutcome is the caller-facing result of a vote submission, independent
// of transport.
type VoteOutcome struct {
	Status  OutcomeStatus
	Code    string
	Message string
}

// VoteResponse is the JSON body returned for accepted vote submissions.
type VoteResponse struct {
	Applied bool   `json:"applied"`
	Message string `json:"message,omitempty"`
}
