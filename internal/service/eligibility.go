package service

// GateStatus is the eligibility gate's verdict on a vote, decided before any
// mutation happens.
type GateStatus int

const (
	// GateEligible: apply the vote normally.
	GateEligible GateStatus = iota
	// GateAcknowledged: blocked by a moderation lock. No writes; the caller
	// receives an explanatory message rather than an error.
	GateAcknowledged
	// GateSilent: redundant no-op accepted without any writes.
	GateSilent
	// GateRecordOnly: the ledger row may be written for idempotence
	// bookkeeping, but no counter moves.
	GateRecordOnly
	// GateRejected: hard client rejection; Code and Message say why.
	GateRejected
)

// Error codes surfaced to the HTTP layer.
const (
	CodeMissingFields   = "MISSING_FIELDS"
	CodeInvalidType     = "INVALID_TYPE"
	CodeInvalidCategory = "INVALID_CATEGORY"
	CodeSegmentNotFound = "SEGMENT_NOT_FOUND"
	CodeUserWarned      = "USER_WARNED"
	CodeVoteRejected    = "VOTE_REJECTED"
)

const (
	lockedMessage = "This segment is locked by a moderator. If you believe it is incorrect, " +
		"please contact the moderation team instead of voting."
	warnedMessage = "You have an active warning from the moderation team and cannot vote " +
		"until it expires or is lifted."
	suppressedUpvoteMessage = "This segment has been removed by votes and can no longer be upvoted."
)

// GateInput carries everything the eligibility checks read. All fields are
// plain values so the decision is a pure function.
type GateInput struct {
	Kind         VoteKind
	CategoryVote bool

	IsVIP   bool
	IsOwner bool

	SegmentVotes      int
	SuppressThreshold int
	Locked            bool

	ActiveWarnings int
	MaxWarnings    int

	HasPriorSubmission bool
	ShadowBanned       bool
	DuplicateIP        bool
}

// GateDecision is the gate's verdict plus what the caller should be told.
type GateDecision struct {
	Status  GateStatus
	Code    string
	Message string
}

// EvaluateGate runs the sequenced eligibility checks, short-circuiting at the
// first one that fires. Malformed-request and unknown-target checks happen
// before a GateInput can be built, so they are not repeated here.
func EvaluateGate(in GateInput) GateDecision {
	// Moderation locks stop everything except plain upvotes from
	// non-privileged voters; the caller gets a message, not an error.
	plainUpvote := !in.CategoryVote && in.Kind == KindUpvote
	if in.Locked && !in.IsVIP && !plainUpvote {
		return GateDecision{Status: GateAcknowledged, Message: lockedMessage}
	}

	// Suppressed segments: further downvotes are redundant, and upvotes by
	// non-privileged voters are refused outright.
	if !in.CategoryVote && !in.IsVIP && !in.IsOwner && in.SegmentVotes <= in.SuppressThreshold {
		switch in.Kind {
		case KindDownvote:
			return GateDecision{Status: GateSilent}
		case KindUpvote:
			return GateDecision{
				Status:  GateRejected,
				Code:    CodeVoteRejected,
				Message: suppressedUpvoteMessage,
			}
		}
	}

	// Warning-based suspension blocks both vote paths.
	if in.ActiveWarnings >= in.MaxWarnings {
		return GateDecision{
			Status:  GateRejected,
			Code:    CodeUserWarned,
			Message: warnedMessage,
		}
	}

	// Anti-abuse checks apply to score votes from non-VIPs only. Failing
	// them records the vote without letting it move any counter, so the
	// voter cannot tell they were excluded.
	if !in.CategoryVote && !in.IsVIP {
		if !in.HasPriorSubmission || in.ShadowBanned || in.DuplicateIP {
			return GateDecision{Status: GateRecordOnly}
		}
	}

	return GateDecision{Status: GateEligible}
}
