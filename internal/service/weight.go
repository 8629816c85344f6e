package service

// VoteKind is the decoded intent of a vote, separated from the overloaded
// integer codes clients send and the ledger stores.
type VoteKind int

const (
	KindUpvote VoteKind = iota
	KindDownvote
	KindIncorrectUp
	KindIncorrectDown
	KindUndo
)

func (k VoteKind) String() string {
	switch k {
	case KindUpvote:
		return "upvote"
	case KindDownvote:
		return "downvote"
	case KindIncorrectUp:
		return "incorrect_up"
	case KindIncorrectDown:
		return "incorrect_down"
	case KindUndo:
		return "undo"
	}
	return "unknown"
}

// IsIncorrect reports whether the vote targets the incorrect-report counter
// rather than the plain score counter.
func (k VoteKind) IsIncorrect() bool {
	return k == KindIncorrectUp || k == KindIncorrectDown
}

// Ledger storage codes. Kept wire-compatible with the historical integer
// encoding; everything outside the storage boundary works with VoteKind.
const (
	typeDown             = 0
	typeUp               = 1
	typeIncorrectDown    = 10
	typeIncorrectUp      = 11
	typeIncorrectUpVIP   = 12
	typeIncorrectDownVIP = 13
	typeUndo             = 20
	typeLegacyExtraDown  = 21
)

// ParseVoteType maps a client-supplied vote type code to a VoteKind.
func ParseVoteType(t int) (VoteKind, bool) {
	switch t {
	case typeUp:
		return KindUpvote, true
	case typeDown:
		return KindDownvote, true
	case typeUndo:
		return KindUndo, true
	case typeIncorrectUp:
		return KindIncorrectUp, true
	case typeIncorrectDown:
		return KindIncorrectDown, true
	}
	return 0, false
}

// DecodeStoredType maps a ledger type code to the numeric weight it applied.
// Negative raw values are privileged downvotes stored as their own weight.
func DecodeStoredType(t int) int {
	if t < 0 {
		return t
	}
	switch t {
	case typeUp:
		return 1
	case typeDown:
		return -1
	case typeUndo:
		return 0
	case typeLegacyExtraDown:
		return -4
	case typeIncorrectUp:
		return 1
	case typeIncorrectDown:
		return -1
	case typeIncorrectUpVIP:
		return 500
	case typeIncorrectDownVIP:
		return -500
	}
	return 0
}

// NewWeight computes the weight a fresh vote applies. A privileged (VIP or
// self) downvote is sized so the segment lands exactly on the -2 suppression
// floor no matter where its score started:
//
//	votes + (newWeight - oldWeight) = votes - (votes + 2 - oldWeight) - oldWeight = -2
func NewWeight(kind VoteKind, privileged bool, currentVotes, oldWeight int) int {
	switch kind {
	case KindUpvote:
		return 1
	case KindDownvote:
		if privileged {
			return -(currentVotes + 2 - oldWeight)
		}
		return -1
	case KindIncorrectUp:
		if privileged {
			return 500
		}
		return 1
	case KindIncorrectDown:
		if privileged {
			return -500
		}
		return -1
	case KindUndo:
		return 0
	}
	return 0
}

// EncodeIntent maps a vote intent back to its ledger storage code.
func EncodeIntent(kind VoteKind, privileged bool, weight int) int {
	switch kind {
	case KindUpvote:
		return typeUp
	case KindDownvote:
		// A privileged downvote against a segment already at or below the
		// floor computes a non-negative weight; record it as a plain
		// downvote since the floor is already reached.
		if privileged && weight < 0 {
			return weight
		}
		return typeDown
	case KindIncorrectUp:
		if privileged {
			return typeIncorrectUpVIP
		}
		return typeIncorrectUp
	case KindIncorrectDown:
		if privileged {
			return typeIncorrectDownVIP
		}
		return typeIncorrectDown
	case KindUndo:
		return typeUndo
	}
	return typeUndo
}
