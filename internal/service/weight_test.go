package service

import "testing"

// applyVote mirrors one ledger transition without a database: given the
// segment's current score and the voter's previous weight, it returns the new
// score and the weight now on the ledger.
func applyVote(kind VoteKind, privileged bool, votes, oldWeight int) (newVotes, newWeight int) {
	newWeight = NewWeight(kind, privileged, votes, oldWeight)
	return votes + (newWeight - oldWeight), newWeight
}

func TestParseVoteType(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		wantKind VoteKind
		wantOK   bool
	}{
		{"upvote", 1, KindUpvote, true},
		{"downvote", 0, KindDownvote, true},
		{"undo", 20, KindUndo, true},
		{"incorrect up", 11, KindIncorrectUp, true},
		{"incorrect down", 10, KindIncorrectDown, true},
		{"privileged codes are storage-only", 12, 0, false},
		{"legacy extra down is storage-only", 21, 0, false},
		{"negative", -5, 0, false},
		{"garbage", 99, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := ParseVoteType(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
		})
	}
}

func TestDecodeStoredType(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"up", 1, 1},
		{"down", 0, -1},
		{"undo", 20, 0},
		{"legacy extra down", 21, -4},
		{"incorrect up", 11, 1},
		{"incorrect down", 10, -1},
		{"privileged incorrect up", 12, 500},
		{"privileged incorrect down", 13, -500},
		{"stored privileged downvote weight", -7, -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeStoredType(tt.input); got != tt.want {
				t.Errorf("DecodeStoredType(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestVote_FreshUpvote(t *testing.T) {
	votes, weight := applyVote(KindUpvote, false, 0, 0)
	if votes != 1 {
		t.Errorf("votes = %d, want 1", votes)
	}
	if weight != 1 {
		t.Errorf("weight = %d, want 1", weight)
	}
}

func TestVote_IdenticalRepeatIsIdempotent(t *testing.T) {
	// First upvote moves the score; repeating it nets to zero.
	votes, weight := applyVote(KindUpvote, false, 5, 0)
	if votes != 6 {
		t.Fatalf("first vote: votes = %d, want 6", votes)
	}
	votes, weight = applyVote(KindUpvote, false, votes, weight)
	if votes != 6 {
		t.Errorf("repeat vote: votes = %d, want 6", votes)
	}
	if weight != 1 {
		t.Errorf("repeat vote: weight = %d, want 1", weight)
	}
}

func TestVote_SwitchSwingsByTwo(t *testing.T) {
	// up then down on the same segment replaces the vote, it never stacks:
	// the score moves by exactly 2 from the post-upvote value.
	votes, weight := applyVote(KindUpvote, false, 10, 0)
	if votes != 11 {
		t.Fatalf("upvote: votes = %d, want 11", votes)
	}
	votes, _ = applyVote(KindDownvote, false, votes, weight)
	if votes != 9 {
		t.Errorf("switch to downvote: votes = %d, want 9", votes)
	}
}

func TestVote_UndoRestoresOriginal(t *testing.T) {
	votes, weight := applyVote(KindDownvote, false, 3, 0)
	if votes != 2 {
		t.Fatalf("downvote: votes = %d, want 2", votes)
	}
	votes, weight = applyVote(KindUndo, false, votes, weight)
	if votes != 3 {
		t.Errorf("undo: votes = %d, want 3", votes)
	}
	if weight != 0 {
		t.Errorf("undo: weight = %d, want 0", weight)
	}
}

func TestVote_PrivilegedDownvoteHitsFloor(t *testing.T) {
	tests := []struct {
		name      string
		votes     int
		oldWeight int
	}{
		{"popular segment", 100, 0},
		{"votes of one", 1, 0},
		{"already at zero", 0, 0},
		{"after own upvote", 5, 1},
		{"negative score", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes, _ := applyVote(KindDownvote, true, tt.votes, tt.oldWeight)
			if votes != -2 {
				t.Errorf("votes = %d, want -2 (suppression floor)", votes)
			}
		})
	}
}

func TestVote_PrivilegedDownvoteOnVotesOfOne(t *testing.T) {
	// A segment at 1 gets a VIP downvote of weight -(1+2-0) = -3.
	weight := NewWeight(KindDownvote, true, 1, 0)
	if weight != -3 {
		t.Errorf("weight = %d, want -3", weight)
	}
}

func TestVote_PrivilegedIncorrect(t *testing.T) {
	if w := NewWeight(KindIncorrectUp, true, 0, 0); w != 500 {
		t.Errorf("privileged incorrect up = %d, want 500", w)
	}
	if w := NewWeight(KindIncorrectDown, true, 0, 0); w != -500 {
		t.Errorf("privileged incorrect down = %d, want -500", w)
	}
	if w := NewWeight(KindIncorrectUp, false, 0, 0); w != 1 {
		t.Errorf("regular incorrect up = %d, want 1", w)
	}
}

func TestEncodeIntent_RoundTripsThroughDecode(t *testing.T) {
	tests := []struct {
		name       string
		kind       VoteKind
		privileged bool
		votes      int
		oldWeight  int
	}{
		{"upvote", KindUpvote, false, 0, 0},
		{"downvote", KindDownvote, false, 5, 0},
		{"privileged downvote", KindDownvote, true, 7, 0},
		{"privileged incorrect up", KindIncorrectUp, true, 0, 0},
		{"incorrect down", KindIncorrectDown, false, 0, 0},
		{"undo", KindUndo, false, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weight := NewWeight(tt.kind, tt.privileged, tt.votes, tt.oldWeight)
			stored := EncodeIntent(tt.kind, tt.privileged, weight)
			if got := DecodeStoredType(stored); got != weight {
				t.Errorf("decode(encode) = %d, want the applied weight %d", got, weight)
			}
		})
	}
}

func TestEncodeIntent_FlooredPrivilegedDownvote(t *testing.T) {
	// At a score of -2 or below, the computed privileged weight is >= 0 and
	// the ledger falls back to the plain downvote code.
	weight := NewWeight(KindDownvote, true, -2, 0)
	if weight != 0 {
		t.Fatalf("weight = %d, want 0", weight)
	}
	if stored := EncodeIntent(KindDownvote, true, weight); stored != 0 {
		t.Errorf("stored = %d, want plain downvote code 0", stored)
	}
}
