package service

import "testing"

func TestReassignThreshold(t *testing.T) {
	tests := []struct {
		name  string
		votes int
		want  int
	}{
		{"zero votes floors at 2", 0, 2},
		{"one vote floors at 2", 1, 2},
		{"three votes", 3, 2},
		{"four votes", 4, 2},
		{"five votes rounds up", 5, 3},
		{"ten votes", 10, 5},
		{"eleven votes rounds up", 11, 6},
		{"negative score floors at 2", -2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReassignThreshold(tt.votes); got != tt.want {
				t.Errorf("ReassignThreshold(%d) = %d, want %d", tt.votes, got, tt.want)
			}
		})
	}
}

func TestShouldReassign(t *testing.T) {
	tests := []struct {
		name            string
		tallyChallenger int
		tallyIncumbent  int
		votes           int
		vip             bool
		owner           bool
		want            bool
	}{
		// One regular vote against the submitter's implicit baseline:
		// margin 1-1 = 0, threshold 2, stays put.
		{"first challenger vote loses to baseline", 1, 1, 0, false, false, false},
		{"margin below threshold", 3, 2, 4, false, false, false},
		{"margin meets threshold", 4, 2, 4, false, false, true},
		{"margin exceeds threshold", 10, 1, 4, false, false, true},
		{"high vote count raises bar", 5, 1, 10, false, false, false},
		{"high vote count cleared", 6, 1, 10, false, false, true},
		{"vip overrides margin", 0, 10000, 100, true, false, true},
		{"owner overrides margin", 0, 10000, 100, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldReassign(tt.tallyChallenger, tt.tallyIncumbent, tt.votes, tt.vip, tt.owner)
			if got != tt.want {
				t.Errorf("ShouldReassign(%d, %d, %d, %v, %v) = %v, want %v",
					tt.tallyChallenger, tt.tallyIncumbent, tt.votes, tt.vip, tt.owner, got, tt.want)
			}
		})
	}
}

func TestCategoryVoteWeight(t *testing.T) {
	if got := CategoryVoteWeight(false); got != 1 {
		t.Errorf("regular weight = %d, want 1", got)
	}
	if got := CategoryVoteWeight(true); got != 500 {
		t.Errorf("vip weight = %d, want 500", got)
	}
}

func TestBaselineWeight(t *testing.T) {
	if got := BaselineWeight(false); got != 1 {
		t.Errorf("regular baseline = %d, want 1", got)
	}
	if got := BaselineWeight(true); got != 10000 {
		t.Errorf("vip baseline = %d, want 10000", got)
	}
}

func TestCategoryConsensus_RegularVotersCanOverturn(t *testing.T) {
	// Simulated tallies: the incumbent holds the submitter baseline of 1,
	// challengers accumulate one weighted vote each. The third challenger
	// vote clears the margin on a segment with 4 score votes.
	incumbent := BaselineWeight(false)
	challenger := 0
	votes := 4

	for i := 1; i <= 3; i++ {
		challenger += CategoryVoteWeight(false)
		reassigned := ShouldReassign(challenger, incumbent, votes, false, false)
		if want := i == 3; reassigned != want {
			t.Errorf("after %d challenger votes: reassigned = %v, want %v", i, reassigned, want)
		}
	}
}

func TestCategoryConsensus_VIPBaselineResistsRegularVoters(t *testing.T) {
	// A VIP submitter's baseline of 10000 cannot be outvoted by regular
	// weight-1 votes in any realistic number.
	incumbent := BaselineWeight(true)
	challenger := 100 * CategoryVoteWeight(false)

	if ShouldReassign(challenger, incumbent, 0, false, false) {
		t.Error("100 regular votes overturned a VIP baseline")
	}
	// A VIP challenger reassigns regardless of the tallies.
	if !ShouldReassign(challenger, incumbent, 0, true, false) {
		t.Error("vip challenger should always reassign")
	}
}
