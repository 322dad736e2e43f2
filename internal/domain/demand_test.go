package domain

import "testing"

func TestToggleVoteTwiceRestoresState(t *testing.T) {
	d := &Demand{UpVoteCount: InitialUpVoteCount, Voters: []string{}}

	if voted := d.ToggleVote("u1"); !voted {
		t.Fatal("first toggle should add the vote")
	}
	if d.UpVoteCount != 2 {
		t.Errorf("count = %d, want 2", d.UpVoteCount)
	}
	if len(d.Voters) != 1 || d.Voters[0] != "u1" {
		t.Errorf("voters = %v, want [u1]", d.Voters)
	}

	if voted := d.ToggleVote("u1"); voted {
		t.Fatal("second toggle should remove the vote")
	}
	if d.UpVoteCount != 1 {
		t.Errorf("count = %d, want 1", d.UpVoteCount)
	}
	if len(d.Voters) != 0 {
		t.Errorf("voters = %v, want empty", d.Voters)
	}
}

func TestToggleVoteNeverDuplicates(t *testing.T) {
	d := &Demand{UpVoteCount: InitialUpVoteCount}
	for i := 0; i < 7; i++ {
		d.ToggleVote("u1")
		d.ToggleVote("u2")
	}
	d.ToggleVote("u1")

	seen := map[string]int{}
	for _, v := range d.Voters {
		seen[v]++
	}
	if seen["u1"] != 1 {
		t.Errorf("u1 appears %d times, want 1", seen["u1"])
	}
	if seen["u2"] != 1 {
		t.Errorf("u2 appears %d times, want 1", seen["u2"])
	}
	if d.UpVoteCount != InitialUpVoteCount+2 {
		t.Errorf("count = %d, want %d", d.UpVoteCount, InitialUpVoteCount+2)
	}
}

func TestToggleVoteDropsBlankVoters(t *testing.T) {
	d := &Demand{UpVoteCount: 3, Voters: []string{"", "u2", ""}}

	d.ToggleVote("u1")

	want := []string{"u2", "u1"}
	if len(d.Voters) != len(want) {
		t.Fatalf("voters = %v, want %v", d.Voters, want)
	}
	for i := range want {
		if d.Voters[i] != want[i] {
			t.Errorf("voters[%d] = %q, want %q", i, d.Voters[i], want[i])
		}
	}
	if d.UpVoteCount != 4 {
		t.Errorf("count = %d, want 4", d.UpVoteCount)
	}
}

func TestCategoryAndStatusValid(t *testing.T) {
	for _, c := range []DemandCategory{"infrastructure", "public_service", "transportation", "utilities", "education", "healthcare", "other"} {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if DemandCategory("roads").Valid() {
		t.Error("roads should be invalid")
	}
	if !DemandStatusNotFulfilled.Valid() || DemandStatus("pending").Valid() {
		t.Error("status validation mismatch")
	}
}
