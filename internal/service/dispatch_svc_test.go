package service

import "testing"

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantID    string
		wantToken string
	}{
		{"standard", "https://discord.com/api/webhooks/12345/abcdef", "12345", "abcdef"},
		{"trailing slash", "https://discord.com/api/webhooks/12345/abcdef/", "12345", "abcdef"},
		{"empty disables", "", "", ""},
		{"malformed disables", "nope", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, token := parseWebhookURL(tt.input)
			if id != tt.wantID || token != tt.wantToken {
				t.Errorf("parseWebhookURL(%q) = (%q, %q), want (%q, %q)",
					tt.input, id, token, tt.wantID, tt.wantToken)
			}
		})
	}
}

func TestDispatch_NeverBlocks(t *testing.T) {
	d := &DispatchService{queue: make(chan VoteEvent, 2)}

	// Three events into a queue of two: the third is dropped, not blocked on.
	for i := 0; i < 3; i++ {
		d.Dispatch(VoteEvent{Kind: EventVote, SegmentUUID: "uuid"})
	}

	if depth := d.QueueDepth(); depth != 2 {
		t.Errorf("queue depth = %d, want 2", depth)
	}
}

func TestDispatch_AssignsEventID(t *testing.T) {
	d := &DispatchService{queue: make(chan VoteEvent, 1)}
	d.Dispatch(VoteEvent{Kind: EventVote})

	ev := <-d.queue
	if ev.ID == "" {
		t.Error("dispatched event has no ID")
	}
}

func TestBuildEmbed(t *testing.T) {
	ev := VoteEvent{
		ID:          "evt-1",
		Kind:        EventCategoryChange,
		SegmentUUID: "deadbeef",
		VideoID:     "dQw4w9WgXcQ",
		Category:    "selfpromo",
		Votes:       3,
	}

	embed := buildEmbed(ev)
	if embed.Title != "Segment recategorized to selfpromo" {
		t.Errorf("title = %q", embed.Title)
	}
	// No title enrichment: description falls back to the video ID.
	if embed.Description != "dQw4w9WgXcQ" {
		t.Errorf("description = %q, want video ID fallback", embed.Description)
	}
	if embed.Footer == nil || embed.Footer.Text != "evt-1" {
		t.Error("footer should carry the event ID")
	}
}
