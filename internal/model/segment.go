package model

import "time"

// Segment represents a submitted time range on a video.
type Segment struct {
	UUID           string    `json:"UUID"`
	VideoID        string    `json:"videoID"`
	Category       string    `json:"category"`
	StartTime      float64   `json:"startTime"`
	EndTime        float64   `json:"endTime"`
	Votes          int       `json:"votes"`
	IncorrectVotes int       `json:"-"`
	Views          int       `json:"views"`
	Locked         bool      `json:"locked"`
	Hidden         bool      `json:"-"`
	ShadowHidden   bool      `json:"-"`
	UserID         string    `json:"-"`
	TimeSubmitted  time.Time `json:"-"`
}

// CategoryVote is the per-(segment, category) weighted tally used by the
// category-change protocol.
type CategoryVote struct {
	SegmentUUID string `json:"UUID"`
	Category    string `json:"category"`
	Votes       int    `json:"votes"`
}

// CategoryVoteUser records which category a voter currently endorses on a
// segment, and the weight that was applied so a later switch reverses exactly.
type CategoryVoteUser struct {
	SegmentUUID string
	UserID      string
	Category    string
	Weight      int
}

// SegmentResponse is the API shape for segment lookups.
type SegmentResponse struct {
	UUID      string  `json:"UUID"`
	Category  string  `json:"category"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Votes     int     `json:"votes"`
	Views     int     `json:"views"`
	Locked    bool    `json:"locked"`
	VideoID   string  `json:"videoID,omitempty"`
}

// VideoSegmentsResponse groups a video's visible segments for hash-prefix
// lookups, where multiple videos can match one prefix.
type VideoSegmentsResponse struct {
	VideoID  string            `json:"videoID"`
	Hash     string            `json:"hash"`
	Segments []SegmentResponse `json:"segments"`
}
