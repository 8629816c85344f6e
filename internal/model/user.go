package model

import (
	"time"

	"github.com/google/uuid"
)

// User is bookkeeping for a pseudonymous user ID.
type User struct {
	UserID     string    `json:"userId"`
	FirstSeen  time.Time `json:"-"`
	LastActive time.Time `json:"-"`
	Username   string    `json:"username,omitempty"`
}

// Warning is a moderator-issued, time-scoped penalty against a user.
// Enabled warnings issued within the configured window block voting.
type Warning struct {
	ID       uuid.UUID `json:"id"`
	UserID   string    `json:"-"`
	IssuedAt time.Time `json:"issuedAt"`
	IssuedBy string    `json:"-"`
	Reason   string    `json:"reason"`
	Enabled  bool      `json:"-"`
}

// UserResponse is the API response for user info lookups.
type UserResponse struct {
	UserID         string `json:"userId"`
	Username       string `json:"username,omitempty"`
	SegmentCount   int    `json:"segmentCount"`
	ViewCount      int    `json:"viewCount"`
	ActiveWarnings int    `json:"activeWarnings"`
	IsVIP          bool   `json:"isVip"`
}

// StatsResponse is the API response for global statistics.
type StatsResponse struct {
	TotalSegments  int            `json:"totalSegments"`
	TotalVotes     int            `json:"totalVotes"`
	TotalUsers     int            `json:"totalUsers"`
	ActiveUsers24h int            `json:"activeUsers24h"`
	TopCategories  map[string]int `json:"topCategories"`
}
