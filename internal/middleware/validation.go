package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxVideoIDLen     = 32  // segments.video_id VARCHAR(32)
	MaxSegmentUUIDLen = 70  // votes.segment_id VARCHAR(70)
	MinSegmentUUIDLen = 8
	MinUserIDLen      = 30  // raw private IDs must carry enough entropy
	MaxUserIDLen      = 200 // hashed before storage, so only an upper bound
	MaxCategoryLen    = 20  // segments.category VARCHAR(20)
	MinHashPrefix     = 4
	MaxHashPrefix     = 32
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// segmentUUIDRe matches segment UUIDs: hex digests, optionally dashed.
	segmentUUIDRe = regexp.MustCompile(`^[0-9a-f-]+$`)
	// hexRe matches lowercase hex strings (hash prefixes).
	hexRe = regexp.MustCompile(`^[0-9a-f]+$`)
	// categoryRe matches category slugs: lowercase words and underscores.
	categoryRe = regexp.MustCompile(`^[a-z_]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateSegmentUUID checks that a segment UUID is well-formed.
func ValidateSegmentUUID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "UUID is required"
	}
	if len(id) < MinSegmentUUIDLen || len(id) > MaxSegmentUUIDLen {
		return "", "UUID has an invalid length"
	}
	if !segmentUUIDRe.MatchString(id) {
		return "", "UUID contains invalid characters"
	}
	return id, ""
}

// ValidateUserID checks a raw private user ID. It is hashed before any
// storage or lookup, so only length bounds apply here.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "userID is required"
	}
	if len(id) < MinUserIDLen {
		return "", "userID must be at least 30 characters"
	}
	if len(id) > MaxUserIDLen {
		return "", "userID must be at most 200 characters"
	}
	return id, ""
}

// ValidateVideoID checks that a video ID is well-formed and within DB limits.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoID is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoID must be at most 32 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoID contains invalid characters"
	}
	return id, ""
}

// ValidateCategory checks the category slug format. Membership in the
// configured category sets is checked by the service layer.
func ValidateCategory(category string) (string, string) {
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" {
		return "", ""
	}
	if len(category) > MaxCategoryLen {
		return "", "category must be at most 20 characters"
	}
	if !categoryRe.MatchString(category) {
		return "", "category contains invalid characters"
	}
	return category, ""
}

// ValidateHashPrefix checks the video hash prefix format.
func ValidateHashPrefix(prefix string) (string, string) {
	prefix = strings.TrimSpace(strings.ToLower(prefix))
	if len(prefix) < MinHashPrefix || len(prefix) > MaxHashPrefix {
		return "", "Hash prefix must be 4-32 characters"
	}
	if !hexRe.MatchString(prefix) {
		return "", "Hash prefix must be hexadecimal"
	}
	return prefix, ""
}
