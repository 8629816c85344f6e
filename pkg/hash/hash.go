package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// VideoHashPrefix returns the first prefixLen characters of SHA256(videoId).
// Used for privacy-preserving segment lookups (k-anonymity).
func VideoHashPrefix(videoID string, prefixLen int) string {
	full := SHA256Hex(videoID)
	if prefixLen > len(full) {
		return full
	}
	return full[:prefixLen]
}

// IteratedSHA256 applies SHA256 iteratively n times to produce a derived hash.
// Used for user ID hashing (5000 iterations) and IP hashing.
func IteratedSHA256(input string, iterations int) string {
	data := []byte(input)
	for range iterations {
		h := sha256.Sum256(data)
		data = h[:]
	}
	return hex.EncodeToString(data)
}

// PublicUserID hashes a raw client-side ID with 5000 iterations of SHA256
// to produce the stable pseudonymous user ID used across all of a user's
// actions (submissions, privilege lookups, warnings).
func PublicUserID(rawID string) string {
	return IteratedSHA256(rawID, 5000)
}

// SegmentVoterID derives the voter ID recorded on a single segment's vote
// ledger. Salting with the segment UUID keeps one user's votes on different
// segments uncorrelatable.
func SegmentVoterID(rawID, segmentUUID string) string {
	return IteratedSHA256(rawID+segmentUUID, 5000)
}

// HashIP hashes an IP address with a salt using 5000 iterations of SHA256.
func HashIP(ip, salt string) string {
	return IteratedSHA256(salt+ip, 5000)
}
