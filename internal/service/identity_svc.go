package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Key0string/SponsorBlockServer/internal/repository"
	"github.com/Key0string/SponsorBlockServer/pkg/hash"
)

// Identity is everything the vote engine needs to know about who is voting.
// Pure lookups; nothing here has side effects.
type Identity struct {
	// PublicID is the stable pseudonymous ID used for privilege, warning
	// and submission lookups.
	PublicID string
	// VoterID is the per-segment ID recorded on the vote ledger.
	VoterID string
	IPHash  string
	IsVIP   bool
}

// IdentityService derives pseudonymous identifiers and resolves privilege
// flags. VIP flags sit behind a small TTL cache; the cache is advisory only
// and a stale entry at worst delays a privilege change by its TTL.
type IdentityService struct {
	users    *repository.UserRepo
	ipSalt   string
	vipCache *expirable.LRU[string, bool]
}

func NewIdentityService(users *repository.UserRepo, ipSalt string) *IdentityService {
	return &IdentityService{
		users:    users,
		ipSalt:   ipSalt,
		vipCache: expirable.NewLRU[string, bool](4096, nil, 5*time.Minute),
	}
}

// Resolve derives the voter's identifiers and privilege flags for one vote.
func (s *IdentityService) Resolve(ctx context.Context, rawUserID, segmentUUID, ip string) (Identity, error) {
	publicID := hash.PublicUserID(rawUserID)

	vip, err := s.IsVIP(ctx, publicID)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		PublicID: publicID,
		VoterID:  hash.SegmentVoterID(rawUserID, segmentUUID),
		IPHash:   hash.HashIP(ip, s.ipSalt),
		IsVIP:    vip,
	}, nil
}

// IsVIP reports whether a public user ID is in the privileged-user registry.
func (s *IdentityService) IsVIP(ctx context.Context, publicID string) (bool, error) {
	if vip, ok := s.vipCache.Get(publicID); ok {
		return vip, nil
	}
	vip, err := s.users.IsVIP(ctx, publicID)
	if err != nil {
		return false, err
	}
	s.vipCache.Add(publicID, vip)
	return vip, nil
}
