package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Key0string/SponsorBlockServer/internal/config"
	"github.com/Key0string/SponsorBlockServer/internal/model"
	"github.com/Key0string/SponsorBlockServer/internal/repository"
	"github.com/Key0string/SponsorBlockServer/pkg/hash"
)

// ErrUserNotFound is returned when a user has never interacted with the
// service.
var ErrUserNotFound = errors.New("user not found")

// UserService serves user info lookups and global statistics.
type UserService struct {
	users    *repository.UserRepo
	identity *IdentityService
	cfg      *config.Config
}

func NewUserService(users *repository.UserRepo, identity *IdentityService, cfg *config.Config) *UserService {
	return &UserService{users: users, identity: identity, cfg: cfg}
}

// GetUserInfo looks up a user by their raw private ID, which is hashed to the
// public ID before any query runs.
func (s *UserService) GetUserInfo(ctx context.Context, rawUserID string) (*model.UserResponse, error) {
	publicID := hash.PublicUserID(rawUserID)

	user, err := s.users.FindByUserID(ctx, publicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	segments, views, err := s.users.GetUserCounts(ctx, publicID)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-s.cfg.WarningExpiry)
	warnings, err := s.users.ActiveWarnings(ctx, publicID, cutoff)
	if err != nil {
		return nil, err
	}

	vip, err := s.identity.IsVIP(ctx, publicID)
	if err != nil {
		return nil, err
	}

	return &model.UserResponse{
		UserID:         user.UserID,
		Username:       user.Username,
		SegmentCount:   segments,
		ViewCount:      views,
		ActiveWarnings: len(warnings),
		IsVIP:          vip,
	}, nil
}

// GetStats returns the aggregate service statistics.
func (s *UserService) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	return s.users.GetStats(ctx, s.cfg.HiddenVoteThreshold)
}
