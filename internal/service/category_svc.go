package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Key0string/SponsorBlockServer/internal/config"
	"github.com/Key0string/SponsorBlockServer/internal/model"
	"github.com/Key0string/SponsorBlockServer/internal/repository"
)

const (
	// Weight a single category vote carries.
	categoryWeightRegular = 1
	categoryWeightVIP     = 500

	// Implicit endorsement seeded for the incumbent category, derived from
	// the submitter's privilege tier. Keeps an untouched category from being
	// dominated by one low-weight vote.
	baselineWeightRegular = 1
	baselineWeightVIP     = 10000
)

// CategoryVoteWeight returns the weighted tally delta one voter applies.
func CategoryVoteWeight(vip bool) int {
	if vip {
		return categoryWeightVIP
	}
	return categoryWeightRegular
}

// BaselineWeight returns the incumbent category's implicit starting tally.
func BaselineWeight(ownerVIP bool) int {
	if ownerVIP {
		return baselineWeightVIP
	}
	return baselineWeightRegular
}

// ReassignThreshold is the tally margin a challenger category needs over the
// incumbent: half the segment's own score-vote count, but never below 2, so
// better-trusted segments take a bigger swing to recategorize.
func ReassignThreshold(submissionVotes int) int {
	threshold := (submissionVotes + 1) / 2
	if threshold < 2 {
		threshold = 2
	}
	return threshold
}

// ShouldReassign decides whether the challenger category takes over.
// VIP and owner votes always win immediately.
func ShouldReassign(tallyChallenger, tallyIncumbent, submissionVotes int, vip, owner bool) bool {
	if vip || owner {
		return true
	}
	return tallyChallenger-tallyIncumbent >= ReassignThreshold(submissionVotes)
}

// CategoryService is the category-change consensus engine: weighted tallies
// per candidate category, one active vote per voter per segment, reassignment
// once a challenger clears the incumbent by the swing threshold.
type CategoryService struct {
	votes      *repository.VoteRepo
	users      *repository.UserRepo
	categories *repository.CategoryRepo
	identity   *IdentityService
	cache      *CacheService
	dispatch   *DispatchService
	cfg        *config.Config
	gate       *VoteService
}

func NewCategoryService(
	votes *repository.VoteRepo,
	users *repository.UserRepo,
	categories *repository.CategoryRepo,
	identity *IdentityService,
	cache *CacheService,
	dispatch *DispatchService,
	cfg *config.Config,
	gate *VoteService,
) *CategoryService {
	return &CategoryService{
		votes:      votes,
		users:      users,
		categories: categories,
		identity:   identity,
		cache:      cache,
		dispatch:   dispatch,
		cfg:        cfg,
		gate:       gate,
	}
}

// Vote processes a category-change vote. It never touches the plain score
// counters.
func (s *CategoryService) Vote(ctx context.Context, req model.VoteRequest, ip string) (*model.VoteOutcome, error) {
	if req.UUID == "" || req.UserID == "" || req.Category == "" {
		return rejected(CodeMissingFields, "UUID, userID and category are required"), nil
	}
	if !s.cfg.IsKnownCategory(req.Category) || s.cfg.CategoryKind(req.Category) != config.KindSkippable {
		return rejected(CodeInvalidCategory,
			fmt.Sprintf("category %q does not accept category votes", req.Category)), nil
	}

	ids, err := s.identity.Resolve(ctx, req.UserID, req.UUID, ip)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	tx, err := s.votes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	seg, err := s.votes.GetSegmentForUpdate(ctx, tx, req.UUID)
	if err != nil {
		return nil, err
	}
	if seg == nil {
		return rejected(CodeSegmentNotFound, "segment not found"), nil
	}
	isOwner := seg.UserID == ids.PublicID

	in, err := s.gate.buildGateInput(ctx, 0, true, seg, ids, isOwner)
	if err != nil {
		return nil, err
	}
	decision := EvaluateGate(in)
	switch decision.Status {
	case GateRejected:
		return &model.VoteOutcome{Status: model.OutcomeRejected, Code: decision.Code, Message: decision.Message}, nil
	case GateAcknowledged:
		return &model.VoteOutcome{Status: model.OutcomeAcknowledged, Message: decision.Message}, nil
	}

	prior, err := s.categories.GetUserCategoryVote(ctx, tx, req.UUID, ids.VoterID)
	if err != nil {
		return nil, err
	}
	// Repeating the same category vote is an idempotent no-op.
	if prior != nil && prior.Category == req.Category {
		return &model.VoteOutcome{Status: model.OutcomeApplied}, nil
	}

	// Seed the incumbent's implicit submitter endorsement before comparing
	// tallies, so a single low-weight vote cannot trivially displace it.
	if _, exists, err := s.categories.GetTally(ctx, tx, req.UUID, seg.Category); err != nil {
		return nil, err
	} else if !exists {
		ownerVIP, err := s.identity.IsVIP(ctx, seg.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.categories.SeedBaseline(ctx, tx, req.UUID, seg.Category, seg.UserID, BaselineWeight(ownerVIP)); err != nil {
			return nil, err
		}
	}

	weight := CategoryVoteWeight(ids.IsVIP)
	if prior != nil {
		if err := s.categories.AddToTally(ctx, tx, req.UUID, prior.Category, -prior.Weight); err != nil {
			return nil, err
		}
	}
	if err := s.categories.AddToTally(ctx, tx, req.UUID, req.Category, weight); err != nil {
		return nil, err
	}

	reassigned := false
	if req.Category != seg.Category {
		tallyChallenger, _, err := s.categories.GetTally(ctx, tx, req.UUID, req.Category)
		if err != nil {
			return nil, err
		}
		tallyIncumbent, _, err := s.categories.GetTally(ctx, tx, req.UUID, seg.Category)
		if err != nil {
			return nil, err
		}
		if ShouldReassign(tallyChallenger, tallyIncumbent, seg.Votes, ids.IsVIP, isOwner) {
			if err := s.categories.SetSegmentCategory(ctx, tx, req.UUID, req.Category); err != nil {
				return nil, err
			}
			reassigned = true
		}
	}

	err = s.categories.UpsertUserCategoryVote(ctx, tx, &model.CategoryVoteUser{
		SegmentUUID: req.UUID,
		UserID:      ids.VoterID,
		Category:    req.Category,
		Weight:      weight,
	})
	if err != nil {
		return nil, err
	}
	if err := s.users.Touch(ctx, tx, ids.PublicID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateVideo(ctx, seg.VideoID); err != nil {
			log.Printf("cache: invalidate video error: %v", err)
		}
	}
	if reassigned && s.dispatch != nil {
		s.dispatch.Dispatch(VoteEvent{
			Kind:        EventCategoryChange,
			SegmentUUID: seg.UUID,
			VideoID:     seg.VideoID,
			Category:    req.Category,
			Votes:       seg.Votes,
			Locked:      seg.Locked,
		})
	}

	return &model.VoteOutcome{Status: model.OutcomeApplied}, nil
}
