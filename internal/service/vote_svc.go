package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Key0string/SponsorBlockServer/internal/config"
	"github.com/Key0string/SponsorBlockServer/internal/model"
	"github.com/Key0string/SponsorBlockServer/internal/repository"
)

// VoteService is the score-vote engine: it resolves the voter's identity,
// runs the eligibility gate, computes the ledger delta and applies it to the
// segment's counters, all inside one transaction.
type VoteService struct {
	votes      *repository.VoteRepo
	users      *repository.UserRepo
	categories *repository.CategoryRepo
	identity   *IdentityService
	cache      *CacheService
	dispatch   *DispatchService
	cfg        *config.Config
}

func NewVoteService(
	votes *repository.VoteRepo,
	users *repository.UserRepo,
	categories *repository.CategoryRepo,
	identity *IdentityService,
	cache *CacheService,
	dispatch *DispatchService,
	cfg *config.Config,
) *VoteService {
	return &VoteService{
		votes:      votes,
		users:      users,
		categories: categories,
		identity:   identity,
		cache:      cache,
		dispatch:   dispatch,
		cfg:        cfg,
	}
}

func rejected(code, message string) *model.VoteOutcome {
	return &model.VoteOutcome{Status: model.OutcomeRejected, Code: code, Message: message}
}

// Submit processes a score vote (up/down/incorrect/undo). Category votes go
// through CategoryService instead.
func (s *VoteService) Submit(ctx context.Context, req model.VoteRequest, ip string) (*model.VoteOutcome, error) {
	if req.UUID == "" || req.UserID == "" || req.Type == nil {
		return rejected(CodeMissingFields, "UUID, userID and type are required"), nil
	}
	kind, ok := ParseVoteType(*req.Type)
	if !ok {
		return rejected(CodeInvalidType, fmt.Sprintf("unrecognized vote type %d", *req.Type)), nil
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

	in, err := s.buildGateInput(ctx, kind, false, seg, ids, isOwner)
	if err != nil {
		return nil, err
	}
	decision := EvaluateGate(in)

	switch decision.Status {
	case GateRejected:
		return &model.VoteOutcome{Status: model.OutcomeRejected, Code: decision.Code, Message: decision.Message}, nil
	case GateAcknowledged:
		return &model.VoteOutcome{Status: model.OutcomeAcknowledged, Message: decision.Message}, nil
	case GateSilent:
		return &model.VoteOutcome{Status: model.OutcomeSilent}, nil
	}

	ledger, err := s.votes.GetLedger(ctx, tx, req.UUID, ids.VoterID)
	if err != nil {
		return nil, err
	}
	oldWeight := 0
	if ledger != nil {
		oldWeight = DecodeStoredType(ledger.Type)
	}

	// Privileged weighting covers VIPs and self-votes on one's own segment.
	privileged := ids.IsVIP || isOwner
	newWeight := NewWeight(kind, privileged, seg.Votes, oldWeight)
	delta := newWeight - oldWeight
	encoded := EncodeIntent(kind, privileged, newWeight)

	record := &model.VoteRecord{
		SegmentUUID: req.UUID,
		UserID:      ids.VoterID,
		Type:        encoded,
		IPHash:      ids.IPHash,
	}

	if decision.Status == GateRecordOnly {
		// Ledger bookkeeping only; counters stay untouched so the excluded
		// voter cannot detect the exclusion.
		if err := s.votes.UpsertLedger(ctx, tx, record); err != nil {
			return nil, err
		}
		if err := s.users.Touch(ctx, tx, ids.PublicID); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &model.VoteOutcome{Status: model.OutcomeApplied}, nil
	}

	// Repeating an identical vote nets to zero; skip all writes.
	if delta == 0 && (ledger == nil || ledger.Type == encoded) {
		return &model.VoteOutcome{Status: model.OutcomeApplied}, nil
	}

	// Undo reverses whichever counter the original vote hit.
	incorrectCounter := kind.IsIncorrect() ||
		(kind == KindUndo && ledger != nil && storedTypeIsIncorrect(ledger.Type))

	if delta != 0 {
		if incorrectCounter {
			err = s.votes.ApplyIncorrectDelta(ctx, tx, req.UUID, delta)
		} else {
			err = s.votes.ApplyVoteDelta(ctx, tx, req.UUID, delta)
		}
		if err != nil {
			return nil, err
		}

		// A VIP upvote endorses the segment against further erosion; a VIP
		// downvote reopens it to scrutiny.
		if ids.IsVIP && !kind.IsIncorrect() {
			switch kind {
			case KindUpvote:
				if err := s.votes.SetLocked(ctx, tx, req.UUID, true); err != nil {
					return nil, err
				}
			case KindDownvote:
				if err := s.votes.SetLocked(ctx, tx, req.UUID, false); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := s.votes.UpsertLedger(ctx, tx, record); err != nil {
		return nil, err
	}
	if err := s.users.Touch(ctx, tx, ids.PublicID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if delta != 0 {
		newVotes := seg.Votes
		if !incorrectCounter {
			newVotes += delta
		}
		s.afterCommit(ctx, seg, kind, newVotes, ids.IsVIP)
	}
	return &model.VoteOutcome{Status: model.OutcomeApplied}, nil
}

// buildGateInput gathers the eligibility reads for one vote. The anti-abuse
// lookups are skipped for VIPs and for category votes, mirroring the gate's
// short-circuits.
func (s *VoteService) buildGateInput(ctx context.Context, kind VoteKind, categoryVote bool, seg *model.Segment, ids Identity, isOwner bool) (GateInput, error) {
	locked := seg.Locked
	if !locked {
		var err error
		locked, err = s.categories.IsCategoryLocked(ctx, seg.VideoID, seg.Category)
		if err != nil {
			return GateInput{}, err
		}
	}

	cutoff := time.Now().Add(-s.cfg.WarningExpiry)
	warnings, err := s.users.ActiveWarnings(ctx, ids.PublicID, cutoff)
	if err != nil {
		return GateInput{}, err
	}

	in := GateInput{
		Kind:              kind,
		CategoryVote:      categoryVote,
		IsVIP:             ids.IsVIP,
		IsOwner:           isOwner,
		SegmentVotes:      seg.Votes,
		SuppressThreshold: s.cfg.HiddenVoteThreshold,
		Locked:            locked,
		ActiveWarnings:    len(warnings),
		MaxWarnings:       s.cfg.MaxWarnings,
	}

	if !categoryVote && !ids.IsVIP {
		if in.HasPriorSubmission, err = s.users.HasSubmissions(ctx, ids.PublicID); err != nil {
			return GateInput{}, err
		}
		if in.ShadowBanned, err = s.users.IsShadowBanned(ctx, ids.PublicID); err != nil {
			return GateInput{}, err
		}
		if in.DuplicateIP, err = s.votes.HasDuplicateIPVote(ctx, seg.UUID, ids.IPHash, ids.VoterID); err != nil {
			return GateInput{}, err
		}
	}

	return in, nil
}

// afterCommit handles the fire-and-forget side effects: cache invalidation
// and notification dispatch. Neither can fail the vote; the response is
// already decided.
func (s *VoteService) afterCommit(ctx context.Context, seg *model.Segment, kind VoteKind, newVotes int, vip bool) {
	if s.cache != nil {
		if err := s.cache.InvalidateVideo(ctx, seg.VideoID); err != nil {
			log.Printf("cache: invalidate video error: %v", err)
		}
	}

	locked := seg.Locked
	if vip && !kind.IsIncorrect() {
		locked = kind == KindUpvote
	}
	if s.dispatch != nil {
		s.dispatch.Dispatch(VoteEvent{
			Kind:        EventVote,
			SegmentUUID: seg.UUID,
			VideoID:     seg.VideoID,
			Category:    seg.Category,
			Votes:       newVotes,
			Locked:      locked,
		})
	}
}

func storedTypeIsIncorrect(t int) bool {
	switch t {
	case typeIncorrectDown, typeIncorrectUp, typeIncorrectUpVIP, typeIncorrectDownVIP:
		return true
	}
	return false
}
