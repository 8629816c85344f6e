package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Key0string/SponsorBlockServer/internal/model"
)

// VoteRepo owns the vote ledger and the segment counter mutations that a vote
// transaction performs. All multi-statement work runs on a caller-held tx so
// the ledger row and the counter either both change or neither does.
type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// Begin starts a vote transaction.
func (r *VoteRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// GetSegmentForUpdate loads a segment and locks its row for the duration of
// the transaction. Returns (nil, nil) when the segment does not exist.
func (r *VoteRepo) GetSegmentForUpdate(ctx context.Context, tx pgx.Tx, uuid string) (*model.Segment, error) {
	var s model.Segment
	err := tx.QueryRow(ctx, `
		SELECT segment_id, video_id, category, start_time, end_time, votes, incorrect_votes,
		       views, locked, hidden, shadow_hidden, user_id, time_submitted
		FROM segments
		WHERE segment_id = $1
		FOR UPDATE`, uuid).Scan(
		&s.UUID, &s.VideoID, &s.Category, &s.StartTime, &s.EndTime, &s.Votes, &s.IncorrectVotes,
		&s.Views, &s.Locked, &s.Hidden, &s.ShadowHidden, &s.UserID, &s.TimeSubmitted,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetLedger returns the voter's existing vote record on a segment, locking it
// so concurrent votes by the same identity serialize. Returns (nil, nil) when
// the voter has not voted yet.
func (r *VoteRepo) GetLedger(ctx context.Context, tx pgx.Tx, uuid, userID string) (*model.VoteRecord, error) {
	var rec model.VoteRecord
	err := tx.QueryRow(ctx, `
		SELECT segment_id, user_id, type, ip_hash, created_at
		FROM votes
		WHERE segment_id = $1 AND user_id = $2
		FOR UPDATE`, uuid, userID).Scan(
		&rec.SegmentUUID, &rec.UserID, &rec.Type, &rec.IPHash, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertLedger writes the voter's latest intent, replacing any prior record
// for the same (segment, voter) pair.
func (r *VoteRepo) UpsertLedger(ctx context.Context, tx pgx.Tx, rec *model.VoteRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO votes (segment_id, user_id, type, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (segment_id, user_id) DO UPDATE
		SET type = EXCLUDED.type, ip_hash = EXCLUDED.ip_hash, created_at = NOW()`,
		rec.SegmentUUID, rec.UserID, rec.Type, rec.IPHash)
	return err
}

// ApplyVoteDelta adjusts the segment's score counter by a relative increment
// so concurrent votes from different voters never clobber each other.
func (r *VoteRepo) ApplyVoteDelta(ctx context.Context, tx pgx.Tx, uuid string, delta int) error {
	_, err := tx.Exec(ctx, `
		UPDATE segments SET votes = votes + $1 WHERE segment_id = $2`, delta, uuid)
	return err
}

// ApplyIncorrectDelta adjusts the segment's incorrect-report counter.
func (r *VoteRepo) ApplyIncorrectDelta(ctx context.Context, tx pgx.Tx, uuid string, delta int) error {
	_, err := tx.Exec(ctx, `
		UPDATE segments SET incorrect_votes = incorrect_votes + $1 WHERE segment_id = $2`, delta, uuid)
	return err
}

// SetLocked sets or clears the segment's moderation lock.
func (r *VoteRepo) SetLocked(ctx context.Context, tx pgx.Tx, uuid string, locked bool) error {
	_, err := tx.Exec(ctx, `
		UPDATE segments SET locked = $1 WHERE segment_id = $2`, locked, uuid)
	return err
}

// HasDuplicateIPVote reports whether a different voter ID already voted on
// this segment from the same hashed address.
func (r *VoteRepo) HasDuplicateIPVote(ctx context.Context, uuid, ipHash, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM votes
			WHERE segment_id = $1 AND ip_hash = $2 AND user_id <> $3
		)`, uuid, ipHash, userID).Scan(&exists)
	return exists, err
}
