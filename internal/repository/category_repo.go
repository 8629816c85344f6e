package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Key0string/SponsorBlockServer/internal/model"
)

// CategoryRepo owns the weighted category tallies and per-voter category
// pointers used by the category-change protocol, plus category-wide locks.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// IsCategoryLocked reports whether moderators locked this (video, category)
// pair as a whole.
func (r *CategoryRepo) IsCategoryLocked(ctx context.Context, videoID, category string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM lock_categories WHERE video_id = $1 AND category = $2
		)`, videoID, category).Scan(&exists)
	return exists, err
}

// GetUserCategoryVote returns the voter's active category vote on a segment,
// locking the row so concurrent category votes by one identity serialize.
// Returns (nil, nil) when the voter has no active category vote.
func (r *CategoryRepo) GetUserCategoryVote(ctx context.Context, tx pgx.Tx, uuid, userID string) (*model.CategoryVoteUser, error) {
	var v model.CategoryVoteUser
	err := tx.QueryRow(ctx, `
		SELECT segment_id, user_id, category, weight
		FROM category_vote_users
		WHERE segment_id = $1 AND user_id = $2
		FOR UPDATE`, uuid, userID).Scan(&v.SegmentUUID, &v.UserID, &v.Category, &v.Weight)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetTally returns the aggregate weighted tally for a (segment, category)
// pair. The second return reports whether a row exists at all, which the
// consensus engine uses to decide on baseline seeding.
func (r *CategoryRepo) GetTally(ctx context.Context, tx pgx.Tx, uuid, category string) (int, bool, error) {
	var votes int
	err := tx.QueryRow(ctx, `
		SELECT votes FROM category_votes
		WHERE segment_id = $1 AND category = $2`, uuid, category).Scan(&votes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return votes, true, nil
}

// AddToTally applies a relative weighted increment to a category's tally,
// creating the row if this is the first vote for that category.
func (r *CategoryRepo) AddToTally(ctx context.Context, tx pgx.Tx, uuid, category string, delta int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO category_votes (segment_id, category, votes)
		VALUES ($1, $2, $3)
		ON CONFLICT (segment_id, category) DO UPDATE
		SET votes = category_votes.votes + EXCLUDED.votes`,
		uuid, category, delta)
	return err
}

// SeedBaseline writes the incumbent category's implicit submitter endorsement
// exactly once, attributed to the segment owner. A concurrent seed loses the
// insert race and is a no-op.
func (r *CategoryRepo) SeedBaseline(ctx context.Context, tx pgx.Tx, uuid, category, ownerID string, weight int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO category_votes (segment_id, category, votes)
		VALUES ($1, $2, $3)
		ON CONFLICT (segment_id, category) DO NOTHING`,
		uuid, category, weight)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO category_vote_users (segment_id, user_id, category, weight)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (segment_id, user_id) DO NOTHING`,
		uuid, ownerID, category, weight)
	return err
}

// UpsertUserCategoryVote moves the voter's active-vote pointer.
func (r *CategoryRepo) UpsertUserCategoryVote(ctx context.Context, tx pgx.Tx, v *model.CategoryVoteUser) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO category_vote_users (segment_id, user_id, category, weight)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (segment_id, user_id) DO UPDATE
		SET category = EXCLUDED.category, weight = EXCLUDED.weight`,
		v.SegmentUUID, v.UserID, v.Category, v.Weight)
	return err
}

// SetSegmentCategory reassigns the segment's category.
func (r *CategoryRepo) SetSegmentCategory(ctx context.Context, tx pgx.Tx, uuid, category string) error {
	_, err := tx.Exec(ctx, `
		UPDATE segments SET category = $1 WHERE segment_id = $2`, category, uuid)
	return err
}
