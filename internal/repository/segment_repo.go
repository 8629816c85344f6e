package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Key0string/SponsorBlockServer/internal/model"
)

// SegmentRepo serves the read side of segment lookups plus view counting.
type SegmentRepo struct {
	pool *pgxpool.Pool
}

func NewSegmentRepo(pool *pgxpool.Pool) *SegmentRepo {
	return &SegmentRepo{pool: pool}
}

const segmentColumns = `
	segment_id, video_id, category, start_time, end_time, votes, incorrect_votes,
	views, locked, hidden, shadow_hidden, user_id, time_submitted`

func scanSegments(rows pgx.Rows) ([]model.Segment, error) {
	var segments []model.Segment
	for rows.Next() {
		var s model.Segment
		err := rows.Scan(
			&s.UUID, &s.VideoID, &s.Category, &s.StartTime, &s.EndTime, &s.Votes, &s.IncorrectVotes,
			&s.Views, &s.Locked, &s.Hidden, &s.ShadowHidden, &s.UserID, &s.TimeSubmitted,
		)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// FindVisibleByVideoID returns a video's segments that are above the
// suppression threshold and not moderated away. An empty categories slice
// means all categories.
func (r *SegmentRepo) FindVisibleByVideoID(ctx context.Context, videoID string, categories []string, hiddenThreshold int) ([]model.Segment, error) {
	query := `
		SELECT ` + segmentColumns + `
		FROM segments
		WHERE video_id = $1
		  AND votes > $2
		  AND hidden = false AND shadow_hidden = false
		  AND ($3::text[] IS NULL OR category = ANY($3))
		ORDER BY start_time`

	var cats any
	if len(categories) > 0 {
		cats = categories
	}
	rows, err := r.pool.Query(ctx, query, videoID, hiddenThreshold, cats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSegments(rows)
}

// FindByHashPrefix returns visible segments of every video whose SHA256 hash
// starts with the given prefix.
func (r *SegmentRepo) FindByHashPrefix(ctx context.Context, prefix string, hiddenThreshold int) ([]model.Segment, error) {
	query := `
		SELECT ` + segmentColumns + `
		FROM segments
		WHERE encode(sha256(video_id::bytea), 'hex') LIKE $1 || '%'
		  AND votes > $2
		  AND hidden = false AND shadow_hidden = false
		ORDER BY video_id, start_time
		LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, prefix, hiddenThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSegments(rows)
}

// IncrementViews bumps a segment's view counter atomically. Returns false
// when the segment does not exist.
func (r *SegmentRepo) IncrementViews(ctx context.Context, uuid string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE segments SET views = views + 1 WHERE segment_id = $1`, uuid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
