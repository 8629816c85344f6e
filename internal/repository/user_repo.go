package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Key0string/SponsorBlockServer/internal/model"
)

// UserRepo covers user bookkeeping plus the privilege, shadow-ban and warning
// registries that vote eligibility reads from.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// IsVIP reports whether the public user ID is in the privileged-user registry.
func (r *UserRepo) IsVIP(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM vip_users WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

// IsShadowBanned reports whether the user's votes are silently ineligible.
func (r *UserRepo) IsShadowBanned(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM shadow_banned_users WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

// HasSubmissions reports whether the user has ever submitted a segment.
func (r *UserRepo) HasSubmissions(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM segments WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

// ActiveWarnings returns the user's enabled warnings issued after the cutoff.
func (r *UserRepo) ActiveWarnings(ctx context.Context, userID string, issuedAfter time.Time) ([]model.Warning, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, issued_at, issued_by, reason, enabled
		FROM warnings
		WHERE user_id = $1 AND enabled = true AND issued_at > $2`,
		userID, issuedAfter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []model.Warning
	for rows.Next() {
		var w model.Warning
		if err := rows.Scan(&w.ID, &w.UserID, &w.IssuedAt, &w.IssuedBy, &w.Reason, &w.Enabled); err != nil {
			return nil, err
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// Touch upserts the user row and bumps last_active, inside the vote tx.
func (r *UserRepo) Touch(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET last_active = NOW()`, userID)
	return err
}

// FindByUserID returns a single user by their hashed public ID.
func (r *UserRepo) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, first_seen, last_active, COALESCE(username, '')
		FROM users
		WHERE user_id = $1`, userID).Scan(&u.UserID, &u.FirstSeen, &u.LastActive, &u.Username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserCounts returns the user's submission count and the total views on
// their submitted segments.
func (r *UserRepo) GetUserCounts(ctx context.Context, userID string) (segments, views int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(views), 0)
		FROM segments
		WHERE user_id = $1`, userID).Scan(&segments, &views)
	return segments, views, err
}

// GetStats returns aggregate statistics from all tables.
func (r *UserRepo) GetStats(ctx context.Context, hiddenThreshold int) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM segments
			 WHERE votes > $1 AND hidden = false AND shadow_hidden = false) AS total_segments,
			(SELECT COUNT(*) FROM votes) AS total_votes,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE last_active > NOW() - INTERVAL '24 hours') AS active_users_24h`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query, hiddenThreshold).Scan(
		&stats.TotalSegments, &stats.TotalVotes, &stats.TotalUsers, &stats.ActiveUsers24h,
	)
	if err != nil {
		return nil, err
	}

	catQuery := `
		SELECT category, COUNT(*) AS total
		FROM segments
		WHERE hidden = false AND shadow_hidden = false
		GROUP BY category
		ORDER BY total DESC`

	rows, err := r.pool.Query(ctx, catQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.TopCategories = make(map[string]int)
	for rows.Next() {
		var cat string
		var count int
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, err
		}
		stats.TopCategories[cat] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stats, nil
}
