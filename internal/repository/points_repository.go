package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"animehub/pkg/models"
)

// PointsRepository handles user point totals. Rows are created lazily on
// first award with points=0, level=1.
type PointsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserPoints, error)
	Award(ctx context.Context, userID string, amount int) (*models.UserPoints, error)
	AwardTx(ctx context.Context, tx pgx.Tx, userID string, amount int) (*models.UserPoints, error)
	Top(ctx context.Context, limit int) ([]*models.UserPoints, error)
}

type pointsRepository struct {
	pool *pgxpool.Pool
}

// NewPointsRepository creates a new PostgreSQL points repository
func NewPointsRepository(pool *pgxpool.Pool) PointsRepository {
	return &pointsRepository{pool: pool}
}

// Get returns a user's point total; absent rows read as zero points, level 1
func (r *pointsRepository) Get(ctx context.Context, userID string) (*models.UserPoints, error) {
	query := `SELECT user_id, points, level, updated_at FROM user_points WHERE user_id = $1`

	up := &models.UserPoints{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(&up.UserID, &up.Points, &up.Level, &up.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.UserPoints{UserID: userID, Points: 0, Level: 1}, nil
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_points")
	}
	return up, nil
}

// Award adds points outside a transaction
func (r *pointsRepository) Award(ctx context.Context, userID string, amount int) (*models.UserPoints, error) {
	return r.award(ctx, r.pool, userID, amount)
}

// AwardTx adds points inside the given transaction
func (r *pointsRepository) AwardTx(ctx context.Context, tx pgx.Tx, userID string, amount int) (*models.UserPoints, error) {
	return r.award(ctx, tx, userID, amount)
}

// award reads the current total (locking the row when present), recomputes
// the level, and upserts.
func (r *pointsRepository) award(ctx context.Context, q querier, userID string, amount int) (*models.UserPoints, error) {
	var current int
	err := q.QueryRow(ctx, `SELECT points FROM user_points WHERE user_id = $1 FOR UPDATE`, userID).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapDBError(err, "lock_user_points")
	}

	total := current + amount
	if total < 0 {
		total = 0
	}
	level := models.LevelForPoints(total)

	query := `
		INSERT INTO user_points (user_id, points, level, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET points = EXCLUDED.points, level = EXCLUDED.level, updated_at = EXCLUDED.updated_at
		RETURNING user_id, points, level, updated_at
	`

	up := &models.UserPoints{}
	err = q.QueryRow(ctx, query, userID, total, level).Scan(&up.UserID, &up.Points, &up.Level, &up.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err, "award_user_points")
	}
	return up, nil
}

// Top returns the highest point totals for the leaderboard
func (r *pointsRepository) Top(ctx context.Context, limit int) ([]*models.UserPoints, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx,
		`SELECT user_id, points, level, updated_at FROM user_points ORDER BY points DESC LIMIT $1`, limit)
	if err != nil {
		return nil, mapDBError(err, "top_user_points")
	}
	defer rows.Close()

	var out []*models.UserPoints
	for rows.Next() {
		up := &models.UserPoints{}
		if err := rows.Scan(&up.UserID, &up.Points, &up.Level, &up.UpdatedAt); err != nil {
			return nil, mapDBError(err, "scan_user_points")
		}
		out = append(out, up)
	}

	return out, rows.Err()
}
