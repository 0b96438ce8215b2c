package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"animehub/pkg/models"
)

// AchievementRepository handles granted achievement records
type AchievementRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.UserAchievement, error)
	// Grant records an achievement once; re-granting is a no-op and
	// returns false.
	Grant(ctx context.Context, grant *models.UserAchievement) (bool, error)
}

type achievementRepository struct {
	pool *pgxpool.Pool
}

// NewAchievementRepository creates a new PostgreSQL achievement repository
func NewAchievementRepository(pool *pgxpool.Pool) AchievementRepository {
	return &achievementRepository{pool: pool}
}

// ListByUser returns a user's granted achievements
func (r *achievementRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapDBError(err, "list_user_achievements")
	}
	defer rows.Close()

	var out []*models.UserAchievement
	for rows.Next() {
		ua := &models.UserAchievement{}
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.UnlockedAt); err != nil {
			return nil, mapDBError(err, "scan_user_achievement")
		}
		out = append(out, ua)
	}

	return out, rows.Err()
}

// Grant inserts an achievement record, ignoring duplicates
func (r *achievementRepository) Grant(ctx context.Context, grant *models.UserAchievement) (bool, error) {
	query := `
		INSERT INTO user_achievements (id, user_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3, COALESCE($4, CURRENT_TIMESTAMP))
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, grant.ID, grant.UserID, grant.AchievementID, grant.UnlockedAt)
	if err != nil {
		return false, mapDBError(err, "grant_achievement")
	}
	return tag.RowsAffected() > 0, nil
}
