package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"animehub/pkg/models"
)

// ReviewRepository handles review persistence
type ReviewRepository interface {
	// Upsert creates or replaces the user's review for (jikan_id, language).
	// Returns true when a new row was created.
	Upsert(ctx context.Context, review *models.Review) (bool, error)
	ListByAnime(ctx context.Context, jikanID int64, language string, limit, offset int) ([]*models.ReviewWithUser, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

// Upsert inserts or updates a review keyed by (user_id, jikan_id, language)
func (r *reviewRepository) Upsert(ctx context.Context, review *models.Review) (bool, error) {
	query := `
		INSERT INTO reviews (id, user_id, jikan_id, rating, review, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, CURRENT_TIMESTAMP))
		ON CONFLICT (user_id, jikan_id, language) DO UPDATE
		SET rating = EXCLUDED.rating, review = EXCLUDED.review
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		review.ID,
		review.UserID,
		review.JikanID,
		review.Rating,
		review.Review,
		review.Language,
		review.CreatedAt,
	).Scan(&review.ID, &review.CreatedAt, &inserted)

	if err != nil {
		return false, mapDBError(err, "upsert_review")
	}
	return inserted, nil
}

// ListByAnime returns reviews for an anime in a language, newest first
func (r *reviewRepository) ListByAnime(ctx context.Context, jikanID int64, language string, limit, offset int) ([]*models.ReviewWithUser, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE jikan_id = $1 AND ($2 = '' OR language = $2)`,
		jikanID, language).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_reviews")
	}

	query := `
		SELECT r.id, r.user_id, r.jikan_id, r.rating, r.review, r.language, r.created_at,
		       COALESCE(NULLIF(u.username, ''), u.email) AS username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.jikan_id = $1 AND ($2 = '' OR r.language = $2)
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, jikanID, language, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_reviews")
	}
	defer rows.Close()

	var out []*models.ReviewWithUser
	for rows.Next() {
		rv := &models.ReviewWithUser{}
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.JikanID, &rv.Rating, &rv.Review, &rv.Language, &rv.CreatedAt, &rv.Username); err != nil {
			return nil, 0, mapDBError(err, "scan_review")
		}
		out = append(out, rv)
	}

	return out, total, rows.Err()
}

// CountByUser counts a user's reviews (achievement input)
func (r *reviewRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "count_user_reviews")
	}
	return count, nil
}
