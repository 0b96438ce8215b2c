package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"animehub/pkg/models"
)

// BookmarkRepository handles bookmark persistence
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, userID, bookmarkID string) error
	DeleteByTuple(ctx context.Context, userID string, entityID int64, entityType models.EntityType, category models.BookmarkCategory) (bool, error)
	ListByUser(ctx context.Context, userID string, category string) ([]*models.Bookmark, error)
	Exists(ctx context.Context, userID string, entityID int64, entityType models.EntityType, category models.BookmarkCategory) (bool, error)
}

type bookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBookmarkRepository creates a new PostgreSQL bookmark repository
func NewBookmarkRepository(pool *pgxpool.Pool) BookmarkRepository {
	return &bookmarkRepository{pool: pool}
}

// Create inserts a bookmark; the unique index on (user, entity, type,
// category) rejects duplicates.
func (r *bookmarkRepository) Create(ctx context.Context, b *models.Bookmark) error {
	query := `
		INSERT INTO bookmarks (id, user_id, entity_id, entity_type, category, title, title_english, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, CURRENT_TIMESTAMP))
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.ID,
		b.UserID,
		b.EntityID,
		string(b.EntityType),
		string(b.Category),
		b.Title,
		b.TitleEnglish,
		b.ImageURL,
		b.CreatedAt,
	).Scan(&b.ID, &b.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return models.NewHTTPError(models.ErrCodeConflict, "bookmark already exists", 409, err)
		}
		return mapDBError(err, "create_bookmark")
	}
	return nil
}

// Delete removes a bookmark owned by the user
func (r *bookmarkRepository) Delete(ctx context.Context, userID, bookmarkID string) error {
	query := `
		DELETE FROM bookmarks WHERE id = $1 AND user_id = $2
		RETURNING id
	`
	var id string
	err := r.pool.QueryRow(ctx, query, bookmarkID, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewHTTPError(models.ErrCodeNotFound, "bookmark not found", 404, err)
	}
	if err != nil {
		return mapDBError(err, "delete_bookmark")
	}
	return nil
}

// DeleteByTuple removes the bookmark identified by its uniqueness tuple,
// reporting whether a row was removed (toggle support).
func (r *bookmarkRepository) DeleteByTuple(ctx context.Context, userID string, entityID int64, entityType models.EntityType, category models.BookmarkCategory) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND entity_id = $2 AND entity_type = $3 AND category = $4`,
		userID, entityID, string(entityType), string(category))
	if err != nil {
		return false, mapDBError(err, "delete_bookmark_by_tuple")
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns a user's bookmarks, optionally filtered by category
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID string, category string) ([]*models.Bookmark, error) {
	query := `
		SELECT id, user_id, entity_id, entity_type, category, title, title_english, image_url, created_at
		FROM bookmarks
		WHERE user_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, category)
	if err != nil {
		return nil, mapDBError(err, "list_bookmarks")
	}
	defer rows.Close()

	var out []*models.Bookmark
	for rows.Next() {
		b := &models.Bookmark{}
		var entityType, cat string
		if err := rows.Scan(&b.ID, &b.UserID, &b.EntityID, &entityType, &cat, &b.Title, &b.TitleEnglish, &b.ImageURL, &b.CreatedAt); err != nil {
			return nil, mapDBError(err, "scan_bookmark")
		}
		b.EntityType = models.EntityType(entityType)
		b.Category = models.BookmarkCategory(cat)
		out = append(out, b)
	}

	return out, rows.Err()
}

// Exists reports whether the bookmark tuple is present
func (r *bookmarkRepository) Exists(ctx context.Context, userID string, entityID int64, entityType models.EntityType, category models.BookmarkCategory) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND entity_id = $2 AND entity_type = $3 AND category = $4)`,
		userID, entityID, string(entityType), string(category)).Scan(&exists)
	if err != nil {
		return false, mapDBError(err, "check_bookmark_exists")
	}
	return exists, nil
}
