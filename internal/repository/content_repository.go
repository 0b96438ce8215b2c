package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"animehub/pkg/models"
)

// ContentVersionRepository handles content version persistence
type ContentVersionRepository interface {
	// Insert creates a pending version. The partial unique index on the
	// content tuple (status='pending') makes this a conditional insert:
	// a concurrent pending row surfaces as models.ErrDuplicatePending.
	Insert(ctx context.Context, version *models.ContentVersion) error
	GetByID(ctx context.Context, id string) (*models.ContentVersion, error)
	GetLatestApproved(ctx context.Context, tuple models.ContentTuple) (*models.ContentVersion, error)
	HasPending(ctx context.Context, tuple models.ContentTuple) (bool, error)
	List(ctx context.Context, filter models.VersionFilter) ([]*models.ModerationVersion, int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ContentVersion, int, error)
	CountApprovedByUser(ctx context.Context, userID string) (int, error)
	// ResolveTx transitions a pending version to approved or rejected
	// inside the given transaction. Returns models.ErrAlreadyResolved when
	// the version exists but is no longer pending.
	ResolveTx(ctx context.Context, tx pgx.Tx, id string, decision models.VersionStatus) (*models.ContentVersion, error)
}

type contentVersionRepository struct {
	pool *pgxpool.Pool
}

// NewContentVersionRepository creates a new PostgreSQL content version repository
func NewContentVersionRepository(pool *pgxpool.Pool) ContentVersionRepository {
	return &contentVersionRepository{pool: pool}
}

const contentVersionColumns = `id, entity_type, entity_id, content_type, language, content, original_content, status, created_by, created_at, updated_at, rejected_at`

func scanContentVersion(row pgx.Row) (*models.ContentVersion, error) {
	v := &models.ContentVersion{}
	var entityType, contentType, status string

	err := row.Scan(
		&v.ID,
		&entityType,
		&v.EntityID,
		&contentType,
		&v.Language,
		&v.Content,
		&v.OriginalContent,
		&status,
		&v.CreatedBy,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.RejectedAt,
	)
	if err != nil {
		return nil, err
	}

	v.EntityType = models.EntityType(entityType)
	v.ContentType = models.ContentType(contentType)
	v.Status = models.VersionStatus(status)
	return v, nil
}

// Insert creates a pending content version
func (r *contentVersionRepository) Insert(ctx context.Context, version *models.ContentVersion) error {
	query := `
		INSERT INTO content_versions (id, entity_type, entity_id, content_type, language, content, original_content, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, CURRENT_TIMESTAMP))
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		version.ID,
		string(version.EntityType),
		version.EntityID,
		string(version.ContentType),
		version.Language,
		version.Content,
		version.OriginalContent,
		string(version.Status),
		version.CreatedBy,
		version.CreatedAt,
	).Scan(&version.ID, &version.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "content_versions_pending_tuple_idx") {
			return models.ErrDuplicatePending
		}
		return mapDBError(err, "insert_content_version")
	}
	return nil
}

// GetByID retrieves a content version by ID
func (r *contentVersionRepository) GetByID(ctx context.Context, id string) (*models.ContentVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_versions WHERE id = $1`, contentVersionColumns)

	v, err := scanContentVersion(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrVersionNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "get_content_version")
	}
	return v, nil
}

// GetLatestApproved returns the most recently created approved version for
// the tuple, or nil when none exists.
func (r *contentVersionRepository) GetLatestApproved(ctx context.Context, tuple models.ContentTuple) (*models.ContentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM content_versions
		WHERE entity_type = $1 AND entity_id = $2 AND content_type = $3 AND language = $4 AND status = 'approved'
		ORDER BY created_at DESC
		LIMIT 1
	`, contentVersionColumns)

	v, err := scanContentVersion(r.pool.QueryRow(ctx, query,
		string(tuple.EntityType), tuple.EntityID, string(tuple.ContentType), tuple.Language))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDBError(err, "get_latest_approved")
	}
	return v, nil
}

// HasPending reports whether a pending version exists for the tuple
func (r *contentVersionRepository) HasPending(ctx context.Context, tuple models.ContentTuple) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM content_versions
			WHERE entity_type = $1 AND entity_id = $2 AND content_type = $3 AND language = $4 AND status = 'pending'
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query,
		string(tuple.EntityType), tuple.EntityID, string(tuple.ContentType), tuple.Language).Scan(&exists)
	if err != nil {
		return false, mapDBError(err, "check_pending_exists")
	}
	return exists, nil
}

// List returns versions matching the filter, newest first, each joined with
// the submitter's display identity and a baseline: the row's own original
// content or, when absent, the latest approved English version of the tuple.
func (r *contentVersionRepository) List(ctx context.Context, filter models.VersionFilter) ([]*models.ModerationVersion, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	i := 1

	if filter.Status != "" && filter.Status != "all" {
		where += fmt.Sprintf(" AND cv.status = $%d", i)
		args = append(args, filter.Status)
		i++
	}
	if filter.ContentType != "" {
		where += fmt.Sprintf(" AND cv.content_type = $%d", i)
		args = append(args, filter.ContentType)
		i++
	}
	if filter.EntityType != "" {
		where += fmt.Sprintf(" AND cv.entity_type = $%d", i)
		args = append(args, filter.EntityType)
		i++
	}
	if filter.Language != "" {
		where += fmt.Sprintf(" AND cv.language = $%d", i)
		args = append(args, filter.Language)
		i++
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM content_versions cv %s`, where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_content_versions")
	}

	query := fmt.Sprintf(`
		SELECT cv.id, cv.entity_type, cv.entity_id, cv.content_type, cv.language, cv.content,
		       cv.original_content, cv.status, cv.created_by, cv.created_at, cv.updated_at, cv.rejected_at,
		       COALESCE(NULLIF(u.username, ''), u.email) AS submitter_name,
		       baseline.content AS baseline_content
		FROM content_versions cv
		JOIN users u ON u.id = cv.created_by
		LEFT JOIN LATERAL (
			SELECT b.content
			FROM content_versions b
			WHERE cv.original_content IS NULL
			  AND b.entity_type = cv.entity_type AND b.entity_id = cv.entity_id
			  AND b.content_type = cv.content_type AND b.language = 'en'
			  AND b.status = 'approved'
			ORDER BY b.created_at DESC
			LIMIT 1
		) baseline ON TRUE
		%s
		ORDER BY cv.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, i, i+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapDBError(err, "list_content_versions")
	}
	defer rows.Close()

	var out []*models.ModerationVersion
	for rows.Next() {
		mv := &models.ModerationVersion{}
		var entityType, contentType, status string
		err := rows.Scan(
			&mv.ID, &entityType, &mv.EntityID, &contentType, &mv.Language, &mv.Content,
			&mv.OriginalContent, &status, &mv.CreatedBy, &mv.CreatedAt, &mv.UpdatedAt, &mv.RejectedAt,
			&mv.SubmitterName, &mv.BaselineContent,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_moderation_version")
		}
		mv.EntityType = models.EntityType(entityType)
		mv.ContentType = models.ContentType(contentType)
		mv.Status = models.VersionStatus(status)
		out = append(out, mv)
	}

	return out, total, rows.Err()
}

// ListByUser returns a user's submissions, newest first
func (r *contentVersionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ContentVersion, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM content_versions WHERE created_by = $1`, userID).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_user_versions")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM content_versions
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, contentVersionColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_user_versions")
	}
	defer rows.Close()

	var out []*models.ContentVersion
	for rows.Next() {
		v, err := scanContentVersion(rows)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_content_version")
		}
		out = append(out, v)
	}

	return out, total, rows.Err()
}

// CountApprovedByUser counts a user's approved versions (achievement input)
func (r *contentVersionRepository) CountApprovedByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM content_versions WHERE created_by = $1 AND status = 'approved'`, userID).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "count_approved_by_user")
	}
	return count, nil
}

// ResolveTx performs the one-shot pending -> approved|rejected transition
func (r *contentVersionRepository) ResolveTx(ctx context.Context, tx pgx.Tx, id string, decision models.VersionStatus) (*models.ContentVersion, error) {
	now := time.Now()
	var rejectedAt *time.Time
	if decision == models.VersionStatusRejected {
		rejectedAt = &now
	}

	query := fmt.Sprintf(`
		UPDATE content_versions
		SET status = $2, updated_at = $3, rejected_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, contentVersionColumns)

	v, err := scanContentVersion(tx.QueryRow(ctx, query, id, string(decision), now, rejectedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish missing from already resolved
		var status string
		lookupErr := tx.QueryRow(ctx, `SELECT status FROM content_versions WHERE id = $1`, id).Scan(&status)
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, models.ErrVersionNotFound
		}
		if lookupErr != nil {
			return nil, mapDBError(lookupErr, "resolve_status_lookup")
		}
		return nil, models.ErrAlreadyResolved
	}
	if err != nil {
		return nil, mapDBError(err, "resolve_content_version")
	}
	return v, nil
}
