package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"animehub/pkg/models"
)

// UserRepository handles user data persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
	ListModerators(ctx context.Context) ([]*models.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, CURRENT_TIMESTAMP))
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return models.NewHTTPError(models.ErrCodeConflict, "username already exists", 409, err)
		}
		return mapDBError(err, "create_user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id), "get_user_by_id")
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, username), "get_user_by_username")
}

func (r *userRepository) scanUser(row pgx.Row, operation string) (*models.User, error) {
	user := &models.User{}
	var roleStr string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&roleStr,
		&user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewHTTPError(models.ErrCodeNotFound, "user not found", 404, err)
	}
	if err != nil {
		return nil, mapDBError(err, operation)
	}

	user.Role = models.UserRole(roleStr)
	return user, nil
}

// UsernameExists checks if a username is already taken
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool

	err := r.pool.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, mapDBError(err, "check_username_exists")
	}
	return exists, nil
}

// UpdateRole changes a user's role
func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	query := `
		UPDATE users SET role = $2 WHERE id = $1
		RETURNING id
	`
	var updatedID string

	err := r.pool.QueryRow(ctx, query, id, string(role)).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewHTTPError(models.ErrCodeNotFound, "user not found", 404, err)
	}
	if err != nil {
		return mapDBError(err, "update_user_role")
	}
	return nil
}

// ListModerators returns all users in the moderator set (moderators and
// admins), the recipients of submission notifications.
func (r *userRepository) ListModerators(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE role IN ('moderator', 'admin')
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapDBError(err, "list_moderators")
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		user := &models.User{}
		var roleStr string
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &roleStr, &user.CreatedAt); err != nil {
			return nil, mapDBError(err, "scan_moderator")
		}
		user.Role = models.UserRole(roleStr)
		out = append(out, user)
	}

	return out, rows.Err()
}
