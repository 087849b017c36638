package repository

import (
	"context"
	"database/sql"

	"github.com/personal-blog-cms/internal/database"
	"github.com/personal-blog-cms/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new staff user. PasswordHash must already be a
// bcrypt hash.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, is_staff, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.IsStaff,
	).Scan(&user.ID, &user.CreatedAt)
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, password_hash, is_staff, created_at FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by username
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, is_staff, created_at FROM users WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// CreateSession inserts a new session row
func (r *userRepo) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)",
		session.Token, session.UserID, session.ExpiresAt,
	)
	return err
}

// GetSession retrieves a session by token, ignoring expired rows
func (r *userRepo) GetSession(ctx context.Context, token string) (*models.Session, error) {
	query := `SELECT token, user_id, expires_at FROM sessions WHERE token = $1 AND expires_at > now()`
	var s models.Session
	err := r.db.QueryRowContext(ctx, query, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a session row
func (r *userRepo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteExpiredSessions sweeps expired rows and reports how many were
// removed
func (r *userRepo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= now()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *userRepo) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
