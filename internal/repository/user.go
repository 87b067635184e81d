package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/picstash/picstash-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

const userColumns = `id, email, username, password_hash, is_active, date_joined, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
// Email and username uniqueness is enforced by the database, so concurrent
// registrations cannot race past a check-then-insert.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, username, password_hash) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Email, user.Username, user.PasswordHash)
	if err != nil {
		if dup, dupErr := duplicateKeyError(err); dup {
			return dupErr
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	user.IsActive = true

	// Read back the DB-generated timestamps.
	row := r.db.QueryRowContext(ctx, `SELECT date_joined, updated_at FROM users WHERE id = ?`, id)
	return row.Scan(&user.DateJoined, &user.UpdatedAt)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.IsActive, &user.DateJoined, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// duplicateKeyError maps a MySQL duplicate entry error (code 1062) to the
// sentinel for whichever unique key was violated. The key name is matched,
// not the whole message: the message also embeds the duplicate value, which
// the caller controls.
func duplicateKeyError(err error) (bool, error) {
	if err == nil || !strings.Contains(err.Error(), "Duplicate entry") {
		return false, nil
	}
	if strings.Contains(err.Error(), "uq_users_username") {
		return true, ErrDuplicateUsername
	}
	return true, ErrDuplicateEmail
}
