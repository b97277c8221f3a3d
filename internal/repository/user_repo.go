package repository

import (
	"context"
	"errors"
	"fmt"

	"blog_platform/internal/model"

	"github.com/jackc/pgx/v5"
)

// registrationLockID keys the advisory lock that serializes account
// creation, so two concurrent first registrations cannot both observe an
// admin-less table and both win the bootstrap.
const registrationLockID = 4611

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user inside a single transaction. The account role is
// decided here: while no administrator exists yet, the new account becomes
// the administrator; every later account is an ordinary user. Returns
// ErrDuplicate when the email is already taken.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin registration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, registrationLockID); err != nil {
		return fmt.Errorf("failed to acquire registration lock: %w", err)
	}

	var adminExists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`, model.RoleAdmin).Scan(&adminExists)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if adminExists {
		user.Role = model.RoleUser
	} else {
		user.Role = model.RoleAdmin
	}

	sql := `INSERT INTO users (email, full_name, password_hash, role, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	err = tx.QueryRow(ctx, sql, user.Email, user.FullName, user.PasswordHash, user.Role, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, email, full_name, password_hash, role, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, email, full_name, password_hash, role, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}
