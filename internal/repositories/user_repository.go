package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/greatawakening/checkout-service/internal/models"
	"github.com/jackc/pgx/v4"
)

// UserRepository defines the interface for user data operations used by the
// entitlement flow.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetHasAstrology(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func baseSelectUser() string {
	return `
		SELECT
			id, first_name, last_name, email, user_type, has_astrology,
			created_at, updated_at
		FROM users
	`
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.UserType, &u.HasAstrology,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	q := `
		INSERT INTO users (
			id, first_name, last_name, email, user_type, has_astrology,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, q,
		u.ID, u.FirstName, u.LastName, u.Email, u.UserType, u.HasAstrology,
	)
	return classifyPgError(err)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE email=$1", email)
	return r.scanUser(row)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	return r.scanUser(row)
}

// SetHasAstrology flips the entitlement flag and nothing else. Running it
// twice is a no-op after the first, which is what makes retried webhook
// deliveries safe.
func (r *userRepo) SetHasAstrology(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE users SET has_astrology = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}
