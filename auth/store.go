package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore persists user identity records. The service layer owns error
// classification; implementations return driver errors unwrapped so callers
// can inspect pgx.ErrNoRows and unique-violation codes.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
}

type pgUserStore struct {
	db *pgxpool.Pool
}

// NewUserStore creates a PostgreSQL-backed UserStore.
func NewUserStore(db *pgxpool.Pool) UserStore {
	return &pgUserStore{db: db}
}

func (s *pgUserStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (name, email, password, avatar)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query, user.Name, user.Email, user.HashedPassword, user.Avatar).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *pgUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, name, email, password, avatar, created_at FROM users WHERE email = $1`
	err := s.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Avatar, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *pgUserStore) GetUserByID(ctx context.Context, id int) (*User, error) {
	var user User
	query := `SELECT id, name, email, password, avatar, created_at FROM users WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Avatar, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
