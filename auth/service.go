package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/devconnect-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// AuthService provides credential management: registration, login and
// current-user lookup. Dependencies are injected at construction.
type AuthService struct {
	store  UserStore
	issuer *TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, issuer *TokenIssuer) *AuthService {
	return &AuthService{store: store, issuer: issuer}
}

// Register creates a new user and immediately issues a token for it.
// The avatar is derived from the email; the password is bcrypt-hashed with a
// random per-user salt before storage.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:           req.Name,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		HashedPassword: string(hashedPassword),
		Avatar:         GravatarURL(req.Email),
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("user already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	return s.issueFor(created.ID)
}

// Login authenticates a user by email and password and returns a token.
// An unknown email and a wrong password produce the identical error and
// message, so a caller cannot probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewBadRequestError("invalid credentials", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	// Constant-time comparison against the stored hash; the salt and cost
	// parameters are embedded in the hash itself.
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewBadRequestError("invalid credentials", nil)
	}

	return s.issueFor(user.ID)
}

// CurrentUser returns the user record behind a verified token, without the
// password hash. The user may have been deleted between token issuance and
// use, in which case this is a not-found error.
func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) issueFor(userID int) (*TokenResponse, error) {
	token, err := s.issuer.Issue(userID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to sign token", err)
	}
	return &TokenResponse{Token: token}, nil
}
